package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users     map[int64]*user.User
	openTasks map[int64]int64
	nextID    int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:     make(map[int64]*user.User),
		openTasks: make(map[int64]int64),
		nextID:    1,
	}
}

func (m *MockRepository) Create(u *user.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) GetByID(id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *u
	return &copied, nil
}

func (m *MockRepository) GetByEmail(email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockRepository) GetAll() ([]*user.User, error) {
	var result []*user.User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *MockRepository) GetByDepartment(deptID int64) ([]*user.User, error) {
	var result []*user.User
	for _, u := range m.users {
		if u.DepartmentID != nil && *u.DepartmentID == deptID {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *MockRepository) GetFirstActiveAdmin() (*user.User, error) {
	for _, u := range m.users {
		if u.Role == auth.RoleAdmin && u.IsActive {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockRepository) Update(u *user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	delete(m.users, id)
	return nil
}

func (m *MockRepository) CountOpenTasks(userID int64) (int64, error) {
	return m.openTasks[userID], nil
}

func (m *MockRepository) AddUser(u *user.User) {
	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	m.users[u.ID] = u
}

type nopRecorder struct{}

func (nopRecorder) Record(actorID int64, action, detail string) {}

// plainHasher avoids bcrypt cost in unit tests.
type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

// recordingRevoker tracks which accounts had their sessions revoked.
type recordingRevoker struct {
	revoked []int64
}

func (r *recordingRevoker) RevokeAllForUser(userID int64) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

func ptrInt64(v int64) *int64 { return &v }

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		revoker  *recordingRevoker
		service  *user.Service

		deptOps   = ptrInt64(1)
		deptOther = ptrInt64(2)

		admin   *auth.User
		manager *auth.User
		staff   *auth.User
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		revoker = &recordingRevoker{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, auth.NewPolicy(), plainHasher{}, revoker, nopRecorder{}, logger)

		admin = &auth.User{ID: 1, Role: auth.RoleAdmin, IsActive: true}
		manager = &auth.User{ID: 2, Role: auth.RoleManager, DepartmentID: deptOps, IsActive: true}
		staff = &auth.User{ID: 3, Role: auth.RoleStaff, DepartmentID: deptOps, IsActive: true}
	})

	Describe("CreateUser", func() {
		It("should let an admin create any role", func() {
			created, err := service.CreateUser(admin, user.CreateUserDTO{
				FullName: "Nadia Osman",
				Email:    "nadia@example.org",
				Password: "orchard-gate-7",
				Role:     auth.RoleManager,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsActive).To(BeTrue())
			Expect(created.PasswordHash).To(Equal("hashed:orchard-gate-7"))
		})

		It("should let a manager create staff in their own department", func() {
			created, err := service.CreateUser(manager, user.CreateUserDTO{
				FullName:     "Tomás Rivera",
				Email:        "tomas@example.org",
				Password:     "harbour-mist-9",
				Role:         auth.RoleStaff,
				DepartmentID: deptOps,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Role).To(Equal(auth.RoleStaff))
		})

		It("should forbid a manager creating another manager", func() {
			_, err := service.CreateUser(manager, user.CreateUserDTO{
				FullName:     "Eve Park",
				Email:        "eve@example.org",
				Password:     "quiet-lantern-3",
				Role:         auth.RoleManager,
				DepartmentID: deptOps,
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleDenied))
		})

		It("should forbid a manager creating staff in another department", func() {
			_, err := service.CreateUser(manager, user.CreateUserDTO{
				FullName:     "Eve Park",
				Email:        "eve@example.org",
				Password:     "quiet-lantern-3",
				Role:         auth.RoleStaff,
				DepartmentID: deptOther,
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeScopeViolation))
		})

		It("should reject a duplicate email", func() {
			mockRepo.AddUser(&user.User{FullName: "Existing", Email: "dup@example.org", Role: auth.RoleStaff})

			_, err := service.CreateUser(admin, user.CreateUserDTO{
				FullName: "Dup",
				Email:    "dup@example.org",
				Password: "copper-kettle-5",
				Role:     auth.RoleStaff,
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeEmailTaken))
		})

		It("should reject a short password", func() {
			_, err := service.CreateUser(admin, user.CreateUserDTO{
				FullName: "Short",
				Email:    "short@example.org",
				Password: "short",
				Role:     auth.RoleStaff,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetUser", func() {
		It("should mask accounts outside the actor's scope", func() {
			mockRepo.AddUser(&user.User{ID: 10, FullName: "Remote", Email: "remote@example.org", Role: auth.RoleStaff, DepartmentID: deptOther})

			_, err := service.GetUser(staff, 10)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should always let users read themselves", func() {
			mockRepo.AddUser(&user.User{ID: staff.ID, FullName: "Self", Email: "self@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})

			got, err := service.GetUser(staff, staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.FullName).To(Equal("Self"))
		})
	})

	Describe("UpdateUser", func() {
		It("should gate role escalation like creation", func() {
			mockRepo.AddUser(&user.User{ID: 10, FullName: "Jo", Email: "jo@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})

			role := auth.RoleManager
			_, err := service.UpdateUser(manager, 10, user.UpdateUserDTO{Role: &role})
			Expect(err).To(HaveOccurred())

			updated, err := service.UpdateUser(admin, 10, user.UpdateUserDTO{Role: &role})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(auth.RoleManager))
		})

		It("should keep department moves admin-only", func() {
			mockRepo.AddUser(&user.User{ID: 10, FullName: "Jo", Email: "jo@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})

			_, err := service.UpdateUser(manager, 10, user.UpdateUserDTO{DepartmentID: deptOther})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleDenied))
		})

		It("should forbid managers touching admin accounts", func() {
			mockRepo.AddUser(&user.User{ID: 11, FullName: "Root", Email: "root@example.org", Role: auth.RoleAdmin, DepartmentID: deptOps})

			name := "renamed"
			_, err := service.UpdateUser(manager, 11, user.UpdateUserDTO{FullName: &name})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DeleteUser", func() {
		It("should refuse while open tasks remain assigned", func() {
			mockRepo.AddUser(&user.User{ID: 10, FullName: "Busy", Email: "busy@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})
			mockRepo.openTasks[10] = 2

			err := service.DeleteUser(admin, 10)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeHasDependents))
		})

		It("should delete once the task count is zero", func() {
			mockRepo.AddUser(&user.User{ID: 10, FullName: "Idle", Email: "idle@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})

			Expect(service.DeleteUser(admin, 10)).To(Succeed())
			_, err := mockRepo.GetByID(10)
			Expect(err).To(HaveOccurred())
		})

		It("should revoke every session the account held", func() {
			mockRepo.AddUser(&user.User{ID: 10, FullName: "Idle", Email: "idle@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})

			Expect(service.DeleteUser(admin, 10)).To(Succeed())
			Expect(revoker.revoked).To(ConsistOf(int64(10)))
		})

		It("should not revoke sessions when the delete is refused", func() {
			mockRepo.AddUser(&user.User{ID: 10, FullName: "Busy", Email: "busy@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})
			mockRepo.openTasks[10] = 2

			Expect(service.DeleteUser(admin, 10)).NotTo(Succeed())
			Expect(revoker.revoked).To(BeEmpty())
		})
	})

	Describe("ListUsers", func() {
		BeforeEach(func() {
			mockRepo.AddUser(&user.User{FullName: "A", Email: "a@example.org", Role: auth.RoleStaff, DepartmentID: deptOps})
			mockRepo.AddUser(&user.User{FullName: "B", Email: "b@example.org", Role: auth.RoleStaff, DepartmentID: deptOther})
		})

		It("should return everyone for admins", func() {
			users, err := service.ListUsers(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})

		It("should return department members for everyone else", func() {
			users, err := service.ListUsers(staff)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
		})
	})
})
