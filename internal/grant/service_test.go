package grant_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/grant"
)

func TestGrantService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Grant Service Suite")
}

// MockRepository implements grant.RepositoryAPI for testing
type MockRepository struct {
	grants map[int64]*grant.AccessGrant
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{grants: make(map[int64]*grant.AccessGrant), nextID: 1}
}

func (m *MockRepository) Create(g *grant.AccessGrant) error {
	g.ID = m.nextID
	m.nextID++
	m.grants[g.ID] = g
	return nil
}

func (m *MockRepository) GetByID(id int64) (*grant.AccessGrant, error) {
	g, ok := m.grants[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return g, nil
}

func (m *MockRepository) GetAll() ([]*grant.AccessGrant, error) {
	var result []*grant.AccessGrant
	for _, g := range m.grants {
		result = append(result, g)
	}
	return result, nil
}

func (m *MockRepository) GetByDepartment(departmentID int64) ([]*grant.AccessGrant, error) {
	var result []*grant.AccessGrant
	for _, g := range m.grants {
		if g.DepartmentID != nil && *g.DepartmentID == departmentID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *MockRepository) GetByUser(userID int64) ([]*grant.AccessGrant, error) {
	var result []*grant.AccessGrant
	for _, g := range m.grants {
		if g.UserID == userID {
			result = append(result, g)
		}
	}
	return result, nil
}

func (m *MockRepository) Delete(id int64) error {
	delete(m.grants, id)
	return nil
}

// mockDirectory implements grant.UserDirectory
type mockDirectory struct {
	users map[int64]*auth.User
}

func (d *mockDirectory) GetUserByID(id int64) (*auth.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

type nopRecorder struct{}

func (nopRecorder) Record(actorID int64, action, detail string) {}

func ptrInt64(v int64) *int64 { return &v }

var _ = Describe("Grant Service", func() {
	var (
		mockRepo *MockRepository
		service  *grant.Service

		deptOps   = ptrInt64(1)
		deptOther = ptrInt64(2)

		admin        *auth.User
		manager      *auth.User
		staff        *auth.User
		otherStaff   *auth.User
		otherManager *auth.User
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()

		admin = &auth.User{ID: 1, Role: auth.RoleAdmin, IsActive: true}
		manager = &auth.User{ID: 2, Role: auth.RoleManager, DepartmentID: deptOps, IsActive: true}
		staff = &auth.User{ID: 3, Role: auth.RoleStaff, DepartmentID: deptOps, IsActive: true}
		otherStaff = &auth.User{ID: 4, Role: auth.RoleStaff, DepartmentID: deptOther, IsActive: true}
		otherManager = &auth.User{ID: 5, Role: auth.RoleManager, DepartmentID: deptOther, IsActive: true}

		dir := &mockDirectory{users: map[int64]*auth.User{
			admin.ID:        admin,
			manager.ID:      manager,
			staff.ID:        staff,
			otherStaff.ID:   otherStaff,
			otherManager.ID: otherManager,
		}}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = grant.NewService(mockRepo, dir, nopRecorder{}, logger)
	})

	Describe("CreateGrant", func() {
		It("should default the grant department to the grantee's", func() {
			g, err := service.CreateGrant(admin, grant.CreateGrantDTO{
				UserID:       staff.ID,
				ResourceType: "report",
				ResourceID:   7,
				Permission:   string(grant.PermissionView),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.DepartmentID).To(Equal(deptOps))
		})

		It("should keep managers inside their department", func() {
			_, err := service.CreateGrant(manager, grant.CreateGrantDTO{
				UserID:       otherStaff.ID,
				ResourceType: "report",
				ResourceID:   7,
				Permission:   string(grant.PermissionView),
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeScopeViolation))

			g, err := service.CreateGrant(manager, grant.CreateGrantDTO{
				UserID:       staff.ID,
				ResourceType: "report",
				ResourceID:   7,
				Permission:   string(grant.PermissionEdit),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Permission).To(Equal(grant.PermissionEdit))
		})

		It("should forbid staff granting access", func() {
			_, err := service.CreateGrant(staff, grant.CreateGrantDTO{
				UserID:       staff.ID,
				ResourceType: "report",
				ResourceID:   7,
				Permission:   string(grant.PermissionView),
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an unknown permission", func() {
			_, err := service.CreateGrant(admin, grant.CreateGrantDTO{
				UserID:       staff.ID,
				ResourceType: "report",
				ResourceID:   7,
				Permission:   "owner",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an unknown grantee", func() {
			_, err := service.CreateGrant(admin, grant.CreateGrantDTO{
				UserID:       999,
				ResourceType: "report",
				ResourceID:   7,
				Permission:   string(grant.PermissionView),
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("ListGrants", func() {
		BeforeEach(func() {
			_, err := service.CreateGrant(admin, grant.CreateGrantDTO{
				UserID: staff.ID, ResourceType: "report", ResourceID: 1, Permission: string(grant.PermissionView),
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateGrant(admin, grant.CreateGrantDTO{
				UserID: otherStaff.ID, ResourceType: "report", ResourceID: 2, Permission: string(grant.PermissionView),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return all grants for admins", func() {
			grants, err := service.ListGrants(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveLen(2))
		})

		It("should scope managers to their department", func() {
			grants, err := service.ListGrants(manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveLen(1))
			Expect(grants[0].UserID).To(Equal(staff.ID))
		})

		It("should show staff only their own grants", func() {
			grants, err := service.ListGrants(staff)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveLen(1))
			Expect(grants[0].UserID).To(Equal(staff.ID))
		})
	})

	Describe("DeleteGrant", func() {
		var granted *grant.AccessGrant

		BeforeEach(func() {
			var err error
			granted, err = service.CreateGrant(admin, grant.CreateGrantDTO{
				UserID: staff.ID, ResourceType: "report", ResourceID: 1, Permission: string(grant.PermissionView),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should mask out-of-scope revocations as not found", func() {
			err := service.DeleteGrant(otherManager, granted.ID)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should let the department manager revoke", func() {
			Expect(service.DeleteGrant(manager, granted.ID)).To(Succeed())
			_, err := mockRepo.GetByID(granted.ID)
			Expect(err).To(HaveOccurred())
		})
	})
})
