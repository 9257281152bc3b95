package performance_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/performance"
)

func TestPerformanceService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Performance Service Suite")
}

// MockRepository implements performance.RepositoryAPI for testing
type MockRepository struct {
	logs   []*performance.PerformanceLog
	byDept map[int64][]int64
	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{byDept: make(map[int64][]int64), nextID: 1}
}

func (m *MockRepository) Create(l *performance.PerformanceLog) error {
	l.ID = m.nextID
	m.nextID++
	m.logs = append(m.logs, l)
	return nil
}

func (m *MockRepository) GetByUser(userID int64) ([]*performance.PerformanceLog, error) {
	var result []*performance.PerformanceLog
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *MockRepository) GetAll() ([]*performance.PerformanceLog, error) {
	return m.logs, nil
}

func (m *MockRepository) GetByDepartment(departmentID int64) ([]*performance.PerformanceLog, error) {
	members := m.byDept[departmentID]
	var result []*performance.PerformanceLog
	for _, l := range m.logs {
		for _, id := range members {
			if l.UserID == id {
				result = append(result, l)
				break
			}
		}
	}
	return result, nil
}

// mockDirectory implements performance.UserDirectory
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

var _ = Describe("Performance Service", func() {
	var (
		mockRepo *MockRepository
		service  *performance.Service

		deptOps   = ptrInt64(1)
		deptOther = ptrInt64(2)

		admin      *auth.User
		manager    *auth.User
		staff      *auth.User
		otherStaff *auth.User
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()

		admin = &auth.User{ID: 1, Role: auth.RoleAdmin, IsActive: true}
		manager = &auth.User{ID: 2, Role: auth.RoleManager, DepartmentID: deptOps, IsActive: true}
		staff = &auth.User{ID: 3, Role: auth.RoleStaff, DepartmentID: deptOps, IsActive: true}
		otherStaff = &auth.User{ID: 4, Role: auth.RoleStaff, DepartmentID: deptOther, IsActive: true}
		mockRepo.byDept[*deptOps] = []int64{manager.ID, staff.ID}
		mockRepo.byDept[*deptOther] = []int64{otherStaff.ID}

		dir := &mockDirectory{users: map[int64]*auth.User{
			admin.ID:      admin,
			manager.ID:    manager,
			staff.ID:      staff,
			otherStaff.ID: otherStaff,
		}}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = performance.NewService(mockRepo, dir, nopRecorder{}, logger)
	})

	Describe("CreateLog", func() {
		It("should record a score with the rater stamped", func() {
			log, err := service.CreateLog(manager, performance.CreatePerformanceLogDTO{
				UserID: staff.ID,
				Score:  85,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(log.CreatedByID).To(Equal(manager.ID))
		})

		It("should reject a score above 100", func() {
			_, err := service.CreateLog(admin, performance.CreatePerformanceLogDTO{
				UserID: staff.ID,
				Score:  120,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should keep managers inside their department", func() {
			_, err := service.CreateLog(manager, performance.CreatePerformanceLogDTO{
				UserID: otherStaff.ID,
				Score:  70,
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeScopeViolation))
		})

		It("should forbid staff recording scores", func() {
			_, err := service.CreateLog(staff, performance.CreatePerformanceLogDTO{
				UserID: staff.ID,
				Score:  100,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UserLogs", func() {
		BeforeEach(func() {
			_, err := service.CreateLog(admin, performance.CreatePerformanceLogDTO{UserID: staff.ID, Score: 80})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateLog(admin, performance.CreatePerformanceLogDTO{UserID: otherStaff.ID, Score: 60})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should let users read their own logs", func() {
			logs, err := service.UserLogs(staff, staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
		})

		It("should mask other users' logs from staff as not found", func() {
			_, err := service.UserLogs(staff, otherStaff.ID)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should let the department manager read member logs", func() {
			logs, err := service.UserLogs(manager, staff.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
		})
	})

	Describe("ListLogs", func() {
		BeforeEach(func() {
			_, err := service.CreateLog(admin, performance.CreatePerformanceLogDTO{UserID: staff.ID, Score: 80})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateLog(admin, performance.CreatePerformanceLogDTO{UserID: otherStaff.ID, Score: 60})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return everything for admins", func() {
			logs, err := service.ListLogs(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(2))
		})

		It("should scope managers to their department", func() {
			logs, err := service.ListLogs(manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].UserID).To(Equal(staff.ID))
		})

		It("should show staff only their own logs", func() {
			logs, err := service.ListLogs(staff)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
		})
	})
})
