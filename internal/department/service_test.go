package department_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/department"
)

func TestDepartment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Suite")
}

// MockRepository implements department.Repository for testing
type MockRepository struct {
	departments map[int64]*department.Department
	members     map[int64]int64
	nextID      int64
	shouldFail  bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		departments: make(map[int64]*department.Department),
		members:     make(map[int64]int64),
		nextID:      1,
	}
}

func (m *MockRepository) Create(dept *department.Department) error {
	if m.shouldFail {
		return errors.New("mock repository error")
	}
	dept.ID = m.nextID
	m.nextID++
	m.departments[dept.ID] = dept
	return nil
}

func (m *MockRepository) GetByID(id int64) (*department.Department, error) {
	dept, ok := m.departments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *dept
	return &copied, nil
}

func (m *MockRepository) GetByName(name string) (*department.Department, error) {
	for _, dept := range m.departments {
		if dept.Name == name {
			copied := *dept
			return &copied, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *MockRepository) GetAll() ([]*department.Department, error) {
	var all []*department.Department
	for _, dept := range m.departments {
		all = append(all, dept)
	}
	return all, nil
}

func (m *MockRepository) Update(dept *department.Department) error {
	if m.shouldFail {
		return errors.New("mock repository error")
	}
	m.departments[dept.ID] = dept
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	delete(m.departments, id)
	return nil
}

func (m *MockRepository) CountUsers(deptID int64) (int64, error) {
	return m.members[deptID], nil
}

type nopRecorder struct{}

func (nopRecorder) Record(userID int64, action, detail string) {}

var _ = Describe("Department Service", func() {
	var (
		mockRepo *MockRepository
		service  *department.Service
		logger   *slog.Logger

		admin   *auth.User
		manager *auth.User
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = department.NewService(mockRepo, nopRecorder{}, logger)

		admin = &auth.User{ID: 1, Role: auth.RoleAdmin}
		manager = &auth.User{ID: 2, Role: auth.RoleManager}
	})

	Describe("CreateDepartment", func() {
		It("should let an admin create a department", func() {
			dept, err := service.CreateDepartment(admin, department.CreateDepartmentDTO{
				Name:        "Programs",
				Description: "Field programs and delivery",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(dept.ID).To(BeNumerically(">", 0))
			Expect(dept.Name).To(Equal("Programs"))
		})

		It("should reject non-admin callers", func() {
			_, err := service.CreateDepartment(manager, department.CreateDepartmentDTO{Name: "Programs"})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleDenied))
		})

		It("should reject a duplicate name", func() {
			_, err := service.CreateDepartment(admin, department.CreateDepartmentDTO{Name: "Programs"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateDepartment(admin, department.CreateDepartmentDTO{Name: "Programs"})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDepartmentTaken))
		})

		It("should reject a blank name", func() {
			_, err := service.CreateDepartment(admin, department.CreateDepartmentDTO{Name: "   "})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeMissingField))
		})
	})

	Describe("UpdateDepartment", func() {
		var deptID int64

		BeforeEach(func() {
			dept, err := service.CreateDepartment(admin, department.CreateDepartmentDTO{Name: "Programs"})
			Expect(err).NotTo(HaveOccurred())
			deptID = dept.ID
		})

		It("should rename a department", func() {
			name := "Monitoring & Evaluation"
			dept, err := service.UpdateDepartment(admin, deptID, department.UpdateDepartmentDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(dept.Name).To(Equal("Monitoring & Evaluation"))
		})

		It("should refuse a rename onto an existing name", func() {
			_, err := service.CreateDepartment(admin, department.CreateDepartmentDTO{Name: "Finance & Grants"})
			Expect(err).NotTo(HaveOccurred())

			name := "Finance & Grants"
			_, err = service.UpdateDepartment(admin, deptID, department.UpdateDepartmentDTO{Name: &name})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDepartmentTaken))
		})

		It("should return not found for a missing department", func() {
			name := "Anything"
			_, err := service.UpdateDepartment(admin, 999, department.UpdateDepartmentDTO{Name: &name})

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("DeleteDepartment", func() {
		var deptID int64

		BeforeEach(func() {
			dept, err := service.CreateDepartment(admin, department.CreateDepartmentDTO{Name: "Programs"})
			Expect(err).NotTo(HaveOccurred())
			deptID = dept.ID
		})

		It("should refuse deletion while members remain", func() {
			mockRepo.members[deptID] = 3

			err := service.DeleteDepartment(admin, deptID)

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeHasDependents))
		})

		It("should delete an empty department", func() {
			Expect(service.DeleteDepartment(admin, deptID)).To(Succeed())

			_, err := service.GetDepartment(deptID)
			Expect(err).To(HaveOccurred())
		})

		It("should reject non-admin callers", func() {
			err := service.DeleteDepartment(manager, deptID)

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleDenied))
		})
	})
})
