package program_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/program"
)

func TestProgramService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Program Service Suite")
}

// MockRepository implements program.RepositoryAPI for testing
type MockRepository struct {
	projects      map[int64]*program.Project
	beneficiaries map[int64]*program.Beneficiary
	nextID        int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		projects:      make(map[int64]*program.Project),
		beneficiaries: make(map[int64]*program.Beneficiary),
		nextID:        1,
	}
}

func (m *MockRepository) CreateProject(p *program.Project) error {
	p.ID = m.nextID
	m.nextID++
	m.projects[p.ID] = p
	return nil
}

func (m *MockRepository) GetProjectByID(id int64) (*program.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (m *MockRepository) GetProjects() ([]*program.Project, error) {
	var result []*program.Project
	for _, p := range m.projects {
		result = append(result, p)
	}
	return result, nil
}

func (m *MockRepository) UpdateProject(p *program.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *MockRepository) DeleteProject(id int64) error {
	delete(m.projects, id)
	return nil
}

func (m *MockRepository) CountBeneficiaries(projectID int64) (int64, error) {
	var n int64
	for _, b := range m.beneficiaries {
		if b.ProjectID != nil && *b.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (m *MockRepository) CreateBeneficiary(b *program.Beneficiary) error {
	b.ID = m.nextID
	m.nextID++
	m.beneficiaries[b.ID] = b
	return nil
}

func (m *MockRepository) GetBeneficiaryByID(id int64) (*program.Beneficiary, error) {
	b, ok := m.beneficiaries[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return b, nil
}

func (m *MockRepository) GetBeneficiaries() ([]*program.Beneficiary, error) {
	var result []*program.Beneficiary
	for _, b := range m.beneficiaries {
		result = append(result, b)
	}
	return result, nil
}

func (m *MockRepository) UpdateBeneficiary(b *program.Beneficiary) error {
	m.beneficiaries[b.ID] = b
	return nil
}

func (m *MockRepository) DeleteBeneficiary(id int64) error {
	delete(m.beneficiaries, id)
	return nil
}

type nopRecorder struct{}

func (nopRecorder) Record(actorID int64, action, detail string) {}

func ptrInt64(v int64) *int64 { return &v }

var _ = Describe("Program Service", func() {
	var (
		mockRepo *MockRepository
		service  *program.Service

		admin *auth.User
		staff *auth.User
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = program.NewService(mockRepo, auth.NewPolicy(), nopRecorder{}, logger)

		dept := ptrInt64(1)
		admin = &auth.User{ID: 1, Role: auth.RoleAdmin, IsActive: true}
		staff = &auth.User{ID: 3, Role: auth.RoleStaff, DepartmentID: dept, IsActive: true}
	})

	Describe("projects", func() {
		It("should keep project writes admin and manager only", func() {
			_, err := service.CreateProject(staff, program.CreateProjectDTO{Name: "Clean Water"})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("should be readable by any authenticated user", func() {
			created, err := service.CreateProject(admin, program.CreateProjectDTO{Name: "Clean Water"})
			Expect(err).NotTo(HaveOccurred())

			got, err := service.GetProject(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Clean Water"))
		})

		It("should reject a negative budget", func() {
			_, err := service.CreateProject(admin, program.CreateProjectDTO{
				Name:   "Clean Water",
				Budget: ptrInt64(-100),
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidAmount))
		})

		It("should reject an end date before the start date", func() {
			start := internal.NewDate(time.Now())
			end := internal.NewDate(start.AddDate(0, -1, 0))
			_, err := service.CreateProject(admin, program.CreateProjectDTO{
				Name:      "Clean Water",
				StartDate: &start,
				EndDate:   &end,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should refuse to delete a project with registered beneficiaries", func() {
			created, err := service.CreateProject(admin, program.CreateProjectDTO{Name: "Clean Water"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateBeneficiary(admin, program.CreateBeneficiaryDTO{
				Name:      "Village cooperative",
				ProjectID: &created.ID,
			})
			Expect(err).NotTo(HaveOccurred())

			err = service.DeleteProject(admin, created.ID)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeHasDependents))
		})
	})

	Describe("beneficiaries", func() {
		It("should reject an unknown project reference", func() {
			_, err := service.CreateBeneficiary(admin, program.CreateBeneficiaryDTO{
				Name:      "Village cooperative",
				ProjectID: ptrInt64(999),
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should allow a beneficiary without a project", func() {
			b, err := service.CreateBeneficiary(admin, program.CreateBeneficiaryDTO{Name: "Walk-in family"})
			Expect(err).NotTo(HaveOccurred())
			Expect(b.ProjectID).To(BeNil())
		})

		It("should list beneficiaries for any authenticated user", func() {
			_, err := service.CreateBeneficiary(admin, program.CreateBeneficiaryDTO{Name: "Walk-in family"})
			Expect(err).NotTo(HaveOccurred())

			all, err := service.ListBeneficiaries()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})
	})
})
