package task_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/auth"
	"github.com/opsarif/ngo-erp/internal/task"
)

func TestTaskService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Service Suite")
}

// MockRepository implements task.Repository for testing
type MockRepository struct {
	tasks        map[int64]*task.Task
	comments     map[int64][]*task.Comment
	resources    map[int64][]*task.Resource
	nextID       int64
	adminID      int64
	statusWrites int
	shouldFail   bool
	failError    error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		tasks:     make(map[int64]*task.Task),
		comments:  make(map[int64][]*task.Comment),
		resources: make(map[int64][]*task.Resource),
		nextID:    1,
		adminID:   99,
	}
}

func (m *MockRepository) Create(t *task.Task) error {
	if m.shouldFail {
		return m.failError
	}
	t.ID = m.nextID
	m.nextID++
	m.tasks[t.ID] = t
	return nil
}

func (m *MockRepository) GetByID(id int64) (*task.Task, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *t
	return &copied, nil
}

func (m *MockRepository) GetByAssignee(userID int64) ([]*task.Task, error) {
	var result []*task.Task
	for _, t := range m.tasks {
		if t.AssigneeID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockRepository) GetByDepartment(deptID int64) ([]*task.Task, error) {
	var result []*task.Task
	for _, t := range m.tasks {
		if t.DepartmentID != nil && *t.DepartmentID == deptID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockRepository) GetCompleted() ([]*task.Task, error) {
	var result []*task.Task
	for _, t := range m.tasks {
		if t.Status == task.StatusDone {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockRepository) GetAll() ([]*task.Task, error) {
	var result []*task.Task
	for _, t := range m.tasks {
		result = append(result, t)
	}
	return result, nil
}

func (m *MockRepository) Update(t *task.Task) error {
	if m.shouldFail {
		return m.failError
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *MockRepository) SetStatus(id int64, status string, completedAt *time.Time) error {
	t, ok := m.tasks[id]
	if !ok {
		return errors.New("record not found")
	}
	m.statusWrites++
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

func (m *MockRepository) Reassign(id int64, assigneeID int64) error {
	t, ok := m.tasks[id]
	if !ok {
		return errors.New("record not found")
	}
	t.AssigneeID = assigneeID
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	delete(m.tasks, id)
	return nil
}

func (m *MockRepository) CreateComment(c *task.Comment) error {
	c.ID = m.nextID
	m.nextID++
	m.comments[c.TaskID] = append(m.comments[c.TaskID], c)
	return nil
}

func (m *MockRepository) GetComments(taskID int64) ([]*task.Comment, error) {
	return m.comments[taskID], nil
}

func (m *MockRepository) CreateResource(r *task.Resource) error {
	if m.shouldFail {
		return m.failError
	}
	r.ID = m.nextID
	m.nextID++
	if r.TaskID != nil {
		m.resources[*r.TaskID] = append(m.resources[*r.TaskID], r)
	}
	return nil
}

func (m *MockRepository) GetTaskResources(taskID int64) ([]*task.Resource, error) {
	return m.resources[taskID], nil
}

func (m *MockRepository) GetDepartmentResources(deptID int64) ([]*task.Resource, error) {
	var result []*task.Resource
	for _, rs := range m.resources {
		for _, r := range rs {
			if r.DepartmentID != nil && *r.DepartmentID == deptID {
				result = append(result, r)
			}
		}
	}
	return result, nil
}

func (m *MockRepository) FirstActiveAdminID() (int64, error) {
	if m.adminID == 0 {
		return 0, errors.New("record not found")
	}
	return m.adminID, nil
}

func (m *MockRepository) AddTask(t *task.Task) {
	if t.ID == 0 {
		t.ID = m.nextID
		m.nextID++
	}
	m.tasks[t.ID] = t
}

// nopRecorder satisfies activity.Recorder without a database.
type nopRecorder struct{}

func (nopRecorder) Record(actorID int64, action, detail string) {}

// memStore satisfies storage.FileStore in memory.
type memStore struct {
	saved   []string
	removed []string
}

func (s *memStore) Save(originalName string, src io.Reader, size int64) (string, error) {
	name := "stored-" + originalName
	s.saved = append(s.saved, name)
	return name, nil
}

func (s *memStore) Open(storedName string) (io.ReadCloser, error) {
	return io.NopCloser(nil), nil
}

func (s *memStore) Remove(storedName string) error {
	s.removed = append(s.removed, storedName)
	return nil
}

func ptrInt64(v int64) *int64 { return &v }
func ptrStr(v string) *string { return &v }

var _ = Describe("Task Service", func() {
	var (
		mockRepo *MockRepository
		store    *memStore
		service  *task.Service

		deptOps   = ptrInt64(1)
		deptOther = ptrInt64(2)

		admin   *auth.User
		manager *auth.User
		staff   *auth.User
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		store = &memStore{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = task.NewService(mockRepo, auth.NewPolicy(), store, nopRecorder{}, logger)

		admin = &auth.User{ID: 1, Role: auth.RoleAdmin, IsActive: true}
		manager = &auth.User{ID: 2, Role: auth.RoleManager, DepartmentID: deptOps, IsActive: true}
		staff = &auth.User{ID: 3, Role: auth.RoleStaff, DepartmentID: deptOps, IsActive: true}
	})

	newTask := func(assignee int64, dept *int64, status string) *task.Task {
		t := &task.Task{
			Title:        "field survey",
			Status:       status,
			StartDate:    time.Now().AddDate(0, 0, -1),
			EndDate:      time.Now().AddDate(0, 0, 7),
			DepartmentID: dept,
			AssigneeID:   assignee,
			CreatedByID:  manager.ID,
		}
		mockRepo.AddTask(t)
		return t
	}

	Describe("CreateTask", func() {
		It("should create a pending task for a manager in their department", func() {
			created, err := service.CreateTask(manager, task.CreateTaskDTO{
				Title:        "prepare donor briefing",
				StartDate:    internal.NewDate(time.Now()),
				EndDate:      internal.NewDate(time.Now().AddDate(0, 0, 3)),
				AssigneeID:   staff.ID,
				DepartmentID: deptOps,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.Status).To(Equal(task.StatusPending))
			Expect(created.CompletedAt).To(BeNil())
		})

		It("should reject a manager assigning outside their department", func() {
			_, err := service.CreateTask(manager, task.CreateTaskDTO{
				Title:        "prepare donor briefing",
				StartDate:    internal.NewDate(time.Now()),
				EndDate:      internal.NewDate(time.Now().AddDate(0, 0, 3)),
				AssigneeID:   7,
				DepartmentID: deptOther,
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("should reject staff creating tasks", func() {
			_, err := service.CreateTask(staff, task.CreateTaskDTO{
				Title:      "self-assigned",
				StartDate:  internal.NewDate(time.Now()),
				EndDate:    internal.NewDate(time.Now().AddDate(0, 0, 1)),
				AssigneeID: staff.ID,
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject an end date before the start date", func() {
			_, err := service.CreateTask(admin, task.CreateTaskDTO{
				Title:      "backwards",
				StartDate:  internal.NewDate(time.Now()),
				EndDate:    internal.NewDate(time.Now().AddDate(0, 0, -2)),
				AssigneeID: staff.ID,
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidDate))
		})
	})

	Describe("UpdateTask", func() {
		It("should allow the assignee to move pending to in_progress", func() {
			t := newTask(staff.ID, deptOps, task.StatusPending)

			updated, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Status: ptrStr(task.StatusInProgress),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(task.StatusInProgress))
			Expect(updated.CompletedAt).To(BeNil())
		})

		It("should reject a jump from pending straight to done", func() {
			t := newTask(staff.ID, deptOps, task.StatusPending)

			_, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Status: ptrStr(task.StatusDone),
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeInvalidTransition))
			Expect(appErr.Code).To(Equal(internal.ErrCodeBadTransition))
		})

		It("should stamp completed_at when the task is done", func() {
			t := newTask(staff.ID, deptOps, task.StatusInProgress)

			updated, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Status: ptrStr(task.StatusDone),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(task.StatusDone))
			Expect(updated.CompletedAt).NotTo(BeNil())
		})

		It("should write a status-only patch through the single-statement path", func() {
			t := newTask(staff.ID, deptOps, task.StatusInProgress)

			_, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Status: ptrStr(task.StatusDone),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.statusWrites).To(Equal(1))
		})

		It("should not take the status path when other fields change too", func() {
			t := newTask(staff.ID, deptOps, task.StatusInProgress)

			_, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Status:      ptrStr(task.StatusDone),
				Description: ptrStr("wrapped up"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.statusWrites).To(BeZero())
		})

		It("should clear completed_at when a done task reopens", func() {
			t := newTask(staff.ID, deptOps, task.StatusDone)
			done := time.Now()
			t.CompletedAt = &done

			updated, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Status: ptrStr(task.StatusInProgress),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.CompletedAt).To(BeNil())
		})

		It("should keep title, assignee and department admin-only", func() {
			t := newTask(staff.ID, deptOps, task.StatusPending)

			_, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Title: ptrStr("renamed"),
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleDenied))

			updated, err := service.UpdateTask(admin, t.ID, task.UpdateTaskDTO{
				Title: ptrStr("renamed"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("renamed"))
		})

		It("should reject an unknown status value", func() {
			t := newTask(staff.ID, deptOps, task.StatusPending)

			_, err := service.UpdateTask(staff, t.ID, task.UpdateTaskDTO{
				Status: ptrStr("finished"),
			})
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidStatus))
		})
	})

	Describe("GetTask", func() {
		It("should report an out-of-scope task as not found", func() {
			t := newTask(7, deptOther, task.StatusPending)
			t.CreatedByID = 7

			_, err := service.GetTask(staff, t.ID)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should flag an overdue task on read", func() {
			t := newTask(staff.ID, deptOps, task.StatusInProgress)
			t.EndDate = time.Now().AddDate(0, 0, -3)

			got, err := service.GetTask(staff, t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Overdue).To(BeTrue())
		})

		It("should never flag a done task as overdue", func() {
			t := newTask(staff.ID, deptOps, task.StatusDone)
			t.EndDate = time.Now().AddDate(0, 0, -3)

			got, err := service.GetTask(staff, t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Overdue).To(BeFalse())
		})
	})

	Describe("CompletedTasks", func() {
		BeforeEach(func() {
			newTask(staff.ID, deptOps, task.StatusDone)
			newTask(7, deptOther, task.StatusDone)
			newTask(staff.ID, deptOps, task.StatusPending)
		})

		It("should return every completed task for admins", func() {
			tasks, err := service.CompletedTasks(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(2))
		})

		It("should scope managers to their department", func() {
			tasks, err := service.CompletedTasks(manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
		})

		It("should scope staff to their own tasks", func() {
			tasks, err := service.CompletedTasks(staff)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].AssigneeID).To(Equal(staff.ID))
		})
	})

	Describe("AllTasks", func() {
		It("should refuse staff", func() {
			_, err := service.AllTasks(staff)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("should narrow managers to their department", func() {
			newTask(staff.ID, deptOps, task.StatusPending)
			newTask(7, deptOther, task.StatusPending)

			tasks, err := service.AllTasks(manager)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
		})
	})

	Describe("SendToAdmin", func() {
		It("should reassign the task to the first active admin", func() {
			t := newTask(staff.ID, deptOps, task.StatusInProgress)

			updated, err := service.SendToAdmin(staff, t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AssigneeID).To(Equal(int64(99)))
			Expect(updated.Status).To(Equal(task.StatusInProgress))
		})

		It("should fail when no admin is active", func() {
			t := newTask(staff.ID, deptOps, task.StatusInProgress)
			mockRepo.adminID = 0

			_, err := service.SendToAdmin(staff, t.ID)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("Upload", func() {
		It("should remove the stored file when the row insert fails", func() {
			t := newTask(staff.ID, deptOps, task.StatusPending)

			mockRepo.failError = errors.New("insert failed")
			failing := &failingResourceRepo{MockRepository: mockRepo}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			svc := task.NewService(failing, auth.NewPolicy(), store, nopRecorder{}, logger)

			_, err := svc.Upload(staff, t.ID, "report.pdf", nil, 10)
			Expect(err).To(HaveOccurred())
			Expect(store.removed).To(HaveLen(1))
			Expect(store.removed[0]).To(Equal(store.saved[0]))
		})
	})

	Describe("DepartmentResources", func() {
		It("should mask other departments as not found", func() {
			_, err := service.DepartmentResources(staff, *deptOther)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})
})

// failingResourceRepo fails resource inserts only.
type failingResourceRepo struct {
	*MockRepository
}

func (f *failingResourceRepo) CreateResource(r *task.Resource) error {
	return f.failError
}
