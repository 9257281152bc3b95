package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsarif/ngo-erp/internal/task"
	taskPostgres "github.com/opsarif/ngo-erp/internal/task/postgres"
)

func TestTaskPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Postgres Suite")
}

// SQLiteUser is a SQLite-compatible users table for the admin lookup
type SQLiteUser struct {
	ID       int64  `gorm:"primaryKey"`
	FullName string `gorm:"column:full_name"`
	Role     string `gorm:"column:role"`
	IsActive bool   `gorm:"column:is_active;default:true"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

var _ = Describe("Task PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo task.Repository
	)

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &task.Task{}, &task.Comment{}, &task.Resource{})
		Expect(err).NotTo(HaveOccurred())

		repo = taskPostgres.NewTaskRepository(db)
	})

	newTask := func(assignee int64, dept *int64, status string, end time.Time) *task.Task {
		t := &task.Task{
			Title:       "field survey",
			Status:      status,
			StartDate:   end.AddDate(0, 0, -7),
			EndDate:     end,
			AssigneeID:  assignee,
			CreatedByID: 1,
		}
		t.DepartmentID = dept
		Expect(repo.Create(t)).To(Succeed())
		return t
	}

	Describe("Create and GetByID", func() {
		It("should persist and reload a task", func() {
			created := newTask(3, nil, task.StatusPending, time.Now().AddDate(0, 0, 5))
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("field survey"))
			Expect(got.Status).To(Equal(task.StatusPending))
		})

		It("should return an error for a missing id", func() {
			_, err := repo.GetByID(999)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByAssignee", func() {
		It("should order by end date ascending", func() {
			late := newTask(3, nil, task.StatusPending, time.Now().AddDate(0, 0, 10))
			early := newTask(3, nil, task.StatusPending, time.Now().AddDate(0, 0, 2))
			newTask(4, nil, task.StatusPending, time.Now().AddDate(0, 0, 1))

			tasks, err := repo.GetByAssignee(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(2))
			Expect(tasks[0].ID).To(Equal(early.ID))
			Expect(tasks[1].ID).To(Equal(late.ID))
		})
	})

	Describe("SetStatus", func() {
		It("should write status and completed_at atomically", func() {
			t := newTask(3, nil, task.StatusInProgress, time.Now().AddDate(0, 0, 5))

			now := time.Now()
			Expect(repo.SetStatus(t.ID, task.StatusDone, &now)).To(Succeed())

			got, err := repo.GetByID(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(task.StatusDone))
			Expect(got.CompletedAt).NotTo(BeNil())

			Expect(repo.SetStatus(t.ID, task.StatusInProgress, nil)).To(Succeed())
			got, err = repo.GetByID(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.CompletedAt).To(BeNil())
		})
	})

	Describe("GetCompleted", func() {
		It("should return only done tasks", func() {
			t := newTask(3, nil, task.StatusInProgress, time.Now().AddDate(0, 0, 5))
			now := time.Now()
			Expect(repo.SetStatus(t.ID, task.StatusDone, &now)).To(Succeed())
			newTask(3, nil, task.StatusPending, time.Now().AddDate(0, 0, 5))

			tasks, err := repo.GetCompleted()
			Expect(err).NotTo(HaveOccurred())
			Expect(tasks).To(HaveLen(1))
			Expect(tasks[0].ID).To(Equal(t.ID))
		})
	})

	Describe("Reassign", func() {
		It("should change only the assignee", func() {
			t := newTask(3, nil, task.StatusPending, time.Now().AddDate(0, 0, 5))

			Expect(repo.Reassign(t.ID, 7)).To(Succeed())

			got, err := repo.GetByID(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.AssigneeID).To(Equal(int64(7)))
			Expect(got.Status).To(Equal(task.StatusPending))
		})
	})

	Describe("FirstActiveAdminID", func() {
		It("should pick the lowest active admin id", func() {
			Expect(db.Create(&SQLiteUser{ID: 5, FullName: "Second Admin", Role: "admin", IsActive: true}).Error).To(Succeed())
			Expect(db.Create(&SQLiteUser{ID: 2, FullName: "First Admin", Role: "admin", IsActive: true}).Error).To(Succeed())
			Expect(db.Create(&SQLiteUser{ID: 1, FullName: "Inactive Admin", Role: "admin", IsActive: false}).Error).To(Succeed())

			id, err := repo.FirstActiveAdminID()
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(int64(2)))
		})

		It("should fail when no admin is active", func() {
			_, err := repo.FirstActiveAdminID()
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("comments and resources", func() {
		It("should list comments oldest first", func() {
			t := newTask(3, nil, task.StatusPending, time.Now().AddDate(0, 0, 5))

			first := &task.Comment{TaskID: t.ID, UserID: 3, Body: "first", CreatedAt: time.Now().Add(-time.Hour)}
			second := &task.Comment{TaskID: t.ID, UserID: 3, Body: "second", CreatedAt: time.Now()}
			Expect(repo.CreateComment(second)).To(Succeed())
			Expect(repo.CreateComment(first)).To(Succeed())

			comments, err := repo.GetComments(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(comments).To(HaveLen(2))
			Expect(comments[0].Body).To(Equal("first"))
		})

		It("should scope resources by department", func() {
			dept := int64(1)
			t := newTask(3, &dept, task.StatusPending, time.Now().AddDate(0, 0, 5))

			res := &task.Resource{
				Filename:     "report.pdf",
				StoredName:   "abc123.pdf",
				OwnerID:      3,
				TaskID:       &t.ID,
				DepartmentID: &dept,
				UploadedAt:   time.Now(),
			}
			Expect(repo.CreateResource(res)).To(Succeed())

			byTask, err := repo.GetTaskResources(t.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byTask).To(HaveLen(1))

			byDept, err := repo.GetDepartmentResources(dept)
			Expect(err).NotTo(HaveOccurred())
			Expect(byDept).To(HaveLen(1))

			empty, err := repo.GetDepartmentResources(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(empty).To(BeEmpty())
		})
	})
})
