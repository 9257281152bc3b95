package task_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal/task"
)

var _ = Describe("Task DTOs", func() {
	Describe("CreateTaskDTO", func() {
		It("should decode date-only start and end dates", func() {
			var dto task.CreateTaskDTO
			body := []byte(`{"title":"field survey","start_date":"2024-03-01","end_date":"2024-03-10","assigned_to_id":3}`)
			Expect(json.Unmarshal(body, &dto)).To(Succeed())
			Expect(dto.Validate()).To(Succeed())
			Expect(dto.StartDate.Day()).To(Equal(1))
			Expect(dto.EndDate.Day()).To(Equal(10))
		})
	})

	Describe("UpdateTaskDTO", func() {
		It("should decode a date-only end date patch", func() {
			var dto task.UpdateTaskDTO
			Expect(json.Unmarshal([]byte(`{"end_date":"2024-03-20"}`), &dto)).To(Succeed())
			Expect(dto.EndDate).NotTo(BeNil())
			Expect(dto.EndDate.Day()).To(Equal(20))
			Expect(dto.StartDate).To(BeNil())
		})
	})
})
