package request_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal/request"
)

var _ = Describe("Request DTOs", func() {
	Describe("LeaveRequestDTO", func() {
		It("should decode date-only start and end dates", func() {
			var dto request.LeaveRequestDTO
			body := []byte(`{"start_date":"2024-01-10","end_date":"2024-01-15","reason":"annual leave"}`)
			Expect(json.Unmarshal(body, &dto)).To(Succeed())
			Expect(dto.Validate()).To(Succeed())
			Expect(dto.StartDate.Day()).To(Equal(10))
			Expect(dto.EndDate.Day()).To(Equal(15))
		})

		It("should decode RFC 3339 start and end dates", func() {
			var dto request.LeaveRequestDTO
			body := []byte(`{"start_date":"2024-01-10T00:00:00Z","end_date":"2024-01-15T00:00:00Z","reason":"annual leave"}`)
			Expect(json.Unmarshal(body, &dto)).To(Succeed())
			Expect(dto.Validate()).To(Succeed())
		})

		It("should round-trip dates through the serialized payload", func() {
			var dto request.LeaveRequestDTO
			body := []byte(`{"start_date":"2024-01-10","end_date":"2024-01-15","reason":"annual leave"}`)
			Expect(json.Unmarshal(body, &dto)).To(Succeed())

			payload, err := dto.Marshal()
			Expect(err).NotTo(HaveOccurred())

			var stored map[string]interface{}
			Expect(json.Unmarshal([]byte(payload), &stored)).To(Succeed())
			Expect(stored).To(HaveKeyWithValue("start_date", "2024-01-10"))
			Expect(stored).To(HaveKeyWithValue("end_date", "2024-01-15"))
		})
	})

	Describe("TravelRequestDTO", func() {
		It("should decode date-only travel dates", func() {
			var dto request.TravelRequestDTO
			body := []byte(`{"destination":"Dhaka","start_date":"2024-02-01","end_date":"2024-02-05","purpose":"field visit"}`)
			Expect(json.Unmarshal(body, &dto)).To(Succeed())
			Expect(dto.Validate()).To(Succeed())
		})
	})
})
