package storage_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/opsarif/ngo-erp/internal"
	"github.com/opsarif/ngo-erp/internal/storage"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("LocalStore", func() {
	var store *storage.LocalStore

	BeforeEach(func() {
		var err error
		store, err = storage.NewLocalStore(GinkgoT().TempDir(), 64, []string{".pdf", ".txt"})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("should store a file under a generated name keeping the extension", func() {
			content := "hello"
			name, err := store.Save("report.pdf", strings.NewReader(content), int64(len(content)))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(HaveSuffix(".pdf"))
			Expect(name).NotTo(ContainSubstring("report"))

			rc, err := store.Open(name)
			Expect(err).NotTo(HaveOccurred())
			defer rc.Close()
			data, err := io.ReadAll(rc)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(content))
		})

		It("should reject a blocked extension", func() {
			_, err := store.Save("malware.exe", strings.NewReader("x"), 1)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeFileTypeBlocked))
		})

		It("should reject a file without an extension", func() {
			_, err := store.Save("README", strings.NewReader("x"), 1)
			Expect(err).To(HaveOccurred())
		})

		It("should reject an oversized declared size", func() {
			_, err := store.Save("big.pdf", strings.NewReader("x"), 65)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeFileTooLarge))
		})

		It("should reject a stream that exceeds the limit despite a small declared size", func() {
			payload := strings.Repeat("a", 100)
			_, err := store.Save("lying.pdf", strings.NewReader(payload), 10)
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeFileTooLarge))
		})
	})

	Describe("Open", func() {
		It("should report a missing file as not found", func() {
			_, err := store.Open("missing.pdf")
			Expect(err).To(HaveOccurred())

			var appErr *internal.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})

		It("should ignore path traversal in stored names", func() {
			content := "safe"
			name, err := store.Save("doc.txt", strings.NewReader(content), int64(len(content)))
			Expect(err).NotTo(HaveOccurred())

			rc, err := store.Open("../../" + name)
			Expect(err).NotTo(HaveOccurred())
			rc.Close()
		})
	})

	Describe("Remove", func() {
		It("should tolerate names that were never saved", func() {
			Expect(store.Remove("never-there.pdf")).To(Succeed())
		})

		It("should delete a stored file", func() {
			name, err := store.Save("doc.txt", strings.NewReader("x"), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.Remove(name)).To(Succeed())

			_, err = store.Open(name)
			Expect(err).To(HaveOccurred())
		})
	})
})
