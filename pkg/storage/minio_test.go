package storage_test

import (
	"context"
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/spo-migrator/pkg/storage"
)

var _ = Describe("MinioContainer", func() {
	// Given a client with a fixed region
	// When we request an access url
	// Then a ListObjectsV2 request is presigned locally with the configured expiry
	It("should presign a list request on the bucket", func() {
		// Arrange
		container, err := storage.NewMinioContainer(storage.MinioConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Region:    "us-east-1",
		}, "source", storage.WithAccessURLExpiry(time.Hour))
		Expect(err).NotTo(HaveOccurred())

		// Act
		raw, err := container.AccessURL(context.Background(), storage.PermissionRead|storage.PermissionList)

		// Assert
		Expect(err).NotTo(HaveOccurred())
		u, err := url.Parse(raw)
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Host).To(Equal("localhost:9000"))
		Expect(u.Path).To(ContainSubstring("source"))
		Expect(u.Query().Get("list-type")).To(Equal("2"))
		Expect(u.Query().Get("X-Amz-Expires")).To(Equal("3600"))
		Expect(container.Name()).To(Equal("source"))
	})

	It("should reject an invalid endpoint", func() {
		_, err := storage.NewMinioContainer(storage.MinioConfig{Endpoint: "http://bad endpoint"}, "source")
		Expect(err).To(HaveOccurred())
	})
})
