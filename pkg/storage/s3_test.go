package storage_test

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/spo-migrator/pkg/storage"
)

var _ = Describe("S3Container", func() {
	var (
		ctx       context.Context
		api       *fakeS3
		presigner *fakePresigner
		container *storage.S3Container
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = newFakeS3()
		presigner = &fakePresigner{}
		container = storage.NewS3ContainerWithAPI(api, presigner, "manifest",
			storage.WithAccessURLExpiry(2*time.Hour))
	})

	Context("Upload and Download", func() {
		// Given an empty bucket
		// When we upload a blob and download it back
		// Then the content is unchanged
		It("should round trip blob content", func() {
			// Act
			err := container.Upload(ctx, "Manifest.xml", []byte("<SPObjects/>"))
			Expect(err).NotTo(HaveOccurred())
			data, err := container.Download(ctx, "Manifest.xml")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("<SPObjects/>"))
		})

		// Given a failing api
		// When we upload a blob
		// Then the error names the operation, the bucket and the blob
		It("should wrap api errors", func() {
			// Arrange
			api.failPut = errBoom

			// Act
			err := container.Upload(ctx, "Manifest.xml", []byte("x"))

			// Assert
			var storageErr *storage.Error
			Expect(err).To(BeAssignableToTypeOf(storageErr))
			Expect(err).To(MatchError(errBoom))
			Expect(err.Error()).To(Equal("storage.upload manifest/Manifest.xml: boom"))
		})

		// Given an empty bucket
		// When we download a missing blob
		// Then an error is returned
		It("should fail for a missing blob", func() {
			_, err := container.Download(ctx, "missing")
			Expect(err).To(HaveOccurred())
		})
	})

	Context("List", func() {
		// Given blobs spread over several pages
		// When we list with a prefix
		// Then all matching blobs of every page are returned
		It("should follow pagination and filter by prefix", func() {
			// Arrange
			api.pageSize = 2
			for i := range 5 {
				Expect(container.Upload(ctx, fmt.Sprintf("Import-job/%d.log", i), []byte("log"))).To(Succeed())
			}
			Expect(container.Upload(ctx, "Manifest.xml", []byte("m"))).To(Succeed())

			// Act
			objects, err := container.List(ctx, "Import-job")

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(objects).To(HaveLen(5))
			Expect(objects[0].Name).To(Equal("Import-job/0.log"))
			Expect(objects[0].Size).To(Equal(int64(3)))
		})
	})

	Context("DeleteAll", func() {
		// Given a bucket with blobs
		// When we delete all blobs
		// Then the bucket is empty
		It("should empty the bucket", func() {
			// Arrange
			for i := range 3 {
				Expect(container.Upload(ctx, fmt.Sprintf("%d", i), []byte("x"))).To(Succeed())
			}

			// Act
			err := container.DeleteAll(ctx)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			objects, err := container.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(objects).To(BeEmpty())
			Expect(api.deleteCalls).To(Equal(1))
		})

		// Given an empty bucket
		// When we delete all blobs
		// Then no delete request is sent
		It("should not call the api for an empty bucket", func() {
			Expect(container.DeleteAll(ctx)).To(Succeed())
			Expect(api.deleteCalls).To(BeZero())
		})

		// Given a bucket where a delete fails
		// When we delete all blobs
		// Then the failed key is reported
		It("should report partial failures", func() {
			// Arrange
			Expect(container.Upload(ctx, "locked", []byte("x"))).To(Succeed())
			api.failDelete = []types.Error{{Key: aws.String("locked"), Message: aws.String("access denied")}}

			// Act
			err := container.DeleteAll(ctx)

			// Assert
			Expect(err).To(MatchError(ContainSubstring("locked")))
			Expect(err).To(MatchError(ContainSubstring("access denied")))
		})
	})

	Context("AccessURL", func() {
		// Given a container configured with a 2h expiry
		// When we request an access url
		// Then the bucket is presigned with that expiry
		It("should presign the bucket with the configured expiry", func() {
			// Act
			u, err := container.AccessURL(ctx, storage.PermissionRead|storage.PermissionList)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(HavePrefix("https://manifest.s3.amazonaws.com/"))
			Expect(presigner.bucket).To(Equal("manifest"))
			Expect(presigner.expires).To(Equal(2 * time.Hour))
		})

		// Given two different permission sets
		// When we request an access url for each
		// Then the same bucket url is returned, the rights come from the credentials
		It("should not scope the url by permission", func() {
			// Act
			read, err := container.AccessURL(ctx, storage.PermissionRead)
			Expect(err).NotTo(HaveOccurred())
			readWrite, err := container.AccessURL(ctx, storage.PermissionRead|storage.PermissionWrite|storage.PermissionList)
			Expect(err).NotTo(HaveOccurred())

			// Assert
			Expect(readWrite).To(Equal(read))
		})

		It("should wrap presign errors", func() {
			presigner.err = errBoom
			_, err := container.AccessURL(ctx, storage.PermissionRead)
			Expect(err).To(MatchError(errBoom))
		})
	})
})

var _ = Describe("Permission", func() {
	It("should render the granted flags", func() {
		Expect((storage.PermissionRead | storage.PermissionList).String()).To(Equal("rl"))
		Expect((storage.PermissionRead | storage.PermissionWrite | storage.PermissionList).String()).To(Equal("rwl"))
		Expect(storage.Permission(0).String()).To(BeEmpty())
	})

	It("should check subsets", func() {
		p := storage.PermissionRead | storage.PermissionWrite
		Expect(p.Has(storage.PermissionRead)).To(BeTrue())
		Expect(p.Has(storage.PermissionRead | storage.PermissionList)).To(BeFalse())
	})
})
