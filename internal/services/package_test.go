package services_test

import (
	"context"
	"database/sql"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/spo-migrator/internal/models"
	"github.com/kubev2v/spo-migrator/internal/services"
	"github.com/kubev2v/spo-migrator/internal/store"
	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
	"github.com/kubev2v/spo-migrator/pkg/manifest"
	"github.com/kubev2v/spo-migrator/pkg/scheduler"
	"github.com/kubev2v/spo-migrator/test"
)

var _ = Describe("PackageService", func() {
	var (
		ctx       context.Context
		container *test.MockContainer
		sched     *scheduler.Scheduler
		srv       *services.PackageService
		files     []models.SourceFile
	)

	BeforeEach(func() {
		ctx = context.Background()
		container = test.NewMockContainer("manifest")
		sched = scheduler.NewScheduler(4)
		srv = services.NewPackageService(container, sched,
			manifest.WithIDSource(manifest.SeededIDSource(7)),
			manifest.WithClock(func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }),
		)
		files = []models.SourceFile{
			{Filename: "a.txt", Title: "A", LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Properties: map[string]string{"Department": "Legal"}},
			{Filename: "b.txt", Title: "B", LastModified: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		}
	})

	AfterEach(func() {
		sched.Close()
	})

	// Given two source files and a manifest container with stale content
	// When we upload the package
	// Then the container should hold exactly the eight package blobs
	It("should replace the container content with the package", func() {
		// Arrange
		container.Put("Import-old.log", []byte("stale"))

		// Act
		pkg, err := srv.Upload(ctx, files, newTarget())

		// Assert
		Expect(err).NotTo(HaveOccurred())
		Expect(pkg.Blobs).To(HaveLen(8))
		Expect(container.DeleteCalls()).To(Equal(1))
		Expect(container.Uploads()).To(Equal(8))
		Expect(container.Names()).To(ContainElements(manifest.ManifestFile, manifest.RequirementsFile))
		Expect(container.Names()).NotTo(ContainElement("Import-old.log"))

		data, err := container.Download(ctx, manifest.ManifestFile)
		Expect(err).NotTo(HaveOccurred())
		expected, _ := pkg.Blob(manifest.ManifestFile)
		Expect(data).To(Equal(expected))
	})

	// Given no source files
	// When we upload the package
	// Then a precondition error should be returned and the container left untouched
	It("should refuse to upload a package without files", func() {
		// Arrange
		container.Put("keep.xml", []byte("x"))

		// Act
		_, err := srv.Upload(ctx, nil, newTarget())

		// Assert
		Expect(err).To(HaveOccurred())
		Expect(srvErrors.IsPreconditionError(err)).To(BeTrue())
		Expect(container.DeleteCalls()).To(Equal(0))
		Expect(container.Names()).To(ConsistOf("keep.xml"))
	})

	// Given a container failing the manifest upload
	// When we upload the package
	// Then the failure should be returned
	It("should return the upload failure", func() {
		// Arrange
		boom := errors.New("boom")
		container.UploadErr[manifest.ManifestFile] = boom

		// Act
		_, err := srv.Upload(ctx, files, newTarget())

		// Assert
		Expect(errors.Is(err, boom)).To(BeTrue())
	})

	// Given an invalid target
	// When we upload the package
	// Then it should fail before cleaning the container
	It("should fail on an invalid target", func() {
		// Arrange
		target := newTarget()
		target.WebID = "not-a-uuid"

		// Act
		_, err := srv.Upload(ctx, files, target)

		// Assert
		Expect(err).To(HaveOccurred())
		Expect(container.DeleteCalls()).To(Equal(0))
	})
})

var _ = Describe("JobService", func() {
	var (
		ctx context.Context
		db  *sql.DB
		srv *services.JobService
	)

	BeforeEach(func() {
		ctx = context.Background()
		var s *store.Store
		s, db = newStore(ctx)
		srv = services.NewJobService(s)

		base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		for i, state := range []models.JobState{models.JobStateEnded, models.JobStateRunning, models.JobStateEnded} {
			j := models.NewJobStatus(newJobID(i), base.Add(time.Duration(i)*time.Minute))
			j.State = state
			Expect(s.Job().Save(ctx, j)).To(Succeed())
		}
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	// Given three jobs
	// When we list one page of ended jobs
	// Then the total should count every ended job
	It("should return a page with the unpaginated total", func() {
		// Act
		res, err := srv.List(ctx, services.JobListParams{States: []models.JobState{models.JobStateEnded}, Limit: 1})

		// Assert
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Jobs).To(HaveLen(1))
		Expect(res.Jobs[0].JobID).To(Equal(newJobID(2)))
		Expect(res.Total).To(Equal(2))
	})

	// Given an unknown job
	// When we get its events or logs
	// Then a not found error should be returned
	It("should report unknown jobs", func() {
		// Act
		_, eventsErr := srv.Events(ctx, newJobID(9))
		_, logsErr := srv.Logs(ctx, newJobID(9))
		_, getErr := srv.Get(ctx, newJobID(9))

		// Assert
		Expect(srvErrors.IsResourceNotFoundError(eventsErr)).To(BeTrue())
		Expect(srvErrors.IsResourceNotFoundError(logsErr)).To(BeTrue())
		Expect(srvErrors.IsResourceNotFoundError(getErr)).To(BeTrue())
	})

	// Given a known job without events
	// When we get its events
	// Then an empty list should be returned
	It("should return no events for a quiet job", func() {
		events, err := srv.Events(ctx, newJobID(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(BeEmpty())
	})
})
