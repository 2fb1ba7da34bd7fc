package manifest_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/spo-migrator/pkg/manifest"
)

var _ = Describe("Package", func() {
	opts := []manifest.Option{
		manifest.WithIDSource(manifest.SeededIDSource(3)),
		manifest.WithClock(fixedClock),
	}

	// Given source files and a valid target
	// When we assemble the package
	// Then it holds the eight documents sorted by name
	It("should assemble eight blobs in name order", func() {
		// Act
		pkg, err := manifest.NewPackage(newFiles(2), newTarget(), opts...)

		// Assert
		Expect(err).NotTo(HaveOccurred())
		names := []string{}
		for _, b := range pkg.Blobs {
			names = append(names, b.Name)
			Expect(b.Contents).NotTo(BeEmpty())
		}
		Expect(names).To(Equal([]string{
			"ExportSettings.xml",
			"LookupListMap.xml",
			"Manifest.xml",
			"Requirements.xml",
			"RootObjectMap.xml",
			"SystemData.xml",
			"UserGroup.xml",
			"ViewFormsList.xml",
		}))
		Expect(pkg.Manifest.Objects).To(HaveLen(6))
	})

	// Given an assembled package
	// When we look up the manifest and compute the size
	// Then the manifest blob is the serialized manifest
	It("should expose blobs by name", func() {
		// Arrange
		pkg, err := manifest.NewPackage(newFiles(1), newTarget(), opts...)
		Expect(err).NotTo(HaveOccurred())

		// Act
		data, ok := pkg.Blob(manifest.ManifestFile)

		// Assert
		Expect(ok).To(BeTrue())
		expected, err := manifest.Serialize(pkg.Manifest)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(expected))

		var total int64
		for _, b := range pkg.Blobs {
			total += int64(len(b.Contents))
		}
		Expect(pkg.TotalSize()).To(Equal(total))

		_, ok = pkg.Blob("Missing.xml")
		Expect(ok).To(BeFalse())
	})

	// Given a target with an invalid identifier
	// When we assemble the package
	// Then it fails before building the manifest
	It("should reject an invalid target", func() {
		// Arrange
		target := newTarget()
		target.WebID = "not-a-uuid"

		// Act
		_, err := manifest.NewPackage(newFiles(1), target, opts...)

		// Assert
		Expect(err).To(MatchError(ContainSubstring("invalid target")))
	})

	// Given an assembled package
	// When we write it to a directory
	// Then every blob is written as a file
	It("should write blobs to a directory", func() {
		// Arrange
		pkg, err := manifest.NewPackage(newFiles(1), newTarget(), opts...)
		Expect(err).NotTo(HaveOccurred())
		dir := filepath.Join(GinkgoT().TempDir(), "package")

		// Act
		err = pkg.WriteDir(dir)

		// Assert
		Expect(err).NotTo(HaveOccurred())
		for _, b := range pkg.Blobs {
			data, err := os.ReadFile(filepath.Join(dir, b.Name))
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal(b.Contents))
		}
	})
})
