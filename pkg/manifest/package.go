package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kubev2v/spo-migrator/internal/models"
)

// Blob is one named document of the package.
type Blob struct {
	Name     string
	Contents []byte
}

// Package is the complete set of documents uploaded to the manifest container.
type Package struct {
	Manifest *Manifest
	Blobs    []Blob
}

// NewPackage builds, validates and serializes the manifest for files and adds the
// auxiliary documents. Blobs are sorted by name.
func NewPackage(files []models.SourceFile, target models.Target, opts ...Option) (*Package, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target: %w", err)
	}

	m, err := NewBuilder(opts...).Build(files, target)
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	data, err := Serialize(m)
	if err != nil {
		return nil, err
	}

	aux, err := GenerateAuxiliary(target)
	if err != nil {
		return nil, err
	}

	p := &Package{
		Manifest: m,
		Blobs:    make([]Blob, 0, len(aux)+1),
	}
	p.Blobs = append(p.Blobs, Blob{Name: ManifestFile, Contents: data})
	for name, contents := range aux {
		p.Blobs = append(p.Blobs, Blob{Name: name, Contents: contents})
	}
	sort.Slice(p.Blobs, func(i, j int) bool { return p.Blobs[i].Name < p.Blobs[j].Name })

	return p, nil
}

func (p *Package) Blob(name string) ([]byte, bool) {
	for _, b := range p.Blobs {
		if b.Name == name {
			return b.Contents, true
		}
	}
	return nil, false
}

func (p *Package) TotalSize() int64 {
	var size int64
	for _, b := range p.Blobs {
		size += int64(len(b.Contents))
	}
	return size
}

// WriteDir writes every blob into dir, creating it if needed.
func (p *Package) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, b := range p.Blobs {
		if err := os.WriteFile(filepath.Join(dir, b.Name), b.Contents, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", b.Name, err)
		}
	}
	return nil
}
