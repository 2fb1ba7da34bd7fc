package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceFile is a file provisioned in the source container, ready to be described by the manifest.
type SourceFile struct {
	Filename     string
	Title        string
	LastModified time.Time
	Properties   map[string]string
	Size         int64
}

// Target identifies the SharePoint destination of a migration.
type Target struct {
	SiteName            string
	DocumentLibraryName string
	DocumentLibraryID   string
	Subfolder           string
	WebID               string
	RootFolderID        string
	RootFolderParentID  string
}

func (t Target) Validate() error {
	if t.SiteName == "" {
		return fmt.Errorf("target site name is empty")
	}
	if t.DocumentLibraryName == "" {
		return fmt.Errorf("target document library name is empty")
	}

	ids := []struct {
		name     string
		value    string
		distinct bool
	}{
		{"document library id", t.DocumentLibraryID, true},
		{"web id", t.WebID, true},
		{"root folder id", t.RootFolderID, true},
		{"root folder parent id", t.RootFolderParentID, false},
	}
	seen := make(map[string]string, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id.value)
		if err != nil {
			return fmt.Errorf("target %s %q is not a valid uuid: %w", id.name, id.value, err)
		}
		if !id.distinct {
			continue
		}
		if other, ok := seen[parsed.String()]; ok {
			return fmt.Errorf("target %s and %s share the same id %s", other, id.name, parsed)
		}
		seen[parsed.String()] = id.name
	}

	return nil
}
