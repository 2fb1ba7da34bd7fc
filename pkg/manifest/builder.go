package manifest

import (
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/spo-migrator/internal/models"
)

// ErrDuplicateID is returned when the id source hands out an id already present in the manifest.
var ErrDuplicateID = errors.New("duplicate object id")

// IDSource hands out fresh identifiers for File and ListItem records.
type IDSource func() (uuid.UUID, error)

// Clock returns the creation time of the root folder.
type Clock func() time.Time

// SeededIDSource returns a reproducible IDSource. It is not safe for concurrent use.
func SeededIDSource(seed int64) IDSource {
	r := rand.New(rand.NewSource(seed))
	return func() (uuid.UUID, error) {
		return uuid.NewRandomFromReader(r)
	}
}

type Option func(*Builder)

func WithIDSource(ids IDSource) Option {
	return func(b *Builder) {
		b.ids = ids
	}
}

func WithClock(c Clock) Option {
	return func(b *Builder) {
		b.clock = c
	}
}

func WithFieldClassifier(c FieldClassifier) Option {
	return func(b *Builder) {
		b.classify = c
	}
}

// Builder turns source files into the manifest object tree.
// A Builder holds no per-run state and can be reused.
type Builder struct {
	ids      IDSource
	clock    Clock
	classify FieldClassifier
	logger   *zap.SugaredLogger
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		ids:      uuid.NewRandom,
		clock:    time.Now,
		classify: PlainTextClassifier,
		logger:   zap.S().Named("manifest"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the manifest for files. The root folder and the document library
// come first, followed by one File and one ListItem per source file in input order.
func (b *Builder) Build(files []models.SourceFile, target models.Target) (*Manifest, error) {
	loc := newLocations(target)
	now := b.clock()

	m := &Manifest{Objects: make([]Object, 0, 2+2*len(files))}
	m.Objects = append(m.Objects, rootFolder(target, loc, now), documentLibrary(target, loc))

	used := map[string]struct{}{
		target.DocumentLibraryID:  {},
		target.WebID:              {},
		target.RootFolderID:       {},
		target.RootFolderParentID: {},
	}

	for i, f := range files {
		seq := i + 1

		fileID, err := b.nextID(used)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", f.Filename, err)
		}
		itemID, err := b.nextID(used)
		if err != nil {
			return nil, fmt.Errorf("list item %q: %w", f.Filename, err)
		}

		m.Objects = append(m.Objects,
			fileObject(f, target, loc, fileID, seq),
			b.listItemObject(f, target, loc, fileID, itemID, seq),
		)
	}

	b.logger.Debugw("manifest built", "files", len(files), "objects", len(m.Objects))

	return m, nil
}

func (b *Builder) nextID(used map[string]struct{}) (string, error) {
	id, err := b.ids()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	s := id.String()
	if _, ok := used[s]; ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, s)
	}
	used[s] = struct{}{}
	return s, nil
}

func rootFolder(t models.Target, loc locations, now time.Time) Object {
	return Object{
		ID:           t.RootFolderID,
		Kind:         KindFolder,
		ParentID:     t.RootFolderParentID,
		ParentWebID:  t.WebID,
		ParentWebURL: loc.web,
		URL:          loc.library,
		Payload: &Folder{
			ID:                        t.RootFolderID,
			URL:                       t.DocumentLibraryName,
			Name:                      t.DocumentLibraryName,
			ParentFolderID:            t.RootFolderParentID,
			ParentWebID:               t.WebID,
			ParentWebURL:              loc.web,
			ContainingDocumentLibrary: t.DocumentLibraryID,
			TimeCreated:               Timestamp(now),
			TimeLastModified:          Timestamp(now),
			SortBehavior:              "1",
		},
	}
}

func documentLibrary(t models.Target, loc locations) Object {
	return Object{
		ID:           t.DocumentLibraryID,
		Kind:         KindDocumentLibrary,
		ParentID:     t.WebID,
		ParentWebID:  t.WebID,
		ParentWebURL: loc.web,
		URL:          loc.library,
		Payload: &DocumentLibrary{
			ID:            t.DocumentLibraryID,
			BaseTemplate:  BaseTemplateDocLibrary,
			Title:         t.DocumentLibraryName,
			ParentWebID:   t.WebID,
			ParentWebURL:  loc.web,
			RootFolderID:  t.RootFolderID,
			RootFolderURL: loc.library,
		},
	}
}

func fileObject(f models.SourceFile, t models.Target, loc locations, fileID string, seq int) Object {
	return Object{
		ID:           fileID,
		Kind:         KindFile,
		ParentID:     t.RootFolderID,
		ParentWebID:  t.WebID,
		ParentWebURL: loc.web,
		URL:          joinURL(loc.folder, f.Filename),
		Payload: &File{
			URL:              joinURL(t.DocumentLibraryName, t.Subfolder, f.Filename),
			ID:               fileID,
			ParentWebID:      t.WebID,
			Name:             joinURL(t.Subfolder, f.Filename),
			ListItemIntID:    seq,
			ListID:           t.DocumentLibraryID,
			ParentID:         t.RootFolderID,
			TimeCreated:      Timestamp(f.LastModified),
			TimeLastModified: Timestamp(f.LastModified),
			Version:          DefaultVersion,
			FileValue:        f.Filename,
		},
	}
}

func (b *Builder) listItemObject(f models.SourceFile, t models.Target, loc locations, fileID, itemID string, seq int) Object {
	return Object{
		ID:           itemID,
		Kind:         KindListItem,
		ParentID:     t.DocumentLibraryID,
		ParentWebID:  t.WebID,
		ParentWebURL: loc.web,
		URL:          joinURL(loc.folder, f.Filename),
		Payload: &ListItem{
			ID:               itemID,
			FileURL:          joinURL(t.DocumentLibraryName, t.Subfolder, f.Filename),
			DocType:          DocTypeFile,
			ParentFolderID:   t.RootFolderID,
			Order:            seq * 100,
			ParentWebID:      t.WebID,
			ParentListID:     t.DocumentLibraryID,
			Name:             joinURL(t.Subfolder, f.Filename),
			DirName:          loc.dirName,
			IntID:            seq,
			DocID:            fileID,
			Version:          DefaultVersion,
			TimeLastModified: Timestamp(f.LastModified),
			TimeCreated:      Timestamp(f.LastModified),
			ModerationStatus: ModerationStatusApproved,
			Fields:           b.fields(f),
		},
	}
}

// locations holds the absolute urls derived from a target.
type locations struct {
	web     string
	library string
	folder  string
	dirName string
}

func newLocations(t models.Target) locations {
	web := strings.TrimRight(t.SiteName, "/")
	library := joinURL(web, t.DocumentLibraryName)

	sitePath := web
	if u, err := url.Parse(web); err == nil && u.Host != "" {
		sitePath = u.Path
	}

	return locations{
		web:     web,
		library: library,
		folder:  joinURL(library, t.Subfolder),
		dirName: "/" + strings.TrimLeft(joinURL(sitePath, t.DocumentLibraryName, t.Subfolder), "/"),
	}
}

// joinURL joins url segments with a single slash. Empty segments are skipped.
func joinURL(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 {
			p = strings.TrimRight(p, "/")
		} else {
			p = strings.Trim(p, "/")
		}
		if p == "" {
			continue
		}
		segments = append(segments, p)
	}
	return strings.Join(segments, "/")
}
