package manifest

import (
	"sort"

	"github.com/kubev2v/spo-migrator/internal/models"
)

// FieldClass tells how a property value has to be encoded in the manifest.
type FieldClass int

const (
	PlainText FieldClass = iota
	MultiValueTaxonomy
	Taxonomy
)

func (c FieldClass) String() string {
	switch c {
	case PlainText:
		return "PlainText"
	case MultiValueTaxonomy:
		return "MultiValueTaxonomy"
	case Taxonomy:
		return "Taxonomy"
	default:
		return "Unknown"
	}
}

// FieldClassifier classifies a property before it is written as a Field.
type FieldClassifier func(name, value string) FieldClass

func PlainTextClassifier(string, string) FieldClass {
	return PlainText
}

// fields translates the properties of f into fields, sorted by name, followed by
// the Title field. A "Title" property is kept as is, so the collection may hold two Title fields.
func (b *Builder) fields(f models.SourceFile) *FieldCollection {
	names := make([]string, 0, len(f.Properties))
	for name := range f.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fc := &FieldCollection{Fields: make([]Field, 0, len(names)+1)}
	for _, name := range names {
		value := f.Properties[name]
		if class := b.classify(name, value); class != PlainText {
			// taxonomy values need the term store ids, which are not available here
			b.logger.Debugw("field written as plain text", "file", f.Filename, "field", name, "class", class.String())
		}
		fc.Fields = append(fc.Fields, Field{Name: name, Value: value, Type: FieldTypeText})
	}
	fc.Fields = append(fc.Fields, Field{Name: TitleFieldName, Value: f.Title, Type: FieldTypeText})

	return fc
}
