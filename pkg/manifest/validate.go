package manifest

import "fmt"

// Validate checks the structure of the manifest: the two root records come first,
// every other record points to a parent declared before it and every list item
// references a file record.
func (m *Manifest) Validate() error {
	if len(m.Objects) < 2 {
		return fmt.Errorf("manifest has %d objects, expected at least 2", len(m.Objects))
	}
	if m.Objects[0].Kind != KindFolder || m.Objects[1].Kind != KindDocumentLibrary {
		return fmt.Errorf("manifest must start with a folder and a document library")
	}

	declared := make(map[string]Kind, len(m.Objects))
	for i, o := range m.Objects {
		if o.Payload == nil || o.Payload.objectKind() != o.Kind {
			return fmt.Errorf("object %d (%s): payload does not match kind %s", i, o.ID, o.Kind)
		}
		if _, ok := declared[o.ID]; ok {
			return fmt.Errorf("object %d: %w: %s", i, ErrDuplicateID, o.ID)
		}

		if i >= 2 {
			if _, ok := declared[o.ParentID]; !ok {
				return fmt.Errorf("object %d (%s): parent %s is not declared before it", i, o.ID, o.ParentID)
			}
		}

		if item, ok := o.Payload.(*ListItem); ok {
			if kind, found := declared[item.DocID]; !found || kind != KindFile {
				return fmt.Errorf("list item %s: document %s is not a file record", o.ID, item.DocID)
			}
		}

		declared[o.ID] = o.Kind
	}

	return nil
}
