package manifest

import (
	"encoding/xml"
	"time"
)

// Kind is the SharePoint object type of a manifest record.
type Kind string

const (
	KindFolder          Kind = "SPFolder"
	KindDocumentLibrary Kind = "SPDocumentLibrary"
	KindFile            Kind = "SPFile"
	KindListItem        Kind = "SPListItem"
)

// element returns the name of the payload element written inside SPObject.
func (k Kind) element() string {
	switch k {
	case KindFolder:
		return "Folder"
	case KindDocumentLibrary:
		return "DocumentLibrary"
	case KindFile:
		return "File"
	case KindListItem:
		return "ListItem"
	default:
		return ""
	}
}

const (
	DocTypeFile              = "File"
	ModerationStatusApproved = "Approved"
	BaseTemplateDocLibrary   = "DocumentLibrary"
	DefaultVersion           = "1.0"
	FieldTypeText            = "Text"
	TitleFieldName           = "Title"
)

// Manifest is the ordered list of objects written to Manifest.xml.
// Objects are processed sequentially by the consumer, so parents always come first.
type Manifest struct {
	XMLName xml.Name `xml:"urn:deployment-manifest-schema SPObjects"`
	Objects []Object `xml:"SPObject"`
}

// Object is the generic SPObject wrapper. Payload must match Kind.
type Object struct {
	ID           string
	Kind         Kind
	ParentID     string
	ParentWebID  string
	ParentWebURL string
	URL          string
	Payload      Payload
}

// Payload is one of *Folder, *DocumentLibrary, *File or *ListItem.
type Payload interface {
	objectKind() Kind
}

type Folder struct {
	ID                        string    `xml:"Id,attr"`
	URL                       string    `xml:"Url,attr"`
	Name                      string    `xml:"Name,attr"`
	ParentFolderID            string    `xml:"ParentFolderId,attr,omitempty"`
	ParentWebID               string    `xml:"ParentWebId,attr"`
	ParentWebURL              string    `xml:"ParentWebUrl,attr"`
	ContainingDocumentLibrary string    `xml:"ContainingDocumentLibrary,attr,omitempty"`
	TimeCreated               Timestamp `xml:"TimeCreated,attr"`
	TimeLastModified          Timestamp `xml:"TimeLastModified,attr"`
	SortBehavior              string    `xml:"SortBehavior,attr,omitempty"`
}

type DocumentLibrary struct {
	ID            string `xml:"Id,attr"`
	BaseTemplate  string `xml:"BaseTemplate,attr"`
	Title         string `xml:"Title,attr"`
	ParentWebID   string `xml:"ParentWebId,attr"`
	ParentWebURL  string `xml:"ParentWebUrl,attr"`
	RootFolderID  string `xml:"RootFolderId,attr"`
	RootFolderURL string `xml:"RootFolderUrl,attr"`
}

type File struct {
	URL              string    `xml:"Url,attr"`
	ID               string    `xml:"Id,attr"`
	ParentWebID      string    `xml:"ParentWebId,attr"`
	Name             string    `xml:"Name,attr"`
	ListItemIntID    int       `xml:"ListItemIntId,attr"`
	ListID           string    `xml:"ListId,attr"`
	ParentID         string    `xml:"ParentId,attr"`
	TimeCreated      Timestamp `xml:"TimeCreated,attr"`
	TimeLastModified Timestamp `xml:"TimeLastModified,attr"`
	Version          string    `xml:"Version,attr,omitempty"`
	FileValue        string    `xml:"FileValue,attr"`
}

type ListItem struct {
	ID               string           `xml:"Id,attr"`
	FileURL          string           `xml:"FileUrl,attr"`
	DocType          string           `xml:"DocType,attr"`
	ParentFolderID   string           `xml:"ParentFolderId,attr"`
	Order            int              `xml:"Order,attr"`
	ParentWebID      string           `xml:"ParentWebId,attr"`
	ParentListID     string           `xml:"ParentListId,attr"`
	Name             string           `xml:"Name,attr"`
	DirName          string           `xml:"DirName,attr,omitempty"`
	IntID            int              `xml:"IntId,attr"`
	DocID            string           `xml:"DocId,attr"`
	Version          string           `xml:"Version,attr,omitempty"`
	TimeLastModified Timestamp        `xml:"TimeLastModified,attr"`
	TimeCreated      Timestamp        `xml:"TimeCreated,attr"`
	ModerationStatus string           `xml:"ModerationStatus,attr"`
	Fields           *FieldCollection `xml:"Fields,omitempty"`
}

type FieldCollection struct {
	Fields []Field `xml:"Field"`
}

type Field struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
	Type  string `xml:"Type,attr"`
}

func (*Folder) objectKind() Kind          { return KindFolder }
func (*DocumentLibrary) objectKind() Kind { return KindDocumentLibrary }
func (*File) objectKind() Kind            { return KindFile }
func (*ListItem) objectKind() Kind        { return KindListItem }

// Timestamp is written as an RFC 3339 UTC attribute. The zero value is omitted.
type Timestamp time.Time

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) MarshalXMLAttr(name xml.Name) (xml.Attr, error) {
	if time.Time(t).IsZero() {
		return xml.Attr{}, nil
	}
	return xml.Attr{Name: name, Value: time.Time(t).UTC().Format(time.RFC3339)}, nil
}
