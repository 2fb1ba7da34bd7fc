package manifest

import (
	"encoding/xml"
	"fmt"

	"github.com/kubev2v/spo-migrator/internal/models"
)

const (
	ExportSettingsFile = "ExportSettings.xml"
	LookupListMapFile  = "LookupListMap.xml"
	ManifestFile       = "Manifest.xml"
	RequirementsFile   = "Requirements.xml"
	RootObjectMapFile  = "RootObjectMap.xml"
	SystemDataFile     = "SystemData.xml"
	UserGroupFile      = "UserGroup.xml"
	ViewFormsListFile  = "ViewFormsList.xml"
)

type ExportSettings struct {
	XMLName         xml.Name `xml:"urn:deployment-exportsettings-schema ExportSettings"`
	SiteURL         string   `xml:"SiteUrl,attr"`
	FileLocation    string   `xml:"FileLocation,attr"`
	IncludeSecurity string   `xml:"IncludeSecurity,attr"`
}

type LookupLists struct {
	XMLName xml.Name `xml:"urn:deployment-lookuplistmap-schema LookupLists"`
}

type Requirements struct {
	XMLName xml.Name `xml:"urn:deployment-requirements-schema Requirements"`
}

type RootObjects struct {
	XMLName xml.Name     `xml:"urn:deployment-rootobjectmap-schema RootObjects"`
	Objects []RootObject `xml:"RootObject"`
}

type RootObject struct {
	ID           string `xml:"Id,attr"`
	Type         string `xml:"Type,attr"`
	ParentID     string `xml:"ParentId,attr"`
	WebURL       string `xml:"WebUrl,attr"`
	URL          string `xml:"Url,attr"`
	IsDependency bool   `xml:"IsDependency,attr"`
}

type SystemData struct {
	XMLName          xml.Name      `xml:"urn:deployment-systemdata-schema SystemData"`
	SchemaVersion    SchemaVersion `xml:"SchemaVersion"`
	ManifestFiles    ManifestFiles `xml:"ManifestFiles"`
	SystemObjects    struct{}      `xml:"SystemObjects"`
	RootWebOnlyLists struct{}      `xml:"RootWebOnlyLists"`
}

type SchemaVersion struct {
	Version          string `xml:"Version,attr"`
	Build            string `xml:"Build,attr"`
	DatabaseVersion  string `xml:"DatabaseVersion,attr"`
	SiteVersion      string `xml:"SiteVersion,attr"`
	ObjectsProcessed string `xml:"ObjectsProcessed,attr"`
}

type ManifestFiles struct {
	Files []ManifestFileRef `xml:"ManifestFile"`
}

type ManifestFileRef struct {
	Name string `xml:"Name,attr"`
}

type UserGroupMap struct {
	XMLName xml.Name `xml:"urn:deployment-usergroupmap-schema UserGroupMap"`
	Users   struct{} `xml:"Users"`
	Groups  struct{} `xml:"Groups"`
}

type ViewFormsList struct {
	XMLName xml.Name `xml:"urn:deployment-viewformlist-schema ViewFormsList"`
}

// staticDocuments do not depend on the target.
var staticDocuments = map[string]any{
	ExportSettingsFile: ExportSettings{
		SiteURL:         "http://fileshare/sites/user",
		FileLocation:    `C:\Temp\0 FilesToUpload`,
		IncludeSecurity: "None",
	},
	LookupListMapFile: LookupLists{},
	RequirementsFile:  Requirements{},
	SystemDataFile: SystemData{
		SchemaVersion: SchemaVersion{
			Version:          "15.0.0.0",
			Build:            "16.0.3111.1200",
			DatabaseVersion:  "11552",
			SiteVersion:      "15",
			ObjectsProcessed: "106",
		},
		ManifestFiles: ManifestFiles{Files: []ManifestFileRef{{Name: ManifestFile}}},
	},
	UserGroupFile:     UserGroupMap{},
	ViewFormsListFile: ViewFormsList{},
}

// NewRootObjects returns the root object map announcing the document library.
func NewRootObjects(t models.Target) RootObjects {
	web := joinURL(t.SiteName)
	return RootObjects{
		Objects: []RootObject{
			{
				ID:           t.DocumentLibraryID,
				Type:         "List",
				ParentID:     t.WebID,
				WebURL:       web,
				URL:          joinURL(web, t.DocumentLibraryName),
				IsDependency: false,
			},
		},
	}
}

// GenerateAuxiliary returns the seven descriptor documents keyed by file name.
func GenerateAuxiliary(t models.Target) (map[string][]byte, error) {
	docs := make(map[string][]byte, len(staticDocuments)+1)
	for name, v := range staticDocuments {
		data, err := Serialize(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		docs[name] = data
	}

	data, err := Serialize(NewRootObjects(t))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RootObjectMapFile, err)
	}
	docs[RootObjectMapFile] = data

	return docs, nil
}
