// Package manifest builds SharePoint migration packages.
//
// A migration package is the set of XML documents the migration service reads
// from the manifest container to import files that were uploaded to the source
// container. The package describes a single document library and the files it
// receives.
//
// # Package Layout
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                          Package                                 │
//	│                                                                  │
//	│  ExportSettings.xml   static                                     │
//	│  LookupListMap.xml    static                                     │
//	│  Manifest.xml         object tree built from the source files    │
//	│  Requirements.xml     static                                     │
//	│  RootObjectMap.xml    document library of the target             │
//	│  SystemData.xml       static                                     │
//	│  UserGroup.xml        static                                     │
//	│  ViewFormsList.xml    static                                     │
//	└──────────────────────────────────────────────────────────────────┘
//
// # Manifest Object Tree
//
// Manifest.xml holds a flat, ordered list of SPObject records. The consumer
// processes them in order, so a record never references a record that comes
// after it.
//
//	SPObject[0]  Folder           Id = root folder id
//	SPObject[1]  DocumentLibrary  Id = document library id
//	SPObject[2]  File             Id = F1, ListItemIntId = 1
//	SPObject[3]  ListItem         Id = L1, DocId = F1, Order = 100
//	SPObject[4]  File             Id = F2, ListItemIntId = 2
//	SPObject[5]  ListItem         Id = L2, DocId = F2, Order = 200
//	...
//
// The root folder and the document library reuse the identifiers of the
// existing SharePoint objects (see models.Target). File and ListItem
// identifiers are generated by an IDSource. Tests use SeededIDSource with a
// fixed Clock to get byte identical output.
//
// Each list item carries a Fields collection: one plain text field per source
// property, sorted by name, followed by a Title field holding the source title.
// A FieldClassifier can flag taxonomy values; they are still written as plain text.
//
// # Serialization
//
// Every document goes through Serialize: XML declaration, two space
// indentation, RFC 3339 UTC timestamps and no empty optional attributes.
// The payload element of an SPObject is chosen from its Kind.
//
// # Usage
//
//	pkg, err := manifest.NewPackage(files, target)
//	if err != nil {
//	    return err
//	}
//	for _, blob := range pkg.Blobs {
//	    container.Upload(ctx, blob.Name, blob.Contents)
//	}
package manifest
