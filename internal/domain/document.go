package domain

// Document is a loosely typed record from one of the store's collections.
// Field names are resource specific (Name, Price, Category, Status, ...)
// and pass through from the client largely unvalidated.
type Document map[string]any

// ID returns the document identifier as a hex string, if present.
func (d Document) ID() string {
	id, _ := d["_id"].(string)
	return id
}
