// Package atom models the property documents exchanged with the hosted
// directory API and converts them to and from their wire form.
//
// A typical document:
//
//	<atom:entry xmlns:atom="http://www.w3.org/2005/Atom" xmlns:apps="http://schemas.google.com/apps/2006">
//	  <atom:id>https://apps-apis.google.com/a/feeds/customer/2.0/C03az79cb</atom:id>
//	  <apps:property name="customerId" value="C03az79cb"/>
//	  <apps:property name="name" value="engineering"/>
//	</atom:entry>
package atom

const (
	// Namespace is the namespace of the entry root and its id element.
	Namespace = "http://www.w3.org/2005/Atom"

	// AppsNamespace is the namespace of property elements.
	AppsNamespace = "http://schemas.google.com/apps/2006"

	// ContentType is the media type of a serialized entry.
	ContentType = "application/atom+xml"
)

// Property is a single name/value pair carried by an Entry.
type Property struct {
	Name  string
	Value string
}

// Entry is a property document: an optional identifier and an ordered list of
// properties. Property names are not required to be unique.
type Entry struct {
	// ID is the entry identifier. Empty means absent.
	ID string

	// Properties in document order.
	Properties []Property
}

// NewEntry returns an entry without an identifier holding the given
// properties in order.
func NewEntry(props ...Property) Entry {
	p := make([]Property, len(props))
	copy(p, props)
	return Entry{Properties: p}
}

// Value returns the value of the first property with the given name.
func (e Entry) Value(name string) (string, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// CustomerID returns the value of the first "customerId" property.
func (e Entry) CustomerID() (string, bool) {
	return e.Value("customerId")
}
