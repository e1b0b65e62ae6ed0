package metadata

import (
	"fmt"
	"strings"
)

// Attribute identifies a built-in contact attribute that can be queried
// without being declared as a custom field.
type Attribute string

const (
	AttrName      Attribute = "name"
	AttrUUID      Attribute = "uuid"
	AttrLanguage  Attribute = "language"
	AttrCreatedOn Attribute = "created_on"
	AttrID        Attribute = "id"
)

// PropertyKind distinguishes what a query property key refers to.
type PropertyKind int

const (
	// KindAttribute is a built-in contact attribute such as name.
	KindAttribute PropertyKind = iota
	// KindURN is the generic "urn" property matching any scheme.
	KindURN
	// KindScheme is a scheme-constrained URN property such as "tel".
	KindScheme
	// KindField is an org custom field.
	KindField
)

// Resolved is the result of resolving a property key against an org.
// Exactly one of Attribute, Scheme or Field is meaningful, per Kind.
type Resolved struct {
	Kind      PropertyKind
	Attribute Attribute
	Scheme    string
	Field     *Field
}

// urnSchemes are the URN schemes recognized as first-class query properties.
// Scheme identifiers and the generic "urn" property resolve to the same
// comparison codepath against a contact's URN set, differing only in whether
// the scheme is constrained.
var urnSchemes = map[string]bool{
	"tel":      true,
	"twitter":  true,
	"facebook": true,
	"whatsapp": true,
	"mailto":   true,
	"viber":    true,
	"line":     true,
	"telegram": true,
	"ext":      true,
	"fcm":      true,
}

// IsURNScheme returns true if key names a recognized URN scheme.
func IsURNScheme(key string) bool {
	return urnSchemes[strings.ToLower(key)]
}

// Resolve maps a property key from a query to a contact attribute, a URN
// scheme or a custom field of the org. Keys are case-insensitive. Unknown
// keys are an error.
func Resolve(org Org, key string) (*Resolved, error) {
	key = strings.ToLower(key)

	switch key {
	case "name":
		return &Resolved{Kind: KindAttribute, Attribute: AttrName}, nil
	case "uuid":
		return &Resolved{Kind: KindAttribute, Attribute: AttrUUID}, nil
	case "language":
		return &Resolved{Kind: KindAttribute, Attribute: AttrLanguage}, nil
	case "created_on":
		return &Resolved{Kind: KindAttribute, Attribute: AttrCreatedOn}, nil
	case "id":
		return &Resolved{Kind: KindAttribute, Attribute: AttrID}, nil
	case "urn":
		return &Resolved{Kind: KindURN}, nil
	}

	if urnSchemes[key] {
		return &Resolved{Kind: KindScheme, Scheme: key}, nil
	}

	if f := org.LookupField(key); f != nil {
		return &Resolved{Kind: KindField, Field: f}, nil
	}

	return nil, fmt.Errorf("unrecognized contact field: %s", key)
}

// IsURN returns true if the resolved property compares against contact URNs.
func (r *Resolved) IsURN() bool {
	return r.Kind == KindURN || r.Kind == KindScheme
}
