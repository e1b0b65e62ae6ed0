package metadata

import (
	"testing"
	"time"
)

func newOrg(fields ...*Field) Org {
	return NewStaticOrg(time.UTC, true, false, fields...)
}

func TestResolve_Attributes(t *testing.T) {
	org := newOrg()

	tests := []struct {
		key  string
		attr Attribute
	}{
		{key: "name", attr: AttrName},
		{key: "NAME", attr: AttrName},
		{key: "uuid", attr: AttrUUID},
		{key: "language", attr: AttrLanguage},
		{key: "created_on", attr: AttrCreatedOn},
		{key: "id", attr: AttrID},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			resolved, err := Resolve(org, tt.key)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if resolved.Kind != KindAttribute || resolved.Attribute != tt.attr {
				t.Errorf("Expected attribute %s, got kind %d", tt.attr, resolved.Kind)
			}
		})
	}
}

func TestResolve_URNs(t *testing.T) {
	org := newOrg()

	resolved, err := Resolve(org, "urn")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Kind != KindURN || !resolved.IsURN() {
		t.Errorf("Expected generic URN property")
	}

	for _, scheme := range []string{"tel", "twitter", "whatsapp", "mailto", "telegram"} {
		resolved, err := Resolve(org, scheme)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", scheme, err)
		}
		if resolved.Kind != KindScheme || resolved.Scheme != scheme || !resolved.IsURN() {
			t.Errorf("Expected scheme property for %s", scheme)
		}
	}
}

func TestResolve_Fields(t *testing.T) {
	org := newOrg(
		&Field{Key: "age", Label: "Age", Type: FieldTypeDecimal},
		&Field{Key: "gender", Label: "Gender", Type: FieldTypeText},
	)

	resolved, err := Resolve(org, "AGE")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Kind != KindField || resolved.Field.Type != FieldTypeDecimal {
		t.Errorf("Expected decimal field, got %+v", resolved)
	}

	if _, err := Resolve(org, "favorite_color"); err == nil {
		t.Errorf("Expected error for unknown field")
	}
}

func TestResolve_FieldShadowing(t *testing.T) {
	// a custom field cannot shadow a built-in attribute or scheme
	org := newOrg(&Field{Key: "name", Label: "Name", Type: FieldTypeText})

	resolved, err := Resolve(org, "name")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Kind != KindAttribute {
		t.Errorf("Expected built-in attribute to win over custom field")
	}
}

func TestSupportsComparator(t *testing.T) {
	tests := []struct {
		name       string
		resolved   *Resolved
		allowed    []string
		disallowed []string
	}{
		{
			name:       "name attribute",
			resolved:   &Resolved{Kind: KindAttribute, Attribute: AttrName},
			allowed:    []string{"=", "!=", "~"},
			disallowed: []string{"<", "<=", ">", ">="},
		},
		{
			name:       "language attribute is exact match only",
			resolved:   &Resolved{Kind: KindAttribute, Attribute: AttrLanguage},
			allowed:    []string{"=", "!="},
			disallowed: []string{"~", "<"},
		},
		{
			name:       "id attribute",
			resolved:   &Resolved{Kind: KindAttribute, Attribute: AttrID},
			allowed:    []string{"="},
			disallowed: []string{"!=", "~", ">"},
		},
		{
			name:       "created_on",
			resolved:   &Resolved{Kind: KindAttribute, Attribute: AttrCreatedOn},
			allowed:    []string{"=", "!=", "<", "<=", ">", ">="},
			disallowed: []string{"~"},
		},
		{
			name:       "URN scheme",
			resolved:   &Resolved{Kind: KindScheme, Scheme: "tel"},
			allowed:    []string{"=", "~"},
			disallowed: []string{"!=", "<"},
		},
		{
			name:       "text field is exact match only",
			resolved:   &Resolved{Kind: KindField, Field: &Field{Key: "gender", Type: FieldTypeText}},
			allowed:    []string{"=", "!="},
			disallowed: []string{"~", ">"},
		},
		{
			name:       "decimal field",
			resolved:   &Resolved{Kind: KindField, Field: &Field{Key: "age", Type: FieldTypeDecimal}},
			allowed:    []string{"=", "!=", "<", "<=", ">", ">="},
			disallowed: []string{"~"},
		},
		{
			name:       "location field",
			resolved:   &Resolved{Kind: KindField, Field: &Field{Key: "ward", Type: FieldTypeWard}},
			allowed:    []string{"=", "!=", "~"},
			disallowed: []string{"<", ">"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, cmp := range tt.allowed {
				if !tt.resolved.SupportsComparator(cmp) {
					t.Errorf("Expected %s to be allowed", cmp)
				}
			}
			for _, cmp := range tt.disallowed {
				if tt.resolved.SupportsComparator(cmp) {
					t.Errorf("Expected %s to be disallowed", cmp)
				}
			}
		})
	}
}

func TestFieldTypeIsLocation(t *testing.T) {
	for _, ft := range []FieldType{FieldTypeState, FieldTypeDistrict, FieldTypeWard} {
		if !ft.IsLocation() {
			t.Errorf("Expected %s to be a location type", ft)
		}
	}
	for _, ft := range []FieldType{FieldTypeText, FieldTypeDecimal, FieldTypeDatetime} {
		if ft.IsLocation() {
			t.Errorf("Expected %s not to be a location type", ft)
		}
	}
}
