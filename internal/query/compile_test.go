package query

import (
	"errors"
	"strings"
	"testing"
)

// buildSQL parses text and lowers it for the given dialect.
func buildSQL(t *testing.T, dialect, text string) (string, []interface{}, error) {
	t.Helper()
	parsed, err := Parse(getTestOrg(t), text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return buildNodeCondition(dialect, getTestOrg(t), parsed.Root)
}

func TestBuildNodeCondition(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		sql      string
		argCount int
	}{
		{
			name:     "Name equality folds case",
			query:    `name = "Bob"`,
			sql:      `LOWER("contacts"."name") = LOWER(?)`,
			argCount: 1,
		},
		{
			name:     "Name contains",
			query:    `name ~ "will"`,
			sql:      `LOWER("contacts"."name") LIKE ?`,
			argCount: 1,
		},
		{
			name:     "Name not-equal keeps nameless contacts",
			query:    `name != "Bob"`,
			sql:      `("contacts"."name" IS NULL OR LOWER("contacts"."name") != LOWER(?))`,
			argCount: 1,
		},
		{
			name:     "Boolean combination parenthesizes both sides",
			query:    `age > 18 and gender = "male"`,
			sql:      `(EXISTS (SELECT 1 FROM "field_values" WHERE "field_values"."contact_id" = "contacts"."id" AND "field_values"."field_key" = ? AND "field_values"."decimal_value" > ?)) AND (EXISTS (SELECT 1 FROM "field_values" WHERE "field_values"."contact_id" = "contacts"."id" AND "field_values"."field_key" = ? AND LOWER("field_values"."text_value") = LOWER(?)))`,
			argCount: 4,
		},
		{
			name:     "URN condition is scheme-constrained EXISTS",
			query:    `tel ~ 0788`,
			sql:      `EXISTS (SELECT 1 FROM "contact_urns" WHERE "contact_urns"."contact_id" = "contacts"."id" AND "contact_urns"."scheme" = ? AND LOWER("contact_urns"."path") LIKE ?)`,
			argCount: 2,
		},
		{
			name:     "Generic urn drops the scheme constraint",
			query:    `urn = willsmith`,
			sql:      `EXISTS (SELECT 1 FROM "contact_urns" WHERE "contact_urns"."contact_id" = "contacts"."id" AND LOWER("contact_urns"."path") = LOWER(?))`,
			argCount: 1,
		},
		{
			name:     "Date equality is a day window",
			query:    `joined = 01-03-2018`,
			sql:      `EXISTS (SELECT 1 FROM "field_values" WHERE "field_values"."contact_id" = "contacts"."id" AND "field_values"."field_key" = ? AND ("field_values"."datetime_value" >= ? AND "field_values"."datetime_value" < ?))`,
			argCount: 3,
		},
		{
			name:     "Garbage date equality matches nothing",
			query:    `joined = "yesterday"`,
			sql:      "1 = 0",
			argCount: 0,
		},
		{
			name:     "URN presence check",
			query:    `tel != ""`,
			sql:      `EXISTS (SELECT 1 FROM "contact_urns" WHERE "contact_urns"."contact_id" = "contacts"."id" AND "contact_urns"."scheme" = ?)`,
			argCount: 1,
		},
		{
			name:     "Field absence check",
			query:    `ward = ""`,
			sql:      `NOT EXISTS (SELECT 1 FROM "field_values" WHERE "field_values"."contact_id" = "contacts"."id" AND "field_values"."field_key" = ? AND "field_values"."ward_value" IS NOT NULL)`,
			argCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildSQL(t, "sqlite", tt.query)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if sql != tt.sql {
				t.Errorf("Expected SQL:\n%s\ngot:\n%s", tt.sql, sql)
			}
			if len(args) != tt.argCount {
				t.Errorf("Expected %d args, got %d", tt.argCount, len(args))
			}
		})
	}
}

func TestBuildNodeCondition_PostgresDialect(t *testing.T) {
	sql, _, err := buildSQL(t, "postgres", `name ~ "will"`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.Contains(sql, "ILIKE") {
		t.Errorf("Expected ILIKE on postgres, got %s", sql)
	}

	sql, _, err = buildSQL(t, "sqlite", `name ~ "will"`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if strings.Contains(sql, "ILIKE") {
		t.Errorf("Expected plain LIKE on sqlite, got %s", sql)
	}
}

func TestBuildNodeCondition_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  ErrorCode
	}{
		{name: "Unknown property", query: `favorite_color = "blue"`, code: ErrorCodeUnknownProperty},
		{name: "Contains on text field", query: `gender ~ "male"`, code: ErrorCodeUnsupportedComparator},
		{name: "Ordering on name", query: `name > "a"`, code: ErrorCodeUnsupportedComparator},
		{name: "Garbage decimal", query: `age > "old"`, code: ErrorCodeInvalidValue},
		{name: "Garbage date with ordering", query: `joined > "yesterday"`, code: ErrorCodeInvalidValue},
		{name: "Garbage uuid", query: `uuid = "xyz"`, code: ErrorCodeInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildSQL(t, "sqlite", tt.query)
			var qerr *QueryError
			if !errors.As(err, &qerr) || qerr.Code != tt.code {
				t.Errorf("Expected %s error, got %v", tt.code, err)
			}
		})
	}
}

func TestBuildNodeCondition_AnonymousOrg(t *testing.T) {
	org := getAnonTestOrg(t)

	parsed, err := Parse(org, `tel = +250788382011`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, _, err = buildNodeCondition("sqlite", org, parsed.Root)
	var qerr *QueryError
	if !errors.As(err, &qerr) || qerr.Code != ErrorCodeRedactedURNs {
		t.Errorf("Expected redacted URNs error, got %v", err)
	}

	// presence checks stay legal
	parsed, err = Parse(org, `tel != ""`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, _, err := buildNodeCondition("sqlite", org, parsed.Root); err != nil {
		t.Errorf("Expected presence check to compile in anonymous org: %v", err)
	}
}
