package contactql

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Contact is the stored form of a contact, the root of the schema that
// compiled queries run against.
type Contact struct {
	ID        int64      `gorm:"primaryKey"`
	UUID      string     `gorm:"size:36;uniqueIndex"`
	OrgID     int64      `gorm:"index"`
	Name      *string    `gorm:"size:128"`
	Language  *string    `gorm:"size:3"`
	CreatedOn time.Time  `gorm:"index"`
	IsActive  bool       `gorm:"default:true"`
	URNs      []ContactURN `gorm:"foreignKey:ContactID"`
	Values    []FieldValue `gorm:"foreignKey:ContactID"`
}

// BeforeCreate assigns a UUID to new contacts that don't have one.
func (c *Contact) BeforeCreate(_ *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	return nil
}

// Snapshot converts a loaded contact (with URNs and Values preloaded) into
// the in-memory form the evaluator consumes. Field values carry their raw
// text representation; typed columns exist only for the compiled path.
func (c *Contact) Snapshot() *ContactSnapshot {
	snapshot := &ContactSnapshot{
		ID:        c.ID,
		UUID:      c.UUID,
		CreatedOn: c.CreatedOn,
		Fields:    make(map[string]string, len(c.Values)),
	}
	if c.Name != nil {
		snapshot.Name = *c.Name
	}
	if c.Language != nil {
		snapshot.Language = *c.Language
	}
	for _, urn := range c.URNs {
		snapshot.URNs = append(snapshot.URNs, URN{Scheme: urn.Scheme, Path: urn.Path})
	}
	for _, value := range c.Values {
		snapshot.Fields[value.FieldKey] = value.TextValue
	}
	return snapshot
}

// ContactURN is one addressable identity of a stored contact.
type ContactURN struct {
	ID        int64  `gorm:"primaryKey"`
	ContactID int64  `gorm:"index"`
	Scheme    string `gorm:"size:16;index"`
	Path      string `gorm:"size:255;index"`
}

// FieldValue is a contact's value for one custom field. TextValue always
// holds the raw value; the typed columns are populated according to the
// field's type so that compiled queries compare natively.
type FieldValue struct {
	ID            int64            `gorm:"primaryKey"`
	ContactID     int64            `gorm:"index"`
	FieldKey      string           `gorm:"size:36;index"`
	TextValue     string           `gorm:"size:640"`
	DecimalValue  *decimal.Decimal `gorm:"type:numeric(36,8)"`
	DatetimeValue *time.Time
	StateValue    *string `gorm:"size:255"`
	DistrictValue *string `gorm:"size:255"`
	WardValue     *string `gorm:"size:255"`
}
