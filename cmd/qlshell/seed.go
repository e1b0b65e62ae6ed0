package main

import (
	"time"

	contactql "github.com/nlstn/go-contactql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// seedDemoStore migrates the contact schema and loads a handful of contacts
// covering every field type, so queries have something to chew on.
func seedDemoStore(db *gorm.DB) error {
	if err := db.AutoMigrate(&contactql.Contact{}, &contactql.ContactURN{}, &contactql.FieldValue{}); err != nil {
		return err
	}

	contacts := []*demoContact{
		{
			name: "Will Smith", language: "eng", created: "2018-03-01T12:30:00Z",
			urns:   map[string]string{"tel": "+250788382011", "twitter": "willsmith"},
			age:    "36", gender: "male", joined: "2018-03-01T00:00:00Z",
			state: "Kigali City", district: "Nyarugenge", ward: "Gitega",
		},
		{
			name: "Felix Kamanzi", language: "fra", created: "2019-06-12T08:00:00Z",
			urns: map[string]string{"tel": "+250788382022"},
			age:  "15", gender: "male",
			state: "Kigali City", district: "Gasabo",
		},
		{
			name: "Grace Uwase", language: "kin", created: "2020-01-20T16:45:00Z",
			urns:   map[string]string{"whatsapp": "250788382033"},
			age:    "28", gender: "female", joined: "2020-01-20T00:00:00Z",
			state: "Eastern Province",
		},
		{
			// no name, no URNs, no field values
			created: "2021-11-05T10:15:00Z",
		},
	}

	for _, c := range contacts {
		if err := c.insert(db); err != nil {
			return err
		}
	}
	return nil
}

// demoContact is a compact description of one seeded contact.
type demoContact struct {
	name, language, created string
	urns                    map[string]string
	age, gender, joined     string
	state, district, ward   string
}

func (c *demoContact) insert(db *gorm.DB) error {
	createdOn, err := time.Parse(time.RFC3339, c.created)
	if err != nil {
		return err
	}

	contact := &contactql.Contact{OrgID: 1, CreatedOn: createdOn, IsActive: true}
	if c.name != "" {
		contact.Name = &c.name
	}
	if c.language != "" {
		contact.Language = &c.language
	}
	if err := db.Create(contact).Error; err != nil {
		return err
	}

	for scheme, path := range c.urns {
		urn := &contactql.ContactURN{ContactID: contact.ID, Scheme: scheme, Path: path}
		if err := db.Create(urn).Error; err != nil {
			return err
		}
	}

	values := []*contactql.FieldValue{}
	if c.age != "" {
		age, err := decimal.NewFromString(c.age)
		if err != nil {
			return err
		}
		values = append(values, &contactql.FieldValue{FieldKey: "age", TextValue: c.age, DecimalValue: &age})
	}
	if c.gender != "" {
		values = append(values, &contactql.FieldValue{FieldKey: "gender", TextValue: c.gender})
	}
	if c.joined != "" {
		joined, err := time.Parse(time.RFC3339, c.joined)
		if err != nil {
			return err
		}
		values = append(values, &contactql.FieldValue{FieldKey: "joined", TextValue: c.joined, DatetimeValue: &joined})
	}
	if c.state != "" {
		values = append(values, &contactql.FieldValue{FieldKey: "state", TextValue: c.state, StateValue: &c.state})
	}
	if c.district != "" {
		values = append(values, &contactql.FieldValue{FieldKey: "district", TextValue: c.district, DistrictValue: &c.district})
	}
	if c.ward != "" {
		values = append(values, &contactql.FieldValue{FieldKey: "ward", TextValue: c.ward, WardValue: &c.ward})
	}

	for _, value := range values {
		value.ContactID = contact.ID
		if err := db.Create(value).Error; err != nil {
			return err
		}
	}
	return nil
}
