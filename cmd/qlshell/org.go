package main

import (
	contactql "github.com/nlstn/go-contactql"
)

// demoOrg builds the org the shell works against, with a small set of custom
// fields covering every field type.
func demoOrg(opts *rootOptions) (contactql.Org, error) {
	tz, err := opts.loadTimezone()
	if err != nil {
		return nil, err
	}

	return contactql.NewStaticOrg(tz, opts.DayFirst, opts.Anon,
		&contactql.Field{Key: "age", Label: "Age", Type: contactql.FieldTypeDecimal},
		&contactql.Field{Key: "gender", Label: "Gender", Type: contactql.FieldTypeText},
		&contactql.Field{Key: "joined", Label: "Joined", Type: contactql.FieldTypeDatetime},
		&contactql.Field{Key: "state", Label: "State", Type: contactql.FieldTypeState},
		&contactql.Field{Key: "district", Label: "District", Type: contactql.FieldTypeDistrict},
		&contactql.Field{Key: "ward", Label: "Ward", Type: contactql.FieldTypeWard},
	), nil
}
