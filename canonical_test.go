package contactql_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	contactql "github.com/nlstn/go-contactql"
)

// TestCanonicalRendering pins the canonical text of parsed queries against a
// golden file. Canonical text is stored with dynamic groups and shown back to
// users, so any change to it is a visible behavior change.
func TestCanonicalRendering(t *testing.T) {
	org := getTestOrg(t)
	engine := contactql.NewEngine()
	ctx := context.Background()

	queries := []string{
		`name = Bob`,
		`NAME ~ "bob jones"`,
		`will`,
		`will smith`,
		`0788383383`,
		`+250788383383`,
		`will or felix`,
		`will or felix and matt`,
		`(will or felix) and matt`,
		`(will and felix) and matt`,
		`age > 18 and age <= 30`,
		`age > 18 or (age < 5 and gender = male)`,
		`Gender = MALE`,
		`gender != ""`,
		`tel = ""`,
		`joined >= 01-03-2018`,
	}

	var buf strings.Builder
	for _, text := range queries {
		parsed, err := engine.ParseQuery(ctx, org, text)
		require.NoError(t, err, "failed to parse %q", text)

		buf.WriteString("query: " + text + "\n")
		buf.WriteString("canon: " + parsed.String() + "\n\n")

		// canonical text must round-trip to the same tree
		reparsed, err := engine.ParseQuery(ctx, org, parsed.String())
		require.NoError(t, err, "canonical text %q failed to re-parse", parsed.String())
		require.Equal(t, parsed.String(), reparsed.String())
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "canonical", []byte(buf.String()))
}
