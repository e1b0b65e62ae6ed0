package contactql_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	contactql "github.com/nlstn/go-contactql"
)

type conformanceCase struct {
	Query   string   `yaml:"query"`
	Matches []string `yaml:"matches"`
}

type conformanceFile struct {
	Cases []conformanceCase `yaml:"cases"`
}

// TestExecutorConformance runs every fixture query through both executors:
// compiled against the seeded store and evaluated against each contact's
// snapshot. A query for which the two disagree would make dynamic group
// membership diverge from search results, so both must produce exactly the
// expected contact set.
func TestExecutorConformance(t *testing.T) {
	data, err := os.ReadFile("testdata/conformance.yaml")
	require.NoError(t, err)

	var fixture conformanceFile
	require.NoError(t, yaml.Unmarshal(data, &fixture))
	require.NotEmpty(t, fixture.Cases)

	db := setupTestDB(t)
	org := getTestOrg(t)
	ids := seedTestContacts(t, db)
	engine := contactql.NewEngine()
	ctx := context.Background()

	keyByID := make(map[int64]string, len(ids))
	for key, id := range ids {
		keyByID[id] = key
	}

	// snapshots of the active contacts, the same population searches see
	var active []contactql.Contact
	require.NoError(t, db.Preload("URNs").Preload("Values").
		Where(`"contacts"."is_active" = ?`, true).Find(&active).Error)
	require.Len(t, active, 4)

	for _, tc := range fixture.Cases {
		t.Run(tc.Query, func(t *testing.T) {
			expected := make([]string, 0, len(tc.Matches))
			expected = append(expected, tc.Matches...)

			compiled := make([]string, 0, len(expected))
			for _, id := range searchIDs(t, engine, org, db, tc.Query) {
				compiled = append(compiled, keyByID[id])
			}

			parsed, err := engine.ParseQuery(ctx, org, tc.Query)
			require.NoError(t, err)

			evaluated := make([]string, 0, len(expected))
			for _, contact := range active {
				matched, err := engine.EvaluateContact(ctx, org, parsed, contact.Snapshot())
				require.NoError(t, err)
				if matched {
					evaluated = append(evaluated, keyByID[contact.ID])
				}
			}

			assert.ElementsMatch(t, expected, compiled, "compiled search disagrees with fixture")
			assert.ElementsMatch(t, expected, evaluated, "in-memory evaluation disagrees with fixture")
		})
	}
}
