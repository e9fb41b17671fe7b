package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../testdata/snapshot.json"

func TestLoadFile_Fixture(t *testing.T) {
	doc, err := LoadFile(fixturePath)
	require.NoError(t, err)

	s := doc.Snapshot
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), s.AsOf)
	assert.Len(t, s.Revenue, 6)
	assert.Len(t, s.Customers, 8)
	assert.Len(t, s.Sales, 8)
	assert.Len(t, s.Marketing, 3)
	assert.Len(t, s.Conversions, 3)
	assert.Len(t, s.Leads, 3)
	assert.Len(t, s.Products, 3)
	assert.Len(t, s.Inventory, 3)
	require.NotNil(t, s.Targets)
	assert.Equal(t, 45000.0, s.Targets.MonthlyRevenue)

	assert.Equal(t, "cmp-webinar", s.Conversions[0].Touchpoints[2].CampaignID)
	assert.Equal(t, time.Date(2024, 4, 2, 16, 0, 0, 0, time.UTC), s.Conversions[0].Touchpoints[2].Timestamp)
	assert.True(t, s.Customers[3].LastPurchaseAt.IsZero())
	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), s.Customers[3].LastActivityAt)
	assert.Len(t, doc.Hash, 64)
}

func TestDecode_AbsentCollectionsStayNil(t *testing.T) {
	doc, err := Decode([]byte(`{"revenue": [{"date": "2024-01-01", "amount": 10}], "customers": []}`))
	require.NoError(t, err)

	assert.NotNil(t, doc.Snapshot.Customers)
	assert.Empty(t, doc.Snapshot.Customers)
	assert.Nil(t, doc.Snapshot.Sales)
	assert.Nil(t, doc.Snapshot.Targets)
	assert.True(t, doc.Snapshot.AsOf.IsZero())
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"Empty", ``},
		{"NotJSON", `{"revenue": [`},
		{"WrongType", `{"revenue": [{"date": "2024-01-01", "amount": "lots"}]}`},
		{"MissingRequired", `{"customers": [{"name": "no id"}]}`},
		{"BadDate", `{"sales": [{"id": "o1", "amount": 5, "date": "yesterday"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestFingerprint_IgnoresFormatting(t *testing.T) {
	a, err := Decode([]byte(`{"leads": [{"id": "l1", "company_size": 20}]}`))
	require.NoError(t, err)
	b, err := Decode([]byte("{\n  \"leads\": [\n    {\"company_size\": 20, \"id\": \"l1\"}\n  ]\n}"))
	require.NoError(t, err)
	c, err := Decode([]byte(`{"leads": [{"id": "l1", "company_size": 21}]}`))
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestSaveAndReload(t *testing.T) {
	doc, err := LoadFile(fixturePath)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "copy.json")
	require.NoError(t, Save(path, FromSnapshot(doc.Snapshot)))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Snapshot, reloaded.Snapshot)
}

func TestParseTime(t *testing.T) {
	layouts := map[string]time.Time{
		"2024-03-05":                time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		"2024-03-05T10:30:00":       time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		"2024-03-05T10:30:00+02:00": time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC),
		"":                          {},
	}
	for in, want := range layouts {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%q: got %v", in, got)
	}

	_, err := ParseTime("05/03/2024")
	assert.Error(t, err)
}

func TestSchemaJSON(t *testing.T) {
	data, err := SchemaJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"customers"`)
	assert.Contains(t, string(data), "Touchpoints ordered oldest first")
}
