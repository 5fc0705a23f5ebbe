package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalendarDocumentRoundTrip(t *testing.T) {
	doc := CalendarDocument{
		"2025-06-02": {{Title: "Restock"}, {Title: "Call supplier"}},
	}
	value, err := doc.Value()
	require.NoError(t, err)

	var scanned CalendarDocument
	require.NoError(t, scanned.Scan([]byte(value.(string))))
	require.Equal(t, doc, scanned)
	require.Equal(t, 2, scanned.Count())
}

func TestCalendarDocumentNilValues(t *testing.T) {
	var doc CalendarDocument
	value, err := doc.Value()
	require.NoError(t, err)
	require.Equal(t, "{}", value)

	require.NoError(t, doc.Scan(nil))
	require.Nil(t, doc)

	require.Error(t, doc.Scan(42))
}

func TestStringListScanFromString(t *testing.T) {
	var list StringList
	require.NoError(t, list.Scan(`["Shoes","Other"]`))
	require.Equal(t, StringList{"Shoes", "Other"}, list)

	value, err := StringList(nil).Value()
	require.NoError(t, err)
	require.Equal(t, "[]", value)
}
