package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule_DayKeysFillEntries(t *testing.T) {
	doc := `{
		"Monday": [
			{"time": "07:00", "className": "Power Cycle", "trainer": "Anna Smith", "location": "Downtown", "capacity": 20}
		],
		"Wednesday": [
			{"time": "6:30 PM", "className": "BoxFit", "trainer": "Bob Jones", "location": "Riverside", "capacity": 15}
		]
	}`

	entries, err := ParseSchedule(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Weekday iteration order, Monday first
	assert.Equal(t, "Monday", entries[0].Day)
	assert.Equal(t, "Power Cycle", entries[0].Class)
	assert.Equal(t, "Wednesday", entries[1].Day)
}

func TestParseSchedule_LowercaseDayKeys(t *testing.T) {
	doc := `{"monday": [{"time": "07:00", "className": "Power Cycle", "location": "Downtown"}]}`

	entries, err := ParseSchedule(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Monday", entries[0].Day)
}

func TestParseSchedule_ExplicitDayFieldWins(t *testing.T) {
	doc := `{"Monday": [{"day": "Tuesday", "time": "07:00", "className": "Power Cycle", "location": "Downtown"}]}`

	entries, err := ParseSchedule(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", entries[0].Day)
}

func TestParseSchedule_EmptyScheduleFails(t *testing.T) {
	_, err := ParseSchedule(strings.NewReader(`{}`))
	assert.Error(t, err)
}

func TestParseSchedule_MalformedJSONFails(t *testing.T) {
	_, err := ParseSchedule(strings.NewReader(`not json`))
	assert.Error(t, err)
}
