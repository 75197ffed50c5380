package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

func writeSettings(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func TestLoadSettings_MissingFileYieldsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, rules.DefaultSettings(), settings)
}

func TestLoadSettings_PartialDocumentMergesOverDefaults(t *testing.T) {
	path := writeSettings(t, `{"maxTrainerHours": 20, "strategy": "maximize_attendance"}`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	// Present fields override
	assert.Equal(t, 20, settings.MaxTrainerHours)
	assert.Equal(t, "maximize_attendance", settings.Strategy)
	// Absent fields keep their defaults
	assert.Equal(t, 12, settings.TargetTrainerHours)
	assert.Equal(t, 1, settings.MinDaysOff)
	assert.Equal(t, []string{"hosted", "guest"}, settings.ExcludedFormats)
}

func TestLoadSettings_MalformedJSONFails(t *testing.T) {
	path := writeSettings(t, `{not json`)

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettings_MaxBelowTargetFails(t *testing.T) {
	path := writeSettings(t, `{"targetTrainerHours": 12, "maxTrainerHours": 10}`)

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxTrainerHours")
}

func TestLoadSettings_InvalidRRuleFails(t *testing.T) {
	path := writeSettings(t, `{"leave": [{"trainer": "Anna Smith", "rrule": "FREQ=NONSENSE"}]}`)

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestLoadSettings_ValidRRuleAccepted(t *testing.T) {
	path := writeSettings(t, `{"leave": [{"trainer": "Anna Smith", "rrule": "FREQ=WEEKLY;BYDAY=SU"}]}`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	require.Len(t, settings.Leave, 1)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=SU", settings.Leave[0].RRule)
}

func TestSaveSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	settings := rules.DefaultSettings()
	settings.Strategy = "peak_optimization"
	settings.Locations = map[string]rules.LocationConstraints{
		"Downtown": {MinWeeklyClasses: 30, PriorityTrainers: []string{"Anna Smith"}},
	}

	require.NoError(t, SaveSettings(path, settings))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadFromPath_ValidatesRequiredFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("historyCSV: history.csv\n"), 0644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestLoadFromPath_Valid(t *testing.T) {
	doc := "historyCSV: history.csv\nscheduleFile: schedule.json\nsettingsFile: settings.json\nport: 8080\n"
	path := filepath.Join(t.TempDir(), "studio_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "history.csv", cfg.HistoryCSV)
	assert.Equal(t, 8080, cfg.Port)
}
