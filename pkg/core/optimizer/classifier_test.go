package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

func slot(class, location string, avgCheckIns, fillRate float64) model.ScheduleSlot {
	return model.ScheduleSlot{
		Day: "Monday", Time: "07:00", Class: class, Location: location,
		Metrics: model.SlotMetrics{AvgCheckIns: avgCheckIns, FillRate: fillRate},
	}
}

func TestClassify_BothConditionsRequired(t *testing.T) {
	reg := rules.NewRegistry(rules.DefaultSettings())
	slots := []model.ScheduleSlot{
		slot("Power Cycle", "Downtown", 20, 90),
		slot("Mat Pilates", "Downtown", 4, 30),   // below avg AND below 60
		slot("Cardio Barre", "Downtown", 4, 75),  // below avg, fill OK
		slot("Deep Stretch", "Downtown", 20, 30), // low fill, above avg
	}
	// Location average: (20+4+4+20)/4 = 12

	c := Classify(slots, reg)

	require.Len(t, c.Underperforming, 1)
	assert.Equal(t, "Mat Pilates", c.Underperforming[0].Class)
	assert.Len(t, c.HighPerforming, 3)
}

func TestClassify_StrictBoundaries(t *testing.T) {
	reg := rules.NewRegistry(rules.DefaultSettings())

	// Both slots sit exactly at the location average: neither is strictly
	// below, so neither is flagged
	equal := []model.ScheduleSlot{
		slot("Power Cycle", "Downtown", 10, 30),
		slot("Mat Pilates", "Downtown", 10, 30),
	}
	c := Classify(equal, reg)
	assert.Empty(t, c.Underperforming)

	// Fill rate exactly 60 is not strictly below the ceiling
	boundary := []model.ScheduleSlot{
		slot("Power Cycle", "Downtown", 20, 90),
		slot("Mat Pilates", "Downtown", 4, 60),
	}
	c = Classify(boundary, reg)
	assert.Empty(t, c.Underperforming)
}

func TestClassify_ExcludedFormatsNeverFlagged(t *testing.T) {
	reg := rules.NewRegistry(rules.DefaultSettings())
	slots := []model.ScheduleSlot{
		slot("Power Cycle", "Downtown", 20, 90),
		slot("Hosted Event", "Downtown", 0, 0), // terrible numbers, excluded format
	}

	c := Classify(slots, reg)

	assert.Empty(t, c.Underperforming)
	assert.Len(t, c.HighPerforming, 2)
}

func TestClassify_BaselineIsPerLocation(t *testing.T) {
	reg := rules.NewRegistry(rules.DefaultSettings())
	slots := []model.ScheduleSlot{
		// Big location with high traffic
		slot("Power Cycle", "Downtown", 30, 90),
		slot("Mat Pilates", "Downtown", 28, 85),
		// Small location: 5 avg check-ins is healthy HERE
		slot("Cardio Barre", "Riverside", 5, 70),
		slot("Deep Stretch", "Riverside", 5, 65),
	}

	c := Classify(slots, reg)

	assert.Empty(t, c.Underperforming)
	assert.Equal(t, 29.0, c.LocationAverages["downtown"])
	assert.Equal(t, 5.0, c.LocationAverages["riverside"])
}

func TestLocationAverages_KeysLowercased(t *testing.T) {
	averages := LocationAverages([]model.ScheduleSlot{
		slot("Power Cycle", "Downtown", 10, 50),
		slot("Mat Pilates", "DOWNTOWN", 20, 50),
	})

	require.Len(t, averages, 1)
	assert.Equal(t, 15.0, averages["downtown"])
}
