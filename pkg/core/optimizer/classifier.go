package optimizer

import (
	"strings"

	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

// underperformFillRate is the fill-rate ceiling below which a slot can be
// flagged; both conditions must hold (see Classify).
const underperformFillRate = 60.0

// Classification partitions the active schedule for one optimizer run.
type Classification struct {
	Underperforming []model.ScheduleSlot
	HighPerforming  []model.ScheduleSlot

	// LocationAverages is the mean avgCheckIns across all classified
	// slots per location, the baseline the partition was made against.
	LocationAverages map[string]float64
}

// LocationAverages computes the mean slot avgCheckIns per location across
// the given slots. The baseline is location-relative, never global.
func LocationAverages(slots []model.ScheduleSlot) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, slot := range slots {
		key := strings.ToLower(slot.Location)
		sums[key] += slot.Metrics.AvgCheckIns
		counts[key]++
	}

	averages := make(map[string]float64, len(sums))
	for key, sum := range sums {
		averages[key] = sum / float64(counts[key])
	}
	return averages
}

// Classify partitions slots into underperforming and high-performing.
//
// A slot is underperforming iff its avgCheckIns is strictly below its
// location average AND its fill rate is strictly below 60: a low-fill class
// with high absolute attendance at a big location is not flagged, and vice
// versa. Excluded-format slots always land in HighPerforming regardless of
// metrics.
func Classify(slots []model.ScheduleSlot, reg *rules.Registry) Classification {
	c := Classification{LocationAverages: LocationAverages(slots)}

	for _, slot := range slots {
		if reg.IsExcludedFormat(slot.Class) {
			c.HighPerforming = append(c.HighPerforming, slot)
			continue
		}

		locationAvg := c.LocationAverages[strings.ToLower(slot.Location)]
		if slot.Metrics.AvgCheckIns < locationAvg && slot.Metrics.FillRate < underperformFillRate {
			c.Underperforming = append(c.Underperforming, slot)
		} else {
			c.HighPerforming = append(c.HighPerforming, slot)
		}
	}

	return c
}
