package optimizer

// Strategy names a weight vector over the scoring factors. Unrecognized
// strategies fall back to Balanced explicitly rather than scoring with
// missing multipliers.
type Strategy string

const (
	StrategyBalanced           Strategy = "balanced"
	StrategyMaximizeAttendance Strategy = "maximize_attendance"
	StrategyTrainerDevelopment Strategy = "trainer_development"
	StrategyFormatDiversity    Strategy = "format_diversity"
	StrategyPeakOptimization   Strategy = "peak_optimization"
	StrategyMemberRetention    Strategy = "member_retention"
)

// Weights are the strategy multipliers applied to the soft scoring factors.
// Hard penalties (near-max hours, days-off, multi-location) are flat and not
// strategy-scaled.
type Weights struct {
	TrainerHours    float64
	Attendance      float64
	PeakBonus       float64
	FormatDiversity float64
	NewTrainerBonus float64
}

var strategyWeights = map[Strategy]Weights{
	StrategyBalanced: {
		TrainerHours:    1.0,
		Attendance:      1.0,
		PeakBonus:       1.0,
		FormatDiversity: 1.0,
		NewTrainerBonus: 1.0,
	},
	StrategyMaximizeAttendance: {
		TrainerHours:    0.8,
		Attendance:      2.0,
		PeakBonus:       1.5,
		FormatDiversity: 0.7,
		NewTrainerBonus: 0.5,
	},
	StrategyTrainerDevelopment: {
		TrainerHours:    2.0,
		Attendance:      0.8,
		PeakBonus:       0.8,
		FormatDiversity: 1.0,
		NewTrainerBonus: 2.0,
	},
	StrategyFormatDiversity: {
		TrainerHours:    0.8,
		Attendance:      0.9,
		PeakBonus:       0.8,
		FormatDiversity: 2.5,
		NewTrainerBonus: 1.0,
	},
	StrategyPeakOptimization: {
		TrainerHours:    0.8,
		Attendance:      1.5,
		PeakBonus:       2.5,
		FormatDiversity: 0.8,
		NewTrainerBonus: 0.5,
	},
	StrategyMemberRetention: {
		TrainerHours:    1.0,
		Attendance:      1.2,
		PeakBonus:       1.0,
		FormatDiversity: 1.2,
		NewTrainerBonus: 0.8,
	},
}

// StrategyWeights resolves a strategy name to its weight vector. The second
// return value is false when the name was unrecognized and the Balanced
// vector was substituted.
func StrategyWeights(s Strategy) (Weights, bool) {
	if w, ok := strategyWeights[s]; ok {
		return w, true
	}
	return strategyWeights[StrategyBalanced], false
}

// Strategies lists the known strategy names.
func Strategies() []Strategy {
	return []Strategy{
		StrategyBalanced,
		StrategyMaximizeAttendance,
		StrategyTrainerDevelopment,
		StrategyFormatDiversity,
		StrategyPeakOptimization,
		StrategyMemberRetention,
	}
}
