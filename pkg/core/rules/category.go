package rules

import "strings"

// Category is a coarse format bucket derived from free-text class names.
// Required-format satisfaction and diversity scoring operate on categories,
// not exact class names.
type Category string

const (
	CategoryCycle    Category = "cycle"
	CategoryStrength Category = "strength"
	CategoryBarre    Category = "barre"
	CategoryYoga     Category = "yoga"
	CategoryMat      Category = "mat"
	CategoryRecovery Category = "recovery"
	CategoryBoxing   Category = "boxing"
	CategoryOther    Category = "other"
)

// categoryKeywords maps substrings of class names to categories. Order
// matters: the first matching bucket wins, so the more specific buckets come
// before the ones with generic keywords.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryCycle, []string{"cycle", "spin", "ride", "rhythm"}},
	{CategoryBoxing, []string{"box", "fight", "combat"}},
	{CategoryBarre, []string{"barre"}},
	{CategoryRecovery, []string{"recovery", "stretch", "restore", "mobility"}},
	{CategoryYoga, []string{"yoga", "vinyasa", "flow"}},
	{CategoryMat, []string{"mat", "pilates", "core"}},
	{CategoryStrength, []string{"strength", "sculpt", "lift", "hiit", "circuit", "pump"}},
}

// ClassifyFormat maps a free-text class name to its format category via
// substring matching. Names matching nothing fall into CategoryOther.
func ClassifyFormat(className string) Category {
	name := strings.ToLower(className)
	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(name, kw) {
				return bucket.category
			}
		}
	}
	return CategoryOther
}
