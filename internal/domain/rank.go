package domain

import "fmt"

// Rank is one of the four fixed LISST suitability categories. The numeric
// value matches the raster pixel value published by the service.
type Rank int

// The four LISST ranks, in preference order.
const (
	RankMostPreferred Rank = 1
	RankLessPreferred Rank = 2
	RankNotPreferred  Rank = 3
	RankAvoidance     Rank = 4
)

// rankLabels is the fallback value-to-label mapping, used when the service's
// raster attribute table cannot be fetched.
var rankLabels = map[Rank]string{
	RankMostPreferred: "Most preferred for low impact",
	RankLessPreferred: "Less preferred for low impact",
	RankNotPreferred:  "Not preferred for low impact",
	RankAvoidance:     "Avoidance recommended",
}

// Valid reports whether r is one of the four published ranks.
func (r Rank) Valid() bool {
	_, ok := rankLabels[r]
	return ok
}

// Label returns the built-in label for r, or "Rank <n>" for values outside
// the published set.
func (r Rank) Label() string {
	if label, ok := rankLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("Rank %d", int(r))
}

// Ranks returns the four published ranks in ascending pixel-value order.
func Ranks() []Rank {
	return []Rank{RankMostPreferred, RankLessPreferred, RankNotPreferred, RankAvoidance}
}
