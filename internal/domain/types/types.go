// Package types contains the score value objects produced by the engine and
// consumed by presentation layers.
package types

// Trend classifies the direction of a dimension over time.
type Trend string

// Dimension trends.
const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Direction is the raw movement of a metric relative to its baseline.
type Direction string

// Metric directions. They describe the raw value, never whether the movement
// is good or bad.
const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// ScoreComponent is a single weighted sub-score.
type ScoreComponent struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// CompositeScore is a set of named components and their weighted total.
type CompositeScore struct {
	Components map[string]ScoreComponent `json:"components"`
	TotalScore float64                   `json:"total_score"`
}

// DetailComponent is one row of a dimension breakdown.
type DetailComponent struct {
	Name         string  `json:"name"`
	DisplayValue string  `json:"display_value"`
	Contribution float64 `json:"contribution"`
}

// DimensionDetail is a scored dimension ready for display.
//
// Fallback is true when the score is a neutral policy value rather than a
// computed one; displays should render a placeholder instead of the number.
type DimensionDetail struct {
	Score      float64           `json:"score"`
	Components []DetailComponent `json:"components"`
	Trend      Trend             `json:"trend"`
	Suggestion string            `json:"suggestion"`
	Fallback   bool              `json:"fallback"`
}
