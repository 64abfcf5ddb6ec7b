package model

// Direction labels which side of the report a row belongs to.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// ReportRow is one line of a generated price-change report, in the shape
// persisted by the storage sinks.
type ReportRow struct {
	Year        int    `json:"year"`
	Direction   string `json:"direction"`
	Rank        int    `json:"rank"`
	Change      string `json:"change"`
	Description string `json:"description"`
	GeneratedAt string `json:"generated_at"`
}
