package types

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
)

// ComparisonRow is one table's count check between the legacy warehouse and
// the lakehouse.
type ComparisonRow struct {
	Table           string  `json:"table_name"`
	CountTeradata   int64   `json:"count_teradata"`
	CountDatabricks int64   `json:"count_databricks"`
	CountDiff       int64   `json:"count_diff"`
	DiffPercentage  float64 `json:"diff_percentage"`
	Status          string  `json:"status"`
}

func (r ComparisonRow) Passed() bool {
	return r.Status == StatusPass
}
