package drift

import (
	"math"

	"github.com/alexanderjulianmartinez/countcheck/pkg/types"
)

// DiffPercentage returns (databricks - teradata) / teradata * 100 rounded to
// two decimals, half to even. An empty legacy table yields 0.
func DiffPercentage(teradata, databricks int64) float64 {
	if teradata == 0 {
		return 0
	}
	pct := float64(databricks-teradata) / float64(teradata) * 100
	rounded := math.RoundToEven(pct*100) / 100
	if rounded == 0 {
		// avoid rendering -0.00
		return 0
	}
	return rounded
}

// StatusFor classifies a rounded diff percentage against a threshold given in
// percent. The bound is exclusive.
func StatusFor(pct, threshold float64) string {
	if math.Abs(pct) < threshold {
		return types.StatusPass
	}
	return types.StatusFail
}

// Compare builds the row for one table present in both exports.
func Compare(table string, teradata, databricks int64, threshold float64) types.ComparisonRow {
	pct := DiffPercentage(teradata, databricks)
	return types.ComparisonRow{
		Table:           table,
		CountTeradata:   teradata,
		CountDatabricks: databricks,
		CountDiff:       databricks - teradata,
		DiffPercentage:  pct,
		Status:          StatusFor(pct, threshold),
	}
}
