package drift

import (
	"github.com/alexanderjulianmartinez/countcheck/internal/source"
	"github.com/alexanderjulianmartinez/countcheck/pkg/types"
)

type Report struct {
	Rows      []types.ComparisonRow `json:"rows"`
	Failures  []string              `json:"failures"`
	Unmatched []string              `json:"unmatched"`
	Threshold float64               `json:"threshold"`
}

func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Validate inner-joins the two exports on table name. Rows follow the order of
// the teradata export; tables present on one side only go to Unmatched and
// never into Rows.
func Validate(
	teradata *source.InspectionResult,
	databricks *source.InspectionResult,
	threshold float64,
) *Report {
	report := &Report{
		Rows:      []types.ComparisonRow{},
		Failures:  []string{},
		Unmatched: []string{},
		Threshold: threshold,
	}

	databricksTables := map[string]source.TableInfo{}
	for _, table := range databricks.Tables {
		databricksTables[table.Name] = table
	}

	joined := map[string]struct{}{}
	for _, table := range teradata.Tables {
		target, ok := databricksTables[table.Name]
		if !ok {
			report.Unmatched = append(report.Unmatched, table.Name)
			continue
		}
		joined[table.Name] = struct{}{}

		row := Compare(table.Name, table.RowCount, target.RowCount, threshold)
		report.Rows = append(report.Rows, row)
		if !row.Passed() {
			report.Failures = append(report.Failures, row.Table)
		}
	}

	for _, table := range databricks.Tables {
		if _, ok := joined[table.Name]; !ok {
			report.Unmatched = append(report.Unmatched, table.Name)
		}
	}
	return report
}
