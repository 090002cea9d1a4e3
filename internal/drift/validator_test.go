package drift

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/countcheck/internal/source"
	"github.com/alexanderjulianmartinez/countcheck/pkg/types"
)

func counts(system string, tables ...source.TableInfo) *source.InspectionResult {
	return &source.InspectionResult{System: system, Tables: tables}
}

func TestValidate_MigrationExample(t *testing.T) {
	td := counts("teradata", source.TableInfo{Name: "A", RowCount: 100}, source.TableInfo{Name: "B", RowCount: 50})
	dbx := counts("databricks", source.TableInfo{Name: "A", RowCount: 101}, source.TableInfo{Name: "B", RowCount: 40})

	rep := Validate(td, dbx, 1.0)

	want := []types.ComparisonRow{
		{Table: "A", CountTeradata: 100, CountDatabricks: 101, CountDiff: 1, DiffPercentage: 1.0, Status: types.StatusFail},
		{Table: "B", CountTeradata: 50, CountDatabricks: 40, CountDiff: -10, DiffPercentage: -20.0, Status: types.StatusFail},
	}
	if diff := cmp.Diff(want, rep.Rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
	require.False(t, rep.Passed())
	require.Equal(t, []string{"A", "B"}, rep.Failures)
}

func TestValidate_MatchingCountsPass(t *testing.T) {
	td := counts("teradata", source.TableInfo{Name: "orders", RowCount: 12345}, source.TableInfo{Name: "empty", RowCount: 0})
	dbx := counts("databricks", source.TableInfo{Name: "empty", RowCount: 0}, source.TableInfo{Name: "orders", RowCount: 12345})

	rep := Validate(td, dbx, 1.0)

	require.Len(t, rep.Rows, 2)
	for _, row := range rep.Rows {
		require.Equal(t, types.StatusPass, row.Status, row.Table)
		require.Zero(t, row.CountDiff)
	}
	require.True(t, rep.Passed())
	require.Empty(t, rep.Failures)
}

func TestValidate_DropsUnmatchedTables(t *testing.T) {
	td := counts("teradata", source.TableInfo{Name: "only_td", RowCount: 5}, source.TableInfo{Name: "shared", RowCount: 10})
	dbx := counts("databricks", source.TableInfo{Name: "shared", RowCount: 10}, source.TableInfo{Name: "only_dbx", RowCount: 7})

	rep := Validate(td, dbx, 1.0)

	require.Len(t, rep.Rows, 1)
	require.Equal(t, "shared", rep.Rows[0].Table)
	require.Equal(t, []string{"only_td", "only_dbx"}, rep.Unmatched)
	require.True(t, rep.Passed())
}

func TestValidate_JoinOrderFollowsTeradata(t *testing.T) {
	td := counts("teradata", source.TableInfo{Name: "c", RowCount: 1}, source.TableInfo{Name: "a", RowCount: 1}, source.TableInfo{Name: "b", RowCount: 1})
	dbx := counts("databricks", source.TableInfo{Name: "a", RowCount: 1}, source.TableInfo{Name: "b", RowCount: 1}, source.TableInfo{Name: "c", RowCount: 1})

	rep := Validate(td, dbx, 1.0)

	var names []string
	for _, row := range rep.Rows {
		names = append(names, row.Table)
	}
	require.Equal(t, []string{"c", "a", "b"}, names)
}

func TestValidate_DiffIsDatabricksMinusTeradata(t *testing.T) {
	td := counts("teradata", source.TableInfo{Name: "x", RowCount: 900}, source.TableInfo{Name: "y", RowCount: 3})
	dbx := counts("databricks", source.TableInfo{Name: "x", RowCount: 1000}, source.TableInfo{Name: "y", RowCount: 0})

	for _, row := range Validate(td, dbx, 1.0).Rows {
		require.Equal(t, row.CountDatabricks-row.CountTeradata, row.CountDiff, row.Table)
	}
}

func TestValidate_EmptyInputs(t *testing.T) {
	rep := Validate(counts("teradata"), counts("databricks"), 1.0)
	require.Empty(t, rep.Rows)
	require.True(t, rep.Passed())
}
