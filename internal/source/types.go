package source

import "context"

// TableInfo is one table's record count as exported by a system.
type TableInfo struct {
	Name     string
	RowCount int64
}

type InspectionResult struct {
	System string
	// Tables keeps the order in which the source listed them.
	Tables []TableInfo
}

type Inspector interface {
	Name() string
	Inspect(ctx context.Context) (*InspectionResult, error)
}
