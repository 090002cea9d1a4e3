package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderjulianmartinez/countcheck/internal/ctxlog"
	"github.com/alexanderjulianmartinez/countcheck/internal/source"
)

const (
	ColumnTableName   = "table_name"
	ColumnRecordCount = "record_count"
)

var (
	ErrEmptyFile      = errors.New("count file is empty")
	ErrMissingColumn  = errors.New("missing required column")
	ErrInvalidCount   = errors.New("invalid record count")
	ErrEmptyTableName = errors.New("empty table name")
	ErrDuplicateTable = errors.New("duplicate table name")
)

// Inspector reads a table_name,record_count export produced by one system.
type Inspector struct {
	system string
	path   string
}

func New(system, path string) *Inspector {
	return &Inspector{system: system, path: path}
}

func (i *Inspector) Name() string {
	return i.system
}

func (i *Inspector) Inspect(ctx context.Context) (*source.InspectionResult, error) {
	f, err := os.Open(i.path)
	if err != nil {
		return nil, fmt.Errorf("open %s counts: %w", i.system, err)
	}
	defer f.Close()

	tables, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s counts %s: %w", i.system, i.path, err)
	}

	ctxlog.FromContext(ctx).Debug("Loaded record counts.",
		"system", i.system, "path", i.path, "tables", len(tables))

	return &source.InspectionResult{
		System: i.system,
		Tables: tables,
	}, nil
}

// Parse reads count records from r. The header must name table_name and
// record_count; column order is free and other columns are ignored.
func Parse(r io.Reader) ([]source.TableInfo, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	nameIdx, countIdx := -1, -1
	for idx, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case ColumnTableName:
			nameIdx = idx
		case ColumnRecordCount:
			countIdx = idx
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnTableName)
	}
	if countIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColumnRecordCount)
	}

	var tables []source.TableInfo
	seen := map[string]struct{}{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if nameIdx >= len(rec) || countIdx >= len(rec) {
			return nil, fmt.Errorf("line %d: expected at least %d fields, got %d",
				line, max(nameIdx, countIdx)+1, len(rec))
		}

		name := strings.TrimSpace(rec[nameIdx])
		if name == "" {
			return nil, fmt.Errorf("line %d: %w", line, ErrEmptyTableName)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("line %d: %w: %s", line, ErrDuplicateTable, name)
		}
		seen[name] = struct{}{}

		raw := strings.TrimSpace(rec[countIdx])
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("line %d: %w for table %s: %q", line, ErrInvalidCount, name, raw)
		}

		tables = append(tables, source.TableInfo{Name: name, RowCount: count})
	}
	return tables, nil
}
