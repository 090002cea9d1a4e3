package publish

import (
	"context"

	"github.com/alexanderjulianmartinez/countcheck/internal/drift"
)

// Publisher ships a finished comparison to a downstream system.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, rep *drift.Report) error
	Close() error
}
