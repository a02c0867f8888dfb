package plugin

import (
	"context"

	"firestige.xyz/ninox/internal/core"
)

// Reporter delivers per-transaction output records to a sink.
type Reporter interface {
	// Name returns the plugin name.
	Name() string

	// Init prepares the reporter with its configuration.
	Init(config map[string]any) error

	// Start and Stop bracket the reporter's lifecycle.
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// Report delivers one record. Implementations may buffer; Stop
	// flushes whatever is pending.
	Report(ctx context.Context, rec *core.OutputRecord) error
}
