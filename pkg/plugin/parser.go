// Package plugin defines the contracts between the host pipeline and
// protocol inspectors.
package plugin

import (
	"context"

	"firestige.xyz/ninox/internal/core"
)

// Parser inspects application-layer protocols.
type Parser interface {
	// Name returns the plugin name.
	Name() string

	// Init prepares the parser with its configuration.
	Init(config map[string]any) error

	// Start and Stop bracket the parser's lifecycle.
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	// CanHandle checks whether this packet likely belongs to the parser's
	// protocol. It must be cheap; it runs during protocol detection.
	CanHandle(pkt *core.DecodedPacket) bool

	// Handle parses one packet and returns the structured payload plus
	// label annotations.
	Handle(pkt *core.DecodedPacket) (payload any, labels core.Labels, err error)
}
