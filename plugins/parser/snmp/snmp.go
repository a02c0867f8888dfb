// Package snmp implements the SNMP parser plugin. It binds the session
// tracker to the host pipeline: protocol probing per direction, per-flow
// session lookup, and label extraction for reporters.
package snmp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"firestige.xyz/ninox/internal/core"
	"firestige.xyz/ninox/internal/snmp"
	"firestige.xyz/ninox/internal/snmp/codec"
	"firestige.xyz/ninox/pkg/plugin"
)

const (
	defaultSessionTTL = 5 * time.Minute
	defaultCleanup    = 1 * time.Minute

	protoUDP = 17
)

var defaultPorts = []uint16{161, 162}

var _ plugin.Parser = (*Parser)(nil)

// Parser tracks SNMP sessions per flow.
type Parser struct {
	name     string
	ports    map[uint16]struct{}
	sessions *cache.Cache // flow key → *snmp.Session
}

// NewParser creates a new SNMP parser with default ports and TTL.
func NewParser() *Parser {
	p := &Parser{
		name:  "snmp",
		ports: make(map[uint16]struct{}),
	}
	for _, port := range defaultPorts {
		p.ports[port] = struct{}{}
	}
	p.setSessionTTL(defaultSessionTTL)
	return p
}

func (p *Parser) setSessionTTL(ttl time.Duration) {
	c := cache.New(ttl, defaultCleanup)
	// UDP has no teardown signal; eviction is the flow-end event.
	c.OnEvicted(func(_ string, v any) {
		v.(*snmp.Session).Close()
	})
	p.sessions = c
}

// Name returns the plugin name.
func (p *Parser) Name() string {
	return p.name
}

// Init applies plugin configuration: "ports" ([]int) and "session_ttl"
// (duration string).
func (p *Parser) Init(config map[string]any) error {
	if ports, ok := config["ports"].([]int); ok && len(ports) > 0 {
		p.ports = make(map[uint16]struct{}, len(ports))
		for _, port := range ports {
			if port <= 0 || port > 0xffff {
				return fmt.Errorf("%w: snmp port %d out of range", core.ErrConfigInvalid, port)
			}
			p.ports[uint16(port)] = struct{}{}
		}
	}
	if raw, ok := config["session_ttl"].(string); ok && raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: session_ttl: %v", core.ErrConfigInvalid, err)
		}
		p.setSessionTTL(ttl)
	}
	return nil
}

// Start starts the parser.
func (p *Parser) Start(ctx context.Context) error {
	return nil
}

// Stop closes all tracked sessions.
func (p *Parser) Stop(ctx context.Context) error {
	for _, item := range p.sessions.Items() {
		item.Object.(*snmp.Session).Close()
	}
	p.sessions.Flush()
	return nil
}

// CanHandle checks whether this packet is likely SNMP: a known service
// port, or a payload whose envelope probes as SNMP.
func (p *Parser) CanHandle(pkt *core.DecodedPacket) bool {
	if pkt.Transport.Protocol != protoUDP {
		return false
	}
	if p.isServicePort(pkt.Transport.SrcPort) || p.isServicePort(pkt.Transport.DstPort) {
		return true
	}
	res, _ := snmp.Probe(pkt.Payload)
	return res == snmp.ProbeDetected
}

// Handle feeds one packet into its flow's session and returns the created
// transaction with label annotations. A decode failure is returned as an
// error; the session stays usable.
func (p *Parser) Handle(pkt *core.DecodedPacket) (any, core.Labels, error) {
	sess := p.sessionFor(pkt)
	dir := p.direction(pkt)

	if err := sess.Parse(pkt.Payload, dir); err != nil {
		return nil, nil, fmt.Errorf("snmp parse failed: %w", err)
	}

	// Parse appended exactly one transaction; its external ID is Count()-1.
	tx, ok := sess.GetByID(sess.Count() - 1)
	if !ok {
		return nil, nil, core.ErrTxNotFound
	}
	return tx, p.labels(tx), nil
}

// direction treats packets addressed to a service port as client→server.
func (p *Parser) direction(pkt *core.DecodedPacket) snmp.Direction {
	if p.isServicePort(pkt.Transport.DstPort) {
		return snmp.DirToServer
	}
	if p.isServicePort(pkt.Transport.SrcPort) {
		return snmp.DirToClient
	}
	return snmp.DirToServer
}

func (p *Parser) isServicePort(port uint16) bool {
	_, ok := p.ports[port]
	return ok
}

// sessionFor returns the flow's session, creating it on first sight.
// Touching the cache also refreshes the TTL.
func (p *Parser) sessionFor(pkt *core.DecodedPacket) *snmp.Session {
	key := flowKey(pkt)
	if v, found := p.sessions.Get(key); found {
		p.sessions.SetDefault(key, v)
		return v.(*snmp.Session)
	}
	sess := snmp.NewSession()
	p.sessions.SetDefault(key, sess)
	return sess
}

// RangeSessions iterates over all live sessions. f returns false to stop.
func (p *Parser) RangeSessions(f func(flow string, sess *snmp.Session) bool) {
	for key, item := range p.sessions.Items() {
		if !f(key, item.Object.(*snmp.Session)) {
			return
		}
	}
}

// flowKey builds a direction-independent 5-tuple key so both directions of
// a conversation share one session. The lower endpoint sorts first.
func flowKey(pkt *core.DecodedPacket) string {
	a := endpoint(pkt.IP.SrcIP.String(), pkt.Transport.SrcPort)
	b := endpoint(pkt.IP.DstIP.String(), pkt.Transport.DstPort)
	if a > b {
		a, b = b, a
	}
	return a + "<->" + b
}

func endpoint(ip string, port uint16) string {
	return ip + ":" + strconv.Itoa(int(port))
}

func (p *Parser) labels(tx *snmp.Transaction) core.Labels {
	labels := core.Labels{
		core.LabelSNMPVersion: tx.Version.String(),
		core.LabelSNMPTxID:    strconv.FormatUint(tx.ID(), 10),
	}
	if tx.Summary != nil {
		labels[core.LabelSNMPPduType] = tx.Summary.Type.String()
		// Bulk PDUs reuse the error fields as non-repeaters/max-repetitions,
		// so no error status exists for them.
		switch {
		case tx.Summary.Trap != nil:
			labels[core.LabelSNMPTrapType] = strconv.Itoa(int(tx.Summary.Trap.Type))
		case tx.Summary.Type != codec.GetBulkRequest:
			labels[core.LabelSNMPErrorStatus] = strconv.Itoa(int(tx.Summary.ErrorStatus))
		}
	}
	if tx.Community != "" {
		labels[core.LabelSNMPCommunity] = tx.Community
	}
	if tx.SecurityUser != "" {
		labels[core.LabelSNMPSecurityUser] = tx.SecurityUser
	}
	if tx.Encrypted {
		labels[core.LabelSNMPEncrypted] = "true"
	}
	if events := tx.Events(); len(events) > 0 {
		names := make([]string, 0, len(events))
		for _, e := range events {
			names = append(names, e.String())
		}
		labels[core.LabelSNMPEvents] = strings.Join(names, ",")
	}
	return labels
}
