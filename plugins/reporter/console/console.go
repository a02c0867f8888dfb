// Package console implements the console reporter. It prints one line (or
// one YAML document) per SNMP transaction, for interactive inspection.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"firestige.xyz/ninox/internal/core"
	"firestige.xyz/ninox/internal/log"
)

// Reporter writes output records to a writer, stdout by default.
type Reporter struct {
	name     string
	format   string // "text" or "yaml"
	out      io.Writer
	reported atomic.Uint64
}

// NewReporter creates a console reporter in text format.
func NewReporter() *Reporter {
	return &Reporter{
		name:   "console",
		format: "text",
		out:    os.Stdout,
	}
}

// Name returns the plugin name.
func (r *Reporter) Name() string {
	return r.name
}

// Init applies reporter configuration: "format" ("text" or "yaml").
func (r *Reporter) Init(config map[string]any) error {
	if format, ok := config["format"].(string); ok && format != "" {
		if format != "text" && format != "yaml" {
			return fmt.Errorf("%w: console format %q, must be text or yaml", core.ErrConfigInvalid, format)
		}
		r.format = format
	}
	return nil
}

// SetOutput redirects the reporter. Used by tests and by commands that
// write reports to a file.
func (r *Reporter) SetOutput(w io.Writer) {
	r.out = w
}

// Start starts the reporter.
func (r *Reporter) Start(ctx context.Context) error {
	return nil
}

// Stop logs the delivery count.
func (r *Reporter) Stop(ctx context.Context) error {
	log.GetLogger().WithField("reported", r.reported.Load()).Debug("console reporter stopped")
	return nil
}

// Report writes one record.
func (r *Reporter) Report(ctx context.Context, rec *core.OutputRecord) error {
	if rec == nil {
		return fmt.Errorf("console: nil record")
	}
	r.reported.Add(1)

	if r.format == "yaml" {
		return r.reportYAML(rec)
	}
	return r.reportText(rec)
}

// yamlRecord is the serializable shape of an output record. The typed
// payload is already flattened into the labels, so only the network
// context and labels are emitted.
type yamlRecord struct {
	Timestamp string            `yaml:"timestamp"`
	SrcIP     string            `yaml:"src_ip"`
	SrcPort   uint16            `yaml:"src_port"`
	DstIP     string            `yaml:"dst_ip"`
	DstPort   uint16            `yaml:"dst_port"`
	Protocol  uint8             `yaml:"protocol"`
	Type      string            `yaml:"type"`
	Labels    map[string]string `yaml:"labels,omitempty"`
}

func (r *Reporter) reportYAML(rec *core.OutputRecord) error {
	out, err := yaml.Marshal(yamlRecord{
		Timestamp: rec.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		SrcIP:     rec.SrcIP.String(),
		SrcPort:   rec.SrcPort,
		DstIP:     rec.DstIP.String(),
		DstPort:   rec.DstPort,
		Protocol:  rec.Protocol,
		Type:      rec.PayloadType,
		Labels:    rec.Labels,
	})
	if err != nil {
		return fmt.Errorf("console: yaml encode failed: %w", err)
	}
	_, err = fmt.Fprintf(r.out, "---\n%s", out)
	return err
}

func (r *Reporter) reportText(rec *core.OutputRecord) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s:%d -> %s:%d %s",
		rec.Timestamp.Format("15:04:05.000"),
		rec.SrcIP, rec.SrcPort,
		rec.DstIP, rec.DstPort,
		rec.PayloadType,
	)

	keys := make([]string, 0, len(rec.Labels))
	for k := range rec.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%s", k, rec.Labels[k])
	}

	_, err := fmt.Fprintln(r.out, sb.String())
	return err
}
