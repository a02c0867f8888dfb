package console

import (
	"bytes"
	"context"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"firestige.xyz/ninox/internal/core"
)

func sampleRecord() *core.OutputRecord {
	return &core.OutputRecord{
		Timestamp: time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC),
		SrcIP:     netip.MustParseAddr("10.0.0.5"),
		DstIP:     netip.MustParseAddr("10.0.0.1"),
		SrcPort:   54321,
		DstPort:   161,
		Protocol:  17,
		Labels: core.Labels{
			core.LabelSNMPVersion:   "v2c",
			core.LabelSNMPCommunity: "public",
		},
		PayloadType: "snmp.transaction",
	}
}

func TestReportText(t *testing.T) {
	r := NewReporter()
	var buf bytes.Buffer
	r.SetOutput(&buf)

	require.NoError(t, r.Report(context.Background(), sampleRecord()))

	out := buf.String()
	assert.Contains(t, out, "10.0.0.5:54321 -> 10.0.0.1:161")
	assert.Contains(t, out, "snmp.transaction")
	assert.Contains(t, out, "snmp.community=public")
	assert.Contains(t, out, "snmp.version=v2c")
}

func TestReportYAML(t *testing.T) {
	r := NewReporter()
	require.NoError(t, r.Init(map[string]any{"format": "yaml"}))
	var buf bytes.Buffer
	r.SetOutput(&buf)

	require.NoError(t, r.Report(context.Background(), sampleRecord()))

	var decoded struct {
		SrcIP  string            `yaml:"src_ip"`
		Type   string            `yaml:"type"`
		Labels map[string]string `yaml:"labels"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "10.0.0.5", decoded.SrcIP)
	assert.Equal(t, "snmp.transaction", decoded.Type)
	assert.Equal(t, "public", decoded.Labels["snmp.community"])
}

func TestInitRejectsUnknownFormat(t *testing.T) {
	r := NewReporter()
	assert.ErrorIs(t, r.Init(map[string]any{"format": "xml"}), core.ErrConfigInvalid)
}

func TestReportNilRecord(t *testing.T) {
	r := NewReporter()
	assert.Error(t, r.Report(context.Background(), nil))
}
