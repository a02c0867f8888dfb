package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/spf13/cobra"

	"firestige.xyz/ninox/internal/config"
	"firestige.xyz/ninox/internal/core"
	"firestige.xyz/ninox/internal/log"
	"firestige.xyz/ninox/internal/snmp"
	"firestige.xyz/ninox/pkg/plugin"
	snmpparser "firestige.xyz/ninox/plugins/parser/snmp"
	"firestige.xyz/ninox/plugins/reporter/console"
)

var outputFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <pcap-file>",
	Short: "Inspect SNMP traffic in a pcap file",
	Long: `Analyze reads a capture file, feeds UDP payloads through SNMP
protocol detection and parsing, and reports every tracked transaction
with its labels and anomaly events.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&outputFormat, "output", "o", "text",
		"output format: text or yaml")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := log.Init(cfg.Log); err != nil {
		return err
	}
	logger := log.GetLogger()
	ctx := cmd.Context()

	parser := snmpparser.NewParser()
	if err := parser.Init(parserConfig(cfg)); err != nil {
		return err
	}
	if err := parser.Start(ctx); err != nil {
		return err
	}
	defer parser.Stop(ctx) //nolint:errcheck

	sink := console.NewReporter()
	sink.SetOutput(cmd.OutOrStdout())
	var reporter plugin.Reporter = sink
	if err := reporter.Init(map[string]any{"format": outputFormat}); err != nil {
		return err
	}
	if err := reporter.Start(ctx); err != nil {
		return err
	}
	defer reporter.Stop(ctx) //nolint:errcheck

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	reader, err := pcapgo.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read capture: %w", err)
	}

	var packets, handled, failed int
	for {
		data, ci, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read packet: %w", err)
		}
		packets++

		pkt, ok := decodePacket(data, reader.LinkType(), ci)
		if !ok || !parser.CanHandle(pkt) {
			continue
		}
		handled++

		payload, labels, err := parser.Handle(pkt)
		if err != nil {
			failed++
			logger.WithError(err).Debug("packet not parsed")
			continue
		}
		if err := reporter.Report(ctx, outputRecord(pkt, payload, labels)); err != nil {
			return err
		}
	}

	logger.WithFields(map[string]interface{}{
		"packets": packets,
		"snmp":    handled,
		"failed":  failed,
	}).Info("analysis finished")

	logFlowSummaries(parser, logger)
	return nil
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.Load(configFile)
}

func parserConfig(cfg *config.Config) map[string]any {
	ports := make([]int, 0, len(cfg.Inspector.Ports))
	for _, p := range cfg.Inspector.Ports {
		ports = append(ports, int(p))
	}
	return map[string]any{
		"ports":       ports,
		"session_ttl": cfg.Inspector.SessionTTL.String(),
	}
}

func outputRecord(pkt *core.DecodedPacket, payload any, labels core.Labels) *core.OutputRecord {
	return &core.OutputRecord{
		Timestamp:   pkt.Timestamp,
		SrcIP:       pkt.IP.SrcIP,
		DstIP:       pkt.IP.DstIP,
		SrcPort:     pkt.Transport.SrcPort,
		DstPort:     pkt.Transport.DstPort,
		Protocol:    pkt.Transport.Protocol,
		Labels:      labels,
		PayloadType: "snmp.transaction",
		Payload:     payload,
	}
}

// decodePacket extracts the L3/L4 headers and UDP payload from one frame.
func decodePacket(data []byte, linkType layers.LinkType, ci gopacket.CaptureInfo) (*core.DecodedPacket, bool) {
	packet := gopacket.NewPacket(data, linkType, gopacket.Default)

	udpLayer := packet.Layer(layers.LayerTypeUDP)
	if udpLayer == nil {
		return nil, false
	}
	udp := udpLayer.(*layers.UDP)

	pkt := &core.DecodedPacket{
		Timestamp: ci.Timestamp,
		Transport: core.TransportHeader{
			SrcPort:  uint16(udp.SrcPort),
			DstPort:  uint16(udp.DstPort),
			Protocol: 17,
		},
		Payload: udp.Payload,
	}

	switch ipLayer := packet.NetworkLayer().(type) {
	case *layers.IPv4:
		pkt.IP.Version = 4
		pkt.IP.SrcIP, _ = netip.AddrFromSlice(ipLayer.SrcIP)
		pkt.IP.DstIP, _ = netip.AddrFromSlice(ipLayer.DstIP)
		pkt.IP.Protocol = uint8(ipLayer.Protocol)
		pkt.IP.TTL = ipLayer.TTL
	case *layers.IPv6:
		pkt.IP.Version = 6
		pkt.IP.SrcIP, _ = netip.AddrFromSlice(ipLayer.SrcIP)
		pkt.IP.DstIP, _ = netip.AddrFromSlice(ipLayer.DstIP)
		pkt.IP.Protocol = uint8(ipLayer.NextHeader)
	default:
		return nil, false
	}
	return pkt, true
}

// logFlowSummaries walks every session through the transaction iterator
// and logs one line per flow.
func logFlowSummaries(parser *snmpparser.Parser, logger log.Logger) {
	parser.RangeSessions(func(flow string, sess *snmp.Session) bool {
		var live, anomalies int
		var cursor snmp.Cursor
		for {
			tx, _, _ := sess.NextTx(0, &cursor)
			if tx == nil {
				break
			}
			live++
			anomalies += len(tx.Events())
		}
		logger.WithFields(map[string]interface{}{
			"flow":         flow,
			"version":      sess.Version().String(),
			"transactions": sess.Count(),
			"live":         live,
			"anomalies":    anomalies,
		}).Info("flow summary")
		return true
	})
}
