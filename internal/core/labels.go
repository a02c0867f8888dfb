// Package core defines core types.
package core

// Labels represents key-value metadata attached by parsers.
type Labels map[string]string

// Label naming constants following {protocol}.{field} convention.
const (
	LabelSNMPVersion      = "snmp.version"
	LabelSNMPPduType      = "snmp.pdu_type"
	LabelSNMPCommunity    = "snmp.community"
	LabelSNMPSecurityUser = "snmp.security_user" // SNMPv3 USM user name
	LabelSNMPEncrypted    = "snmp.encrypted"     // "true" when the scoped PDU is encrypted
	LabelSNMPTxID         = "snmp.tx_id"         // External (0-based) transaction ID
	LabelSNMPEvents       = "snmp.events"        // Comma-separated anomaly event names
	LabelSNMPErrorStatus  = "snmp.error_status"
	LabelSNMPTrapType     = "snmp.trap_type" // SNMPv1 generic trap type
)
