// Package core defines sentinel errors.
package core

import "errors"

var (
	// Packet handling errors
	ErrPacketTooShort = errors.New("ninox: packet too short")
	ErrNotSNMP        = errors.New("ninox: payload is not SNMP")

	// Session errors
	ErrMalformedMessage = errors.New("ninox: malformed SNMP message")
	ErrTxNotFound       = errors.New("ninox: transaction not found")

	// Plugin errors
	ErrPluginInitFailed = errors.New("ninox: plugin init failed")

	// Configuration errors
	ErrConfigInvalid = errors.New("ninox: invalid configuration")
)
