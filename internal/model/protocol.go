package model

import (
	"fmt"
	"strings"
)

// Protocol identifies the pool family a snapshot belongs to.
type Protocol string

const (
	ProtocolV2 Protocol = "V2"
	ProtocolV3 Protocol = "V3"
)

// Prefix returns the lowercase prefix used in snapshot file names.
func (p Protocol) Prefix() string {
	return strings.ToLower(string(p))
}

// Valid reports whether p is one of the known protocols.
func (p Protocol) Valid() bool {
	return p == ProtocolV2 || p == ProtocolV3
}

// ParseProtocol accepts "v2"/"v3" in any case.
func ParseProtocol(input string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "v2":
		return ProtocolV2, nil
	case "v3":
		return ProtocolV3, nil
	default:
		return "", fmt.Errorf("unsupported protocol: %q", input)
	}
}
