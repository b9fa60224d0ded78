package sdputil

import (
	"fmt"
	"strings"
)

// Candidate is a parsed ICE candidate line (a=candidate). All fields keep
// their wire form as strings; the translator only inspects Protocol and
// rewrites Address, everything else passes through.
type Candidate struct {
	Foundation string
	Component  string
	Protocol   string
	Priority   string
	Address    string
	Port       string
	Type       string
	RelAddr    string
	RelPort    string
	TCPType    string
	Generation string
}

// ParseCandidate parses
// "a=candidate:<foundation> <component> <protocol> <priority> <address>
// <port> typ <type> [raddr <addr>] [rport <port>] [tcptype <t>]
// [generation <g>]". Unknown trailing key/value pairs are ignored.
func ParseCandidate(line string) (*Candidate, error) {
	value := stripPrefix(line, "a=candidate:")
	parts := strings.Split(value, " ")
	if len(parts) < 8 || parts[6] != "typ" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	c := &Candidate{
		Foundation: parts[0],
		Component:  parts[1],
		Protocol:   strings.ToLower(parts[2]),
		Priority:   parts[3],
		Address:    parts[4],
		Port:       parts[5],
		Type:       parts[7],
	}
	for i := 8; i+1 < len(parts); i += 2 {
		switch parts[i] {
		case "raddr":
			c.RelAddr = parts[i+1]
		case "rport":
			c.RelPort = parts[i+1]
		case "tcptype":
			c.TCPType = parts[i+1]
		case "generation":
			c.Generation = parts[i+1]
		}
	}
	return c, nil
}

// Marshal builds the candidate line, including the "a=" prefix.
func (c *Candidate) Marshal() string {
	var b strings.Builder
	b.WriteString("a=candidate:")
	b.WriteString(c.Foundation + " " + c.Component + " " + c.Protocol + " " + c.Priority + " ")
	b.WriteString(c.Address + " " + c.Port + " typ " + c.Type)
	if c.RelAddr != "" {
		b.WriteString(" raddr " + c.RelAddr)
	}
	if c.RelPort != "" {
		b.WriteString(" rport " + c.RelPort)
	}
	if c.TCPType != "" {
		b.WriteString(" tcptype " + c.TCPType)
	}
	if c.Generation != "" {
		b.WriteString(" generation " + c.Generation)
	}
	return b.String()
}
