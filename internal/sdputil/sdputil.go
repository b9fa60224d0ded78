// Package sdputil implements parsing and building of the individual SDP
// attribute line syntaxes the translator touches. Every function is pure:
// it reads or produces one line and keeps no state.
package sdputil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidLine indicates a line that does not match the expected
	// syntax for its attribute kind.
	ErrInvalidLine = errors.New("invalid attribute line")
)

// FindLine returns the first line in haystack with the given prefix.
func FindLine(haystack []string, prefix string) (string, bool) {
	for _, line := range haystack {
		if strings.HasPrefix(line, prefix) {
			return line, true
		}
	}
	return "", false
}

// FindLines returns every line in haystack with the given prefix.
func FindLines(haystack []string, prefix string) []string {
	var lines []string
	for _, line := range haystack {
		if strings.HasPrefix(line, prefix) {
			lines = append(lines, line)
		}
	}
	return lines
}

// FindLineWithFallback searches the media section first and the session
// header second. ICE credentials and fingerprints may live at either level.
func FindLineWithFallback(section, session []string, prefix string) (string, bool) {
	if line, ok := FindLine(section, prefix); ok {
		return line, true
	}
	return FindLine(session, prefix)
}

func stripPrefix(line, prefix string) string {
	return strings.TrimPrefix(line, prefix)
}

// MLine is a parsed media line (m=).
type MLine struct {
	Media   string
	Port    int
	Proto   string
	Formats []string
}

// ParseMLine parses "m=<media> <port> <proto> <fmt> ...".
func ParseMLine(line string) (*MLine, error) {
	parts := strings.Split(stripPrefix(line, "m="), " ")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad port in %q", ErrInvalidLine, line)
	}
	m := &MLine{Media: parts[0], Port: port, Proto: parts[2]}
	for _, f := range parts[3:] {
		if f != "" {
			m.Formats = append(m.Formats, f)
		}
	}
	return m, nil
}

// Marshal builds the media line, including the "m=" prefix.
func (m *MLine) Marshal() string {
	parts := append([]string{m.Media, strconv.Itoa(m.Port), m.Proto}, m.Formats...)
	return "m=" + strings.Join(parts, " ")
}

// RTPMap is a parsed payload format mapping (a=rtpmap).
type RTPMap struct {
	ID        string
	Name      string
	ClockRate string
	Channels  string
}

// ParseRTPMap parses "a=rtpmap:<id> <name>/<clockrate>[/<channels>]".
func ParseRTPMap(line string) (*RTPMap, error) {
	value := stripPrefix(line, "a=rtpmap:")
	id, rest, found := strings.Cut(value, " ")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	codec := strings.Split(rest, "/")
	r := &RTPMap{ID: id, Name: codec[0]}
	if len(codec) > 1 {
		r.ClockRate = codec[1]
	}
	if len(codec) > 2 {
		r.Channels = codec[2]
	}
	return r, nil
}

// Marshal builds the rtpmap line, including the "a=" prefix.
func (r *RTPMap) Marshal() string {
	line := "a=rtpmap:" + r.ID + " " + r.Name + "/" + r.ClockRate
	if r.Channels != "" && r.Channels != "1" {
		line += "/" + r.Channels
	}
	return line
}

// Parameter is a single name=value pair from a fmtp line or a payload-type
// parameter element. Name may be empty for bare values such as the old
// "a=fmtp:101 0-15" telephone-event form.
type Parameter struct {
	Name  string
	Value string
}

// ParseFmtp parses "a=fmtp:<id> <name>=<value>;<name>=<value>...".
func ParseFmtp(line string) (string, []Parameter, error) {
	value := stripPrefix(line, "a=fmtp:")
	id, rest, found := strings.Cut(value, " ")
	if !found {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	var params []Parameter
	for _, p := range strings.Split(rest, ";") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, val, hasName := strings.Cut(p, "=")
		if !hasName {
			params = append(params, Parameter{Value: name})
			continue
		}
		params = append(params, Parameter{Name: name, Value: val})
	}
	return id, params, nil
}

// BuildFmtp joins parameters with ";" into a fmtp line for the payload id.
func BuildFmtp(id string, params []Parameter) string {
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			pairs = append(pairs, p.Value)
			continue
		}
		pairs = append(pairs, p.Name+"="+p.Value)
	}
	return "a=fmtp:" + id + " " + strings.Join(pairs, ";")
}

// Feedback is a parsed RTCP feedback line (a=rtcp-fb). ID is the payload id
// the feedback applies to, or "*" for the whole description.
type Feedback struct {
	ID      string
	Type    string
	Subtype string
}

// ParseFeedback parses "a=rtcp-fb:<id> <type>[ <subtype>]".
func ParseFeedback(line string) (*Feedback, error) {
	value := stripPrefix(line, "a=rtcp-fb:")
	parts := strings.SplitN(value, " ", 3)
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	f := &Feedback{ID: parts[0], Type: parts[1]}
	if len(parts) > 2 {
		f.Subtype = parts[2]
	}
	return f, nil
}

// Marshal builds the feedback line, including the "a=" prefix.
func (f *Feedback) Marshal() string {
	line := "a=rtcp-fb:" + f.ID + " " + f.Type
	if f.Subtype != "" {
		line += " " + f.Subtype
	}
	return line
}

// Extmap is a parsed header extension mapping (a=extmap).
type Extmap struct {
	Value     string
	Direction string
	URI       string
	Params    string
}

// ParseExtmap parses "a=extmap:<value>[/<direction>] <uri> [params]".
func ParseExtmap(line string) (*Extmap, error) {
	value := stripPrefix(line, "a=extmap:")
	id, rest, found := strings.Cut(value, " ")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	e := &Extmap{}
	e.Value, e.Direction, _ = strings.Cut(id, "/")
	e.URI, e.Params, _ = strings.Cut(rest, " ")
	return e, nil
}

// Marshal builds the extmap line, including the "a=" prefix.
func (e *Extmap) Marshal() string {
	id := e.Value
	if e.Direction != "" {
		id += "/" + e.Direction
	}
	line := "a=extmap:" + id + " " + e.URI
	if e.Params != "" {
		line += " " + e.Params
	}
	return line
}

// Fingerprint is a parsed DTLS fingerprint line (a=fingerprint).
type Fingerprint struct {
	Hash  string
	Value string
}

// ParseFingerprint parses "a=fingerprint:<hash> <fingerprint>".
func ParseFingerprint(line string) (*Fingerprint, error) {
	value := stripPrefix(line, "a=fingerprint:")
	hash, fp, found := strings.Cut(value, " ")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	return &Fingerprint{Hash: hash, Value: fp}, nil
}

// Marshal builds the fingerprint line, including the "a=" prefix.
func (f *Fingerprint) Marshal() string {
	return "a=fingerprint:" + f.Hash + " " + f.Value
}

// SSRC is one parsed synchronization source line (a=ssrc). Value keeps
// everything after the attribute's colon verbatim, spaces included, so
// "msid:<stream> <track>" survives a round trip.
type SSRC struct {
	ID        uint32
	Attribute string
	Value     string
}

// ParseSSRC parses "a=ssrc:<id> <attribute>[:<value>]".
func ParseSSRC(line string) (*SSRC, error) {
	value := stripPrefix(line, "a=ssrc:")
	id, rest, found := strings.Cut(value, " ")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	ssrc, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: bad ssrc in %q", ErrInvalidLine, line)
	}
	s := &SSRC{ID: uint32(ssrc)}
	s.Attribute, s.Value, _ = strings.Cut(rest, ":")
	return s, nil
}

// Marshal builds the ssrc line, including the "a=" prefix.
func (s *SSRC) Marshal() string {
	line := "a=ssrc:" + strconv.FormatUint(uint64(s.ID), 10) + " " + s.Attribute
	if s.Value != "" {
		line += ":" + s.Value
	}
	return line
}

// SSRCGroup is a parsed source grouping line (a=ssrc-group).
type SSRCGroup struct {
	Semantics string
	SSRCs     []uint32
}

// ParseSSRCGroup parses "a=ssrc-group:<semantics> <ssrc> ...".
func ParseSSRCGroup(line string) (*SSRCGroup, error) {
	value := stripPrefix(line, "a=ssrc-group:")
	parts := strings.Split(value, " ")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	g := &SSRCGroup{Semantics: parts[0]}
	for _, p := range parts[1:] {
		ssrc, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad ssrc in %q", ErrInvalidLine, line)
		}
		g.SSRCs = append(g.SSRCs, uint32(ssrc))
	}
	return g, nil
}

// Marshal builds the ssrc-group line, including the "a=" prefix.
func (g *SSRCGroup) Marshal() string {
	parts := make([]string, 0, len(g.SSRCs)+1)
	parts = append(parts, g.Semantics)
	for _, ssrc := range g.SSRCs {
		parts = append(parts, strconv.FormatUint(uint64(ssrc), 10))
	}
	return "a=ssrc-group:" + strings.Join(parts, " ")
}

// RID is a parsed restriction identifier line (a=rid).
type RID struct {
	ID        string
	Direction string
	Params    string
}

// ParseRID parses "a=rid:<id> <direction>[ <params>]".
func ParseRID(line string) (*RID, error) {
	value := stripPrefix(line, "a=rid:")
	id, rest, found := strings.Cut(value, " ")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	r := &RID{ID: id}
	r.Direction, r.Params, _ = strings.Cut(rest, " ")
	return r, nil
}

// ParseSCTPPort parses "a=sctp-port:<port>".
func ParseSCTPPort(line string) (string, error) {
	port := stripPrefix(line, "a=sctp-port:")
	if port == "" || strings.Contains(port, " ") {
		return "", fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	return port, nil
}

// SCTPMap is a parsed legacy SCTP mapping line (a=sctpmap).
type SCTPMap struct {
	Port     string
	Protocol string
	Streams  int
}

// ParseSCTPMap parses "a=sctpmap:<port> <protocol>[ <streams>]". The stream
// count defaults to zero when absent.
func ParseSCTPMap(line string) (*SCTPMap, error) {
	value := stripPrefix(line, "a=sctpmap:")
	parts := strings.Split(value, " ")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLine, line)
	}
	m := &SCTPMap{Port: parts[0], Protocol: parts[1]}
	if len(parts) > 2 {
		streams, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("%w: bad stream count in %q", ErrInvalidLine, line)
		}
		m.Streams = streams
	}
	return m, nil
}

// ParseMID parses "a=mid:<mid>".
func ParseMID(line string) string {
	return stripPrefix(line, "a=mid:")
}
