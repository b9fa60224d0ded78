package jingle

import (
	"strings"

	"github.com/pion/logging"

	"github.com/iotum/lib-jitsi-meet/internal/sdputil"
)

// Options configures a SessionDescription. The zero value is usable.
type Options struct {
	// DirectConnection marks a peer-to-peer session. Direct connections
	// name jingle contents by mid instead of by media type.
	DirectConnection bool

	// RemoveTCPCandidates drops every tcp and ssltcp candidate when
	// converting in either direction.
	RemoveTCPCandidates bool

	// RemoveUDPCandidates drops every udp candidate when converting in
	// either direction.
	RemoveUDPCandidates bool

	// FailICE rewrites every candidate address to a sentinel that can
	// never connect. Used to inject ICE failures in tests.
	FailICE bool

	// InitialLastN advertises the initial last-n value on newly created
	// video contents. Only values greater than zero are advertised.
	InitialLastN int

	// RIDSupported reports whether the active media engine supports
	// rid-based simulcast. Rid sources are only signaled when it returns
	// true. A nil predicate counts as unsupported.
	RIDSupported func() bool

	// LoggerFactory customizes logging. Defaults to the pion default
	// factory.
	LoggerFactory logging.LoggerFactory
}

// SessionDescription is the line-oriented model of one SDP document: the
// session header and an ordered list of media sections. It is built either
// by Unmarshal from SDP text or by FromJingle from a signaling stanza, and
// is not safe for concurrent use.
type SessionDescription struct {
	opts   Options
	header []string
	media  []*MediaSection

	log logging.LeveledLogger
}

// NewSessionDescription creates an empty SessionDescription.
func NewSessionDescription(opts Options) *SessionDescription {
	loggerFactory := opts.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	return &SessionDescription{
		opts: opts,
		log:  loggerFactory.NewLogger("jingle"),
	}
}

// Unmarshal replaces the model's content with the parsed form of raw SDP
// text. Lines the translator does not understand are kept verbatim and
// survive Marshal unchanged.
func (d *SessionDescription) Unmarshal(raw string) error {
	lines := splitLines(raw)

	d.header = nil
	d.media = nil

	var current []string
	inMedia := false
	for _, line := range lines {
		if strings.HasPrefix(line, "m=") {
			if inMedia {
				section, err := newMediaSection(current)
				if err != nil {
					return err
				}
				d.media = append(d.media, section)
			}
			current = []string{line}
			inMedia = true
			continue
		}
		if inMedia {
			current = append(current, line)
		} else {
			d.header = append(d.header, line)
		}
	}
	if inMedia {
		section, err := newMediaSection(current)
		if err != nil {
			return err
		}
		d.media = append(d.media, section)
	}
	return nil
}

// Marshal re-serializes the whole document: header first, then every media
// section in order, CRLF terminated.
func (d *SessionDescription) Marshal() string {
	var b strings.Builder
	for _, line := range d.header {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	for _, m := range d.media {
		for _, line := range m.lines {
			b.WriteString(line)
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

// MediaSections returns the ordered media sections.
func (d *SessionDescription) MediaSections() []*MediaSection {
	return d.media
}

// BundleGroup is one parsed a=group line from the session header.
type BundleGroup struct {
	Semantics string
	MIDs      []string
}

// BundleGroups parses every a=group line in the session header.
func (d *SessionDescription) BundleGroups() []BundleGroup {
	var groups []BundleGroup
	for _, line := range sdputil.FindLines(d.header, "a=group:") {
		value := strings.TrimPrefix(line, "a=group:")
		parts := strings.Split(value, " ")
		group := BundleGroup{Semantics: parts[0]}
		for _, mid := range parts[1:] {
			if mid != "" {
				group.MIDs = append(group.MIDs, mid)
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// MediaSection is one media block: the m= line and every line up to the
// next m= line. Its identity is its position in the session, not its mid.
type MediaSection struct {
	mline *sdputil.MLine
	lines []string
}

func newMediaSection(lines []string) (*MediaSection, error) {
	mline, err := sdputil.ParseMLine(lines[0])
	if err != nil {
		return nil, err
	}
	return &MediaSection{mline: mline, lines: lines}, nil
}

// Type returns the section's media type (audio, video, application).
func (m *MediaSection) Type() string {
	return m.mline.Media
}

// Port returns the section's media port. Zero signals a rejected or
// bundle-only section.
func (m *MediaSection) Port() int {
	return m.mline.Port
}

// Formats returns the section's declared payload format identifiers.
func (m *MediaSection) Formats() []string {
	return m.mline.Formats
}

// Mid returns the section's mid, or "" when no mid line is present.
func (m *MediaSection) Mid() string {
	line, ok := m.FindLine("a=mid:")
	if !ok {
		return ""
	}
	return sdputil.ParseMID(line)
}

// FindLine returns the section's first line with the given prefix.
func (m *MediaSection) FindLine(prefix string) (string, bool) {
	return sdputil.FindLine(m.lines, prefix)
}

// FindLines returns every section line with the given prefix.
func (m *MediaSection) FindLines(prefix string) []string {
	return sdputil.FindLines(m.lines, prefix)
}

// HasLine reports whether the section contains the exact line.
func (m *MediaSection) HasLine(line string) bool {
	for _, l := range m.lines {
		if l == line {
			return true
		}
	}
	return false
}

// Lines returns the section's raw lines, m= line included.
func (m *MediaSection) Lines() []string {
	return m.lines
}

// direction returns the section's direction per the marker priority
// sendonly, recvonly, sendrecv, inactive.
func (m *MediaSection) direction() Direction {
	for _, dir := range []Direction{
		DirectionSendOnly,
		DirectionRecvOnly,
		DirectionSendRecv,
		DirectionInactive,
	} {
		if m.HasLine("a=" + dir.String()) {
			return dir
		}
	}
	return Direction(Unknown)
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
