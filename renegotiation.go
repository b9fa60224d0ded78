package jingle

import (
	"fmt"
	"strconv"
	"strings"
)

// AddMediaSectionForSource appends a receive-only media section for a new
// local source of the given media type. The section is cloned from the
// first existing section of that type, with its mid set to the new
// section's index and its msid/ssrc/ssrc-group state cleared, and every
// bundle group line is regenerated to cover the live sections.
func (d *SessionDescription) AddMediaSectionForSource(mediaType string) error {
	var template *MediaSection
	for _, m := range d.media {
		if m.Type() == mediaType {
			template = m
			break
		}
	}
	if template == nil {
		return fmt.Errorf("%w: %s", ErrMediaSectionNotFound, mediaType)
	}

	mid := strconv.Itoa(len(d.media))
	lines := make([]string, 0, len(template.lines))
	replacedDirection := false
	for _, line := range template.lines {
		switch {
		case strings.HasPrefix(line, "a=ssrc:"),
			strings.HasPrefix(line, "a=ssrc-group:"),
			strings.HasPrefix(line, "a=msid:"):
			continue
		case strings.HasPrefix(line, "a=mid:"):
			lines = append(lines, "a=mid:"+mid)
		case isDirectionLine(line):
			if !replacedDirection {
				lines = append(lines, "a="+DirectionRecvOnly.String())
				replacedDirection = true
			}
		default:
			lines = append(lines, line)
		}
	}
	if !replacedDirection {
		lines = append(lines, "a="+DirectionRecvOnly.String())
	}

	section, err := newMediaSection(lines)
	if err != nil {
		return err
	}
	d.media = append(d.media, section)
	d.rebuildBundleGroups()
	return nil
}

func isDirectionLine(line string) bool {
	switch line {
	case "a=" + directionSendRecvStr,
		"a=" + directionSendOnlyStr,
		"a=" + directionRecvOnlyStr,
		"a=" + directionInactiveStr:
		return true
	}
	return false
}

// rebuildBundleGroups regenerates the mid list of every group line from
// the live media sections. Groups are never patched incrementally; a stale
// mid list would desynchronize bundling from the actual sections.
func (d *SessionDescription) rebuildBundleGroups() {
	mids := make([]string, 0, len(d.media))
	for _, m := range d.media {
		if mid := m.Mid(); mid != "" {
			mids = append(mids, mid)
		}
	}
	for i, line := range d.header {
		if !strings.HasPrefix(line, "a=group:") {
			continue
		}
		semantics := strings.TrimPrefix(line, "a=group:")
		if cut := strings.Index(semantics, " "); cut >= 0 {
			semantics = semantics[:cut]
		}
		d.header[i] = "a=group:" + semantics + " " + strings.Join(mids, " ")
	}
}
