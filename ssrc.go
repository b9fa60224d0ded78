package jingle

import (
	"github.com/iotum/lib-jitsi-meet/internal/sdputil"
)

// SSRCEntry is one synchronization source and the raw attribute lines
// describing it, in declaration order.
type SSRCEntry struct {
	ID    uint32
	Lines []string
}

// Parameter returns the value of the named source parameter, e.g. "msid"
// or "cname".
func (e *SSRCEntry) Parameter(name string) (string, bool) {
	for _, line := range e.Lines {
		ssrc, err := sdputil.ParseSSRC(line)
		if err != nil {
			continue
		}
		if ssrc.Attribute == name {
			return ssrc.Value, true
		}
	}
	return "", false
}

// MediaSSRCs is the source inventory of one media section.
type MediaSSRCs struct {
	Index     int
	MediaType string
	MID       string
	SSRCs     []*SSRCEntry
	Groups    []*sdputil.SSRCGroup
}

// ContainsSSRC reports whether the section declares the source.
func (m *MediaSSRCs) ContainsSSRC(ssrc uint32) bool {
	return m.entry(ssrc) != nil
}

func (m *MediaSSRCs) entry(ssrc uint32) *SSRCEntry {
	for _, e := range m.SSRCs {
		if e.ID == ssrc {
			return e
		}
	}
	return nil
}

// sectionSSRCs collects the section's sources (same-id lines grouped into
// one entry, declaration order preserved) and source groups. Unparsable
// lines are skipped.
func (d *SessionDescription) sectionSSRCs(m *MediaSection) ([]*SSRCEntry, []*sdputil.SSRCGroup) {
	var entries []*SSRCEntry
	find := func(id uint32) *SSRCEntry {
		for _, e := range entries {
			if e.ID == id {
				return e
			}
		}
		return nil
	}
	for _, line := range m.FindLines("a=ssrc:") {
		ssrc, err := sdputil.ParseSSRC(line)
		if err != nil {
			d.log.Warnf("skipping ssrc line: %v", err)
			continue
		}
		entry := find(ssrc.ID)
		if entry == nil {
			entry = &SSRCEntry{ID: ssrc.ID}
			entries = append(entries, entry)
		}
		entry.Lines = append(entry.Lines, line)
	}

	var groups []*sdputil.SSRCGroup
	for _, line := range m.FindLines("a=ssrc-group:") {
		group, err := sdputil.ParseSSRCGroup(line)
		if err != nil {
			d.log.Warnf("skipping ssrc-group line: %v", err)
			continue
		}
		groups = append(groups, group)
	}
	return entries, groups
}

// SSRCInventory collects, per media section, the sources and source groups
// the description declares, keyed by section index.
func (d *SessionDescription) SSRCInventory() map[int]*MediaSSRCs {
	inventory := make(map[int]*MediaSSRCs, len(d.media))
	for i, m := range d.media {
		entries, groups := d.sectionSSRCs(m)
		inventory[i] = &MediaSSRCs{
			Index:     i,
			MediaType: m.Type(),
			MID:       m.Mid(),
			SSRCs:     entries,
			Groups:    groups,
		}
	}
	return inventory
}

// ContainsSSRC reports whether any media section declares the source.
func (d *SessionDescription) ContainsSSRC(ssrc uint32) bool {
	for _, info := range d.SSRCInventory() {
		if info.ContainsSSRC(ssrc) {
			return true
		}
	}
	return false
}
