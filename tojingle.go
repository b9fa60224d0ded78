package jingle

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/pion/randutil"

	"github.com/iotum/lib-jitsi-meet/internal/sdputil"
)

const runesAlphaNum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var idGenerator = randutil.NewMathRandomGenerator() //nolint:gochecknoglobals

// ToJingle populates parent with one grouping element per bundle group and
// one content element per resolved content name. Sections sharing a
// content name contribute their sources into the first section's content.
// It returns the passed-in parent.
func (d *SessionDescription) ToJingle(parent *etree.Element, creator Creator) (*etree.Element, error) {
	for _, group := range d.BundleGroups() {
		groupEl := parent.CreateElement("group")
		groupEl.CreateAttr("xmlns", nsGrouping)
		groupEl.CreateAttr("semantics", group.Semantics)
		var names []string
		if d.opts.DirectConnection {
			for _, m := range d.media {
				names = append(names, m.Mid())
			}
		} else {
			names = []string{mediaTypeAudio, mediaTypeVideo, contentNameData}
		}
		for _, name := range names {
			groupEl.CreateElement("content").CreateAttr("name", name)
		}
	}

	for _, m := range d.media {
		if err := d.mediaToJingle(parent, m, creator); err != nil {
			return nil, err
		}
	}
	return parent, nil
}

func (d *SessionDescription) mediaToJingle(parent *etree.Element, m *MediaSection, creator Creator) error {
	mediaType := m.Type()
	if mediaType == "" {
		return fmt.Errorf("%w: %q", ErrInvalidMediaLine, m.lines[0])
	}

	name := mediaType
	if d.opts.DirectConnection {
		if mid := m.Mid(); mid != "" {
			name = mid
		}
	} else if mediaType == mediaTypeApplication {
		name = contentNameData
	}

	if existing := findContent(parent, name); existing != nil {
		if existing.SelectAttr("creator") == nil {
			// Contents without a creator are skipped entirely.
			return nil
		}
		d.appendSources(existing, m)
		return nil
	}

	content := parent.CreateElement("content")
	content.CreateAttr("creator", creator.String())
	content.CreateAttr("name", name)
	if senders := m.direction().Senders(); senders != Senders(Unknown) {
		content.CreateAttr("senders", senders.String())
	}

	if mediaType == mediaTypeVideo && d.opts.InitialLastN > 0 {
		lastN := content.CreateElement("initial-last-n")
		lastN.CreateAttr("xmlns", nsJitsi)
		lastN.CreateAttr("value", strconv.Itoa(d.opts.InitialLastN))
	}

	if mediaType == mediaTypeAudio || mediaType == mediaTypeVideo {
		d.descriptionToJingle(content, m)
	}

	d.transportToJingle(content, m)

	// A zero port without the bundle-only marker means the section was
	// rejected, whatever direction markers say.
	if m.Port() == 0 && !m.HasLine(attrBundleOnly) {
		content.CreateAttr("senders", SendersRejected.String())
	}
	return nil
}

func (d *SessionDescription) descriptionToJingle(content *etree.Element, m *MediaSection) {
	desc := content.CreateElement("description")
	desc.CreateAttr("xmlns", nsRTP)
	desc.CreateAttr("media", m.Type())

	for _, format := range m.Formats() {
		payload := desc.CreateElement("payload-type")
		payload.CreateAttr("id", format)
		if line, ok := m.FindLine("a=rtpmap:" + format + " "); ok {
			rtpmap, err := sdputil.ParseRTPMap(line)
			if err != nil {
				d.log.Warnf("skipping rtpmap line: %v", err)
			} else {
				payload.CreateAttr("name", rtpmap.Name)
				if rtpmap.ClockRate != "" {
					payload.CreateAttr("clockrate", rtpmap.ClockRate)
				}
				if rtpmap.Channels != "" {
					payload.CreateAttr("channels", rtpmap.Channels)
				}
			}
		}
		if line, ok := m.FindLine("a=fmtp:" + format + " "); ok {
			if _, params, err := sdputil.ParseFmtp(line); err == nil {
				for _, p := range params {
					param := payload.CreateElement("parameter")
					if p.Name != "" {
						param.CreateAttr("name", p.Name)
					}
					param.CreateAttr("value", p.Value)
				}
			}
		}
		d.feedbackToJingle(payload, m, format)
	}

	d.appendSources(content, m)

	if ridLines := m.FindLines("a=rid:"); len(ridLines) > 0 && d.ridSupported() {
		var rids []string
		for _, line := range ridLines {
			rid, err := sdputil.ParseRID(line)
			if err != nil {
				d.log.Warnf("skipping rid line: %v", err)
				continue
			}
			rids = append(rids, rid.ID)
		}
		for _, rid := range rids {
			source := desc.CreateElement("source")
			source.CreateAttr("xmlns", nsSSMA)
			source.CreateAttr("rid", rid)
		}
		if _, ok := m.FindLine("a=simulcast:"); ok && len(rids) > 0 {
			group := desc.CreateElement("rid-group")
			group.CreateAttr("xmlns", nsSSMA)
			group.CreateAttr("semantics", "SIM")
			for _, rid := range rids {
				group.CreateElement("source").CreateAttr("rid", rid)
			}
		}
	}

	if m.HasLine(attrRTCPMux) {
		desc.CreateElement("rtcp-mux")
	}

	d.feedbackToJingle(desc, m, "*")

	for _, line := range m.FindLines("a=extmap:") {
		extmap, err := sdputil.ParseExtmap(line)
		if err != nil {
			d.log.Warnf("skipping extmap line: %v", err)
			continue
		}
		ext := desc.CreateElement("rtp-hdrext")
		ext.CreateAttr("xmlns", nsRTPHdrExt)
		ext.CreateAttr("id", extmap.Value)
		ext.CreateAttr("uri", extmap.URI)
		if extmap.Direction != "" {
			// A direction qualifier on the extension overrides the
			// section-level senders; the last qualified mapping wins.
			if senders := NewDirection(extmap.Direction).Senders(); senders != Senders(Unknown) {
				content.CreateAttr("senders", senders.String())
			}
		}
	}
	if m.HasLine(attrExtmapAllowMixed) {
		desc.CreateElement("extmap-allow-mixed")
	}
}

// appendSources adds source and ssrc-group elements for the section into
// the content's description. Used both when a content is first created and
// when a later section of the same type folds its sources into it.
func (d *SessionDescription) appendSources(content *etree.Element, m *MediaSection) {
	desc := childNS(content, "description", nsRTP)
	if desc == nil {
		return
	}
	entries, groups := d.sectionSSRCs(m)
	for _, entry := range entries {
		source := desc.CreateElement("source")
		source.CreateAttr("xmlns", nsSSMA)
		source.CreateAttr("ssrc", strconv.FormatUint(uint64(entry.ID), 10))
		for _, line := range entry.Lines {
			ssrc, err := sdputil.ParseSSRC(line)
			if err != nil {
				continue
			}
			switch ssrc.Attribute {
			case "name":
				source.CreateAttr("name", ssrc.Value)
			case "videoType":
				source.CreateAttr("videoType", ssrc.Value)
			default:
				param := source.CreateElement("parameter")
				param.CreateAttr("name", ssrc.Attribute)
				if ssrc.Value != "" {
					param.CreateAttr("value", ssrc.Value)
				}
			}
		}
	}
	for _, group := range groups {
		groupEl := desc.CreateElement("ssrc-group")
		groupEl.CreateAttr("xmlns", nsSSMA)
		groupEl.CreateAttr("semantics", group.Semantics)
		for _, ssrc := range group.SSRCs {
			groupEl.CreateElement("source").CreateAttr("ssrc", strconv.FormatUint(uint64(ssrc), 10))
		}
	}
}

func (d *SessionDescription) feedbackToJingle(el *etree.Element, m *MediaSection, id string) {
	for _, line := range m.FindLines("a=rtcp-fb:" + id + " ") {
		feedback, err := sdputil.ParseFeedback(line)
		if err != nil {
			d.log.Warnf("skipping rtcp-fb line: %v", err)
			continue
		}
		if feedback.Type == feedbackTypeTrrInt {
			value := feedback.Subtype
			if value == "" {
				value = "0"
			}
			trr := el.CreateElement("rtcp-fb-trr-int")
			trr.CreateAttr("xmlns", nsRTCPFB)
			trr.CreateAttr("value", value)
			continue
		}
		fb := el.CreateElement("rtcp-fb")
		fb.CreateAttr("xmlns", nsRTCPFB)
		fb.CreateAttr("type", feedback.Type)
		if feedback.Subtype != "" {
			fb.CreateAttr("subtype", feedback.Subtype)
		}
	}
}

func (d *SessionDescription) transportToJingle(content *etree.Element, m *MediaSection) {
	transport := content.CreateElement("transport")
	transport.CreateAttr("xmlns", nsICEUDP)

	if line, ok := m.FindLine("a=sctp-port:"); ok {
		port, err := sdputil.ParseSCTPPort(line)
		if err != nil {
			d.log.Warnf("skipping sctp-port line: %v", err)
		} else {
			// The port-only form carries no stream count.
			d.appendSCTPMap(transport, port, dataChannelProtocol, 0)
		}
	} else if line, ok := m.FindLine("a=sctpmap:"); ok {
		sctpmap, err := sdputil.ParseSCTPMap(line)
		if err != nil {
			d.log.Warnf("skipping sctpmap line: %v", err)
		} else {
			d.appendSCTPMap(transport, sctpmap.Port, sctpmap.Protocol, sctpmap.Streams)
		}
	}

	for _, line := range d.findLinesWithFallback(m, "a=fingerprint:") {
		fingerprint, err := sdputil.ParseFingerprint(line)
		if err != nil {
			d.log.Warnf("skipping fingerprint line: %v", err)
			continue
		}
		fp := transport.CreateElement("fingerprint")
		fp.CreateAttr("xmlns", nsDTLS)
		fp.CreateAttr("hash", fingerprint.Hash)
		fp.SetText(fingerprint.Value)
		if setup, ok := sdputil.FindLineWithFallback(m.lines, d.header, "a=setup:"); ok {
			fp.CreateAttr("setup", setup[len("a=setup:"):])
		}
	}

	ufrag, haveUfrag := sdputil.FindLineWithFallback(m.lines, d.header, "a=ice-ufrag:")
	pwd, havePwd := sdputil.FindLineWithFallback(m.lines, d.header, "a=ice-pwd:")
	if haveUfrag && havePwd {
		transport.CreateAttr("ufrag", ufrag[len("a=ice-ufrag:"):])
		transport.CreateAttr("pwd", pwd[len("a=ice-pwd:"):])
		for _, line := range m.FindLines("a=candidate:") {
			candidate, err := sdputil.ParseCandidate(line)
			if err != nil {
				d.log.Warnf("skipping candidate line: %v", err)
				continue
			}
			if !d.keepCandidate(candidate) {
				continue
			}
			d.applyFailICE(candidate)
			candidateToJingle(transport, candidate)
		}
	}
}

func (d *SessionDescription) appendSCTPMap(transport *etree.Element, port, protocol string, streams int) {
	sctpmap := transport.CreateElement("sctpmap")
	sctpmap.CreateAttr("xmlns", nsDTLSSCTP)
	sctpmap.CreateAttr("number", port)
	sctpmap.CreateAttr("protocol", protocol)
	sctpmap.CreateAttr("streams", strconv.Itoa(streams))
}

func candidateToJingle(transport *etree.Element, c *sdputil.Candidate) {
	generation := c.Generation
	if generation == "" {
		generation = "0"
	}
	el := transport.CreateElement("candidate")
	el.CreateAttr("component", c.Component)
	el.CreateAttr("foundation", c.Foundation)
	el.CreateAttr("generation", generation)
	el.CreateAttr("id", idGenerator.GenerateString(10, runesAlphaNum))
	el.CreateAttr("ip", c.Address)
	el.CreateAttr("network", "1")
	el.CreateAttr("port", c.Port)
	el.CreateAttr("priority", c.Priority)
	el.CreateAttr("protocol", c.Protocol)
	if c.TCPType != "" {
		el.CreateAttr("tcptype", c.TCPType)
	}
	el.CreateAttr("type", c.Type)
	if c.RelAddr != "" {
		el.CreateAttr("rel-addr", c.RelAddr)
	}
	if c.RelPort != "" {
		el.CreateAttr("rel-port", c.RelPort)
	}
}

// findLinesWithFallback returns the section's matching lines, or the
// session header's when the section has none.
func (d *SessionDescription) findLinesWithFallback(m *MediaSection, prefix string) []string {
	if lines := m.FindLines(prefix); len(lines) > 0 {
		return lines
	}
	return sdputil.FindLines(d.header, prefix)
}

func (d *SessionDescription) ridSupported() bool {
	return d.opts.RIDSupported != nil && d.opts.RIDSupported()
}

func findContent(parent *etree.Element, name string) *etree.Element {
	for _, content := range childElems(parent, "content") {
		if content.SelectAttrValue("name", "") == name {
			return content
		}
	}
	return nil
}
