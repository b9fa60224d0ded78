package jingle

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/pion/sdp/v3"

	"github.com/iotum/lib-jitsi-meet/internal/sdputil"
)

// FromJingle replaces the model's content with a session built from the
// jingle element: a synthetic header, a bundle group line when the stanza
// carries one, and one media section per content child.
func (d *SessionDescription) FromJingle(jingleEl *etree.Element) error {
	header, err := syntheticHeader()
	if err != nil {
		return err
	}
	d.header = header
	d.media = nil

	if group := childNS(jingleEl, "group", nsGrouping); group != nil {
		semantics := group.SelectAttrValue("semantics", "")
		if semantics == "" {
			// Jingle draft 6 still used "type".
			semantics = group.SelectAttrValue("type", "")
		}
		var names []string
		for _, content := range childElems(group, "content") {
			if name := content.SelectAttrValue("name", ""); name != "" {
				names = append(names, name)
			}
		}
		if semantics != "" && len(names) > 0 {
			d.header = append(d.header, "a=group:"+semantics+" "+strings.Join(names, " "))
		}
	}

	for _, content := range childElems(jingleEl, "content") {
		section, err := d.jingleToMedia(content)
		if err != nil {
			return err
		}
		d.media = append(d.media, section)
	}
	return nil
}

// syntheticHeader builds the fixed session header with a fresh session id.
func syntheticHeader() ([]string, error) {
	session := &sdp.SessionDescription{
		Origin: sdp.Origin{
			Username:       "-",
			SessionID:      uint64(time.Now().UnixMilli()),
			SessionVersion: 2,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "0.0.0.0",
		},
		SessionName:      "-",
		TimeDescriptions: []sdp.TimeDescription{{}},
	}
	raw, err := session.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal session header: %w", err)
	}
	return splitLines(string(raw)), nil
}

// jingleToMedia builds one media section from a content element.
func (d *SessionDescription) jingleToMedia(content *etree.Element) (*MediaSection, error) {
	name := content.SelectAttrValue("name", "")
	if name == "" {
		return nil, ErrContentMissingName
	}
	senders := NewSenders(content.SelectAttrValue("senders", ""))

	desc := childNS(content, "description", nsRTP)
	transport := childNS(content, "transport", nsICEUDP)
	var sctp *etree.Element
	if transport != nil {
		sctp = childNS(transport, "sctpmap", nsDTLSSCTP)
	}

	port := defaultMediaPort
	if senders == SendersRejected {
		port = 0
	}

	var lines []string
	if sctp != nil {
		mline := &sdputil.MLine{
			Media:   mediaTypeApplication,
			Port:    port,
			Proto:   protoSCTP,
			Formats: []string{dataChannelProtocol},
		}
		lines = append(lines, mline.Marshal(), connectionLine)
		lines = append(lines, "a=sctp-port:"+sctp.SelectAttrValue("number", sctpPort))
		lines = append(lines, "a=max-message-size:"+maxMessageSize)
	} else {
		if desc == nil || desc.SelectAttrValue("media", "") == "" {
			return nil, fmt.Errorf("%w: content %q", ErrDescriptionMissingMedia, name)
		}
		mline := &sdputil.MLine{
			Media: desc.SelectAttrValue("media", ""),
			Port:  port,
			Proto: protoSecureRTP,
		}
		for _, payload := range childElems(desc, "payload-type") {
			if id := payload.SelectAttrValue("id", ""); id != "" {
				mline.Formats = append(mline.Formats, id)
			}
		}
		lines = append(lines, mline.Marshal(), connectionLine, rtcpLine)
	}

	if transport != nil {
		if ufrag := transport.SelectAttrValue("ufrag", ""); ufrag != "" {
			lines = append(lines, "a=ice-ufrag:"+ufrag)
		}
		if pwd := transport.SelectAttrValue("pwd", ""); pwd != "" {
			lines = append(lines, "a=ice-pwd:"+pwd)
		}
		for _, fp := range childrenNS(transport, "fingerprint", nsDTLS) {
			fingerprint := &sdputil.Fingerprint{
				Hash:  fp.SelectAttrValue("hash", ""),
				Value: strings.TrimSpace(fp.Text()),
			}
			lines = append(lines, fingerprint.Marshal())
			if setup := fp.SelectAttrValue("setup", ""); setup != "" {
				lines = append(lines, "a=setup:"+setup)
			}
		}
		for _, el := range childElems(transport, "candidate") {
			candidate := candidateFromJingle(el)
			if !d.keepCandidate(candidate) {
				continue
			}
			d.applyFailICE(candidate)
			lines = append(lines, candidate.Marshal())
		}
	}

	if dir := senders.Direction(); dir != Direction(Unknown) {
		lines = append(lines, "a="+dir.String())
	}
	lines = append(lines, "a=mid:"+name)

	if desc != nil {
		lines = append(lines, d.descriptionToLines(desc)...)
	}
	return newMediaSection(lines)
}

// descriptionToLines converts the RTP description payload: multiplexing
// marker, payload types with parameters and feedback, header extensions,
// source groups and sources.
func (d *SessionDescription) descriptionToLines(desc *etree.Element) []string {
	var lines []string

	if childElem(desc, "rtcp-mux") != nil {
		lines = append(lines, attrRTCPMux)
	}

	for _, payload := range childElems(desc, "payload-type") {
		id := payload.SelectAttrValue("id", "")
		if id == "" {
			continue
		}
		if name := payload.SelectAttrValue("name", ""); name != "" {
			rtpmap := &sdputil.RTPMap{
				ID:        id,
				Name:      name,
				ClockRate: payload.SelectAttrValue("clockrate", ""),
				Channels:  payload.SelectAttrValue("channels", ""),
			}
			lines = append(lines, rtpmap.Marshal())
		}
		if params := parametersFromJingle(payload); len(params) > 0 {
			lines = append(lines, sdputil.BuildFmtp(id, params))
		}
		lines = append(lines, feedbackLinesFromJingle(payload, id)...)
	}
	lines = append(lines, feedbackLinesFromJingle(desc, "*")...)

	for _, ext := range childrenNS(desc, "rtp-hdrext", nsRTPHdrExt) {
		extmap := &sdputil.Extmap{
			Value: ext.SelectAttrValue("id", ""),
			URI:   ext.SelectAttrValue("uri", ""),
		}
		lines = append(lines, extmap.Marshal())
	}
	if childElem(desc, "extmap-allow-mixed") != nil {
		lines = append(lines, attrExtmapAllowMixed)
	}

	for _, group := range childrenNS(desc, "ssrc-group", nsSSMA) {
		semantics := group.SelectAttrValue("semantics", "")
		var ssrcs []string
		for _, source := range childElems(group, "source") {
			if ssrc := source.SelectAttrValue("ssrc", ""); ssrc != "" {
				ssrcs = append(ssrcs, ssrc)
			}
		}
		if semantics != "" && len(ssrcs) > 0 {
			lines = append(lines, "a=ssrc-group:"+semantics+" "+strings.Join(ssrcs, " "))
		}
	}

	// Mixer-injected sources go first, whatever order the stanza declared.
	var mixerLines, userLines []string
	for _, source := range childrenNS(desc, "source", nsSSMA) {
		ssrc := source.SelectAttrValue("ssrc", "")
		if ssrc == "" {
			continue
		}
		var sourceLines []string
		mixer := false
		for _, param := range childElems(source, "parameter") {
			name := param.SelectAttrValue("name", "")
			value := param.SelectAttrValue("value", "")
			if strings.Contains(value, mixerLabelMarker) {
				mixer = true
			}
			line := "a=ssrc:" + ssrc + " " + name
			if value != "" {
				line += ":" + value
			}
			sourceLines = append(sourceLines, line)
		}
		if mixer {
			mixerLines = append(mixerLines, sourceLines...)
		} else {
			userLines = append(userLines, sourceLines...)
		}
	}
	lines = append(lines, mixerLines...)
	lines = append(lines, userLines...)

	return lines
}

func parametersFromJingle(payload *etree.Element) []sdputil.Parameter {
	var params []sdputil.Parameter
	for _, param := range childElems(payload, "parameter") {
		params = append(params, sdputil.Parameter{
			Name:  param.SelectAttrValue("name", ""),
			Value: param.SelectAttrValue("value", ""),
		})
	}
	return params
}

// feedbackLinesFromJingle converts the feedback children of a description
// or payload-type element. A retransmission interval child always emits a
// wildcard line; generic feedback is scoped to the given payload id.
func feedbackLinesFromJingle(el *etree.Element, id string) []string {
	var lines []string
	if trr := childNS(el, "rtcp-fb-trr-int", nsRTCPFB); trr != nil {
		feedback := &sdputil.Feedback{
			ID:      "*",
			Type:    feedbackTypeTrrInt,
			Subtype: trr.SelectAttrValue("value", "0"),
		}
		lines = append(lines, feedback.Marshal())
	}
	for _, fb := range childrenNS(el, "rtcp-fb", nsRTCPFB) {
		feedback := &sdputil.Feedback{
			ID:      id,
			Type:    fb.SelectAttrValue("type", ""),
			Subtype: fb.SelectAttrValue("subtype", ""),
		}
		if feedback.Type == "" {
			continue
		}
		lines = append(lines, feedback.Marshal())
	}
	return lines
}

func candidateFromJingle(el *etree.Element) *sdputil.Candidate {
	return &sdputil.Candidate{
		Foundation: el.SelectAttrValue("foundation", ""),
		Component:  el.SelectAttrValue("component", ""),
		Protocol:   strings.ToLower(el.SelectAttrValue("protocol", "")),
		Priority:   el.SelectAttrValue("priority", ""),
		Address:    el.SelectAttrValue("ip", ""),
		Port:       el.SelectAttrValue("port", ""),
		Type:       el.SelectAttrValue("type", ""),
		RelAddr:    el.SelectAttrValue("rel-addr", ""),
		RelPort:    el.SelectAttrValue("rel-port", ""),
		TCPType:    el.SelectAttrValue("tcptype", ""),
		Generation: el.SelectAttrValue("generation", "0"),
	}
}

// keepCandidate applies the tcp/udp candidate filters.
func (d *SessionDescription) keepCandidate(c *sdputil.Candidate) bool {
	switch c.Protocol {
	case "tcp", "ssltcp":
		if d.opts.RemoveTCPCandidates {
			return false
		}
	case "udp":
		if d.opts.RemoveUDPCandidates {
			return false
		}
	}
	return true
}

func (d *SessionDescription) applyFailICE(c *sdputil.Candidate) {
	if d.opts.FailICE {
		c.Address = sentinelAddress
	}
}
