package jingle

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toJingle(t *testing.T, d *SessionDescription, creator Creator) *etree.Element {
	t.Helper()
	parent := etree.NewElement("jingle")
	_, err := d.ToJingle(parent, creator)
	require.NoError(t, err)
	return parent
}

func selectParams(source *etree.Element) map[string]string {
	params := map[string]string{}
	for _, param := range childElems(source, "parameter") {
		params[param.SelectAttrValue("name", "")] = param.SelectAttrValue("value", "")
	}
	return params
}

func TestToJingle(t *testing.T) {
	d := newTestDescription(t, Options{})
	parent := toJingle(t, d, CreatorInitiator)

	group := childNS(parent, "group", nsGrouping)
	require.NotNil(t, group)
	assert.Equal(t, "BUNDLE", group.SelectAttrValue("semantics", ""))
	var groupNames []string
	for _, content := range childElems(group, "content") {
		groupNames = append(groupNames, content.SelectAttrValue("name", ""))
	}
	assert.Equal(t, []string{"audio", "video", "data"}, groupNames)

	audio := findContent(parent, "audio")
	require.NotNil(t, audio)
	assert.Equal(t, "initiator", audio.SelectAttrValue("creator", ""))
	assert.Equal(t, "both", audio.SelectAttrValue("senders", ""))

	desc := childNS(audio, "description", nsRTP)
	require.NotNil(t, desc)
	assert.Equal(t, "audio", desc.SelectAttrValue("media", ""))
	assert.NotNil(t, childElem(desc, "rtcp-mux"))

	payloads := childElems(desc, "payload-type")
	require.Len(t, payloads, 1)
	payload := payloads[0]
	assert.Equal(t, "111", payload.SelectAttrValue("id", ""))
	assert.Equal(t, "opus", payload.SelectAttrValue("name", ""))
	assert.Equal(t, "48000", payload.SelectAttrValue("clockrate", ""))
	assert.Equal(t, "2", payload.SelectAttrValue("channels", ""))
	assert.Equal(t, map[string]string{"minptime": "10", "useinbandfec": "1"}, selectParams(payload))

	fb := childNS(payload, "rtcp-fb", nsRTCPFB)
	require.NotNil(t, fb)
	assert.Equal(t, "transport-cc", fb.SelectAttrValue("type", ""))

	ext := childNS(desc, "rtp-hdrext", nsRTPHdrExt)
	require.NotNil(t, ext)
	assert.Equal(t, "1", ext.SelectAttrValue("id", ""))
	assert.Equal(t, "urn:ietf:params:rtp-hdrext:ssrc-audio-level", ext.SelectAttrValue("uri", ""))

	sources := childrenNS(desc, "source", nsSSMA)
	require.Len(t, sources, 1)
	assert.Equal(t, "1001", sources[0].SelectAttrValue("ssrc", ""))
	assert.Equal(t, map[string]string{
		"cname": "audiocname",
		"msid":  "stream1 audiotrack",
	}, selectParams(sources[0]))

	transport := childNS(audio, "transport", nsICEUDP)
	require.NotNil(t, transport)
	assert.Equal(t, "audioufrag", transport.SelectAttrValue("ufrag", ""))
	assert.Equal(t, "audiopwd", transport.SelectAttrValue("pwd", ""))

	fp := childNS(transport, "fingerprint", nsDTLS)
	require.NotNil(t, fp)
	assert.Equal(t, "sha-256", fp.SelectAttrValue("hash", ""))
	assert.Equal(t, "AB:CD:EF:01", fp.Text())
	assert.Equal(t, "actpass", fp.SelectAttrValue("setup", ""))

	candidates := childElems(transport, "candidate")
	require.Len(t, candidates, 2)
	assert.Equal(t, "udp", candidates[0].SelectAttrValue("protocol", ""))
	assert.NotEmpty(t, candidates[0].SelectAttrValue("id", ""))
	assert.Equal(t, "tcp", candidates[1].SelectAttrValue("protocol", ""))
	assert.Equal(t, "active", candidates[1].SelectAttrValue("tcptype", ""))

	video := findContent(parent, "video")
	require.NotNil(t, video)
	assert.Equal(t, "responder", video.SelectAttrValue("senders", ""))

	videoDesc := childNS(video, "description", nsRTP)
	require.NotNil(t, videoDesc)
	groups := childrenNS(videoDesc, "ssrc-group", nsSSMA)
	require.Len(t, groups, 1)
	assert.Equal(t, "FID", groups[0].SelectAttrValue("semantics", ""))
	var groupSSRCs []string
	for _, source := range childElems(groups[0], "source") {
		groupSSRCs = append(groupSSRCs, source.SelectAttrValue("ssrc", ""))
	}
	assert.Equal(t, []string{"2002", "2003"}, groupSSRCs)

	data := findContent(parent, "data")
	require.NotNil(t, data)
	assert.Nil(t, childNS(data, "description", nsRTP))
	dataTransport := childNS(data, "transport", nsICEUDP)
	require.NotNil(t, dataTransport)
	sctpmap := childNS(dataTransport, "sctpmap", nsDTLSSCTP)
	require.NotNil(t, sctpmap)
	assert.Equal(t, "5000", sctpmap.SelectAttrValue("number", ""))
	assert.Equal(t, "webrtc-datachannel", sctpmap.SelectAttrValue("protocol", ""))
	assert.Equal(t, "0", sctpmap.SelectAttrValue("streams", ""))
}

func TestToJingleFeedbackSubtype(t *testing.T) {
	d := newTestDescription(t, Options{})
	parent := toJingle(t, d, CreatorInitiator)

	video := findContent(parent, "video")
	require.NotNil(t, video)
	desc := childNS(video, "description", nsRTP)
	require.NotNil(t, desc)

	var vp8 *etree.Element
	for _, payload := range childElems(desc, "payload-type") {
		if payload.SelectAttrValue("id", "") == "100" {
			vp8 = payload
		}
	}
	require.NotNil(t, vp8)

	fb := childNS(vp8, "rtcp-fb", nsRTCPFB)
	require.NotNil(t, fb)
	assert.Equal(t, "nack", fb.SelectAttrValue("type", ""))
	assert.Equal(t, "pli", fb.SelectAttrValue("subtype", ""))
}

func TestToJingleRejected(t *testing.T) {
	t.Run("ZeroPort", func(t *testing.T) {
		raw := "v=0\r\n" +
			"o=- 1 2 IN IP4 0.0.0.0\r\n" +
			"s=-\r\n" +
			"t=0 0\r\n" +
			"m=video 0 UDP/TLS/RTP/SAVPF 100\r\n" +
			"a=sendrecv\r\n" +
			"a=mid:0\r\n"

		d := NewSessionDescription(Options{})
		require.NoError(t, d.Unmarshal(raw))

		parent := toJingle(t, d, CreatorInitiator)
		video := findContent(parent, "video")
		require.NotNil(t, video)
		assert.Equal(t, "rejected", video.SelectAttrValue("senders", ""))
	})

	t.Run("BundleOnly", func(t *testing.T) {
		raw := "v=0\r\n" +
			"o=- 1 2 IN IP4 0.0.0.0\r\n" +
			"s=-\r\n" +
			"t=0 0\r\n" +
			"m=video 0 UDP/TLS/RTP/SAVPF 100\r\n" +
			"a=bundle-only\r\n" +
			"a=sendrecv\r\n" +
			"a=mid:0\r\n"

		d := NewSessionDescription(Options{})
		require.NoError(t, d.Unmarshal(raw))

		parent := toJingle(t, d, CreatorInitiator)
		video := findContent(parent, "video")
		require.NotNil(t, video)
		assert.Equal(t, "both", video.SelectAttrValue("senders", ""))
	})
}

func TestToJingleSectionMerging(t *testing.T) {
	raw := "v=0\r\n" +
		"o=- 1 2 IN IP4 0.0.0.0\r\n" +
		"s=-\r\n" +
		"t=0 0\r\n" +
		"m=video 9 UDP/TLS/RTP/SAVPF 100\r\n" +
		"a=sendrecv\r\n" +
		"a=mid:0\r\n" +
		"a=rtpmap:100 VP8/90000\r\n" +
		"a=ssrc:5005 cname:first\r\n" +
		"m=video 9 UDP/TLS/RTP/SAVPF 100\r\n" +
		"a=sendrecv\r\n" +
		"a=mid:1\r\n" +
		"a=rtpmap:100 VP8/90000\r\n" +
		"a=ssrc:6006 cname:second\r\n"

	d := NewSessionDescription(Options{})
	require.NoError(t, d.Unmarshal(raw))

	parent := toJingle(t, d, CreatorInitiator)

	var videoContents []*etree.Element
	for _, content := range childElems(parent, "content") {
		if content.SelectAttrValue("name", "") == "video" {
			videoContents = append(videoContents, content)
		}
	}
	require.Len(t, videoContents, 1)

	desc := childNS(videoContents[0], "description", nsRTP)
	require.NotNil(t, desc)

	var ssrcs []string
	for _, source := range childrenNS(desc, "source", nsSSMA) {
		ssrcs = append(ssrcs, source.SelectAttrValue("ssrc", ""))
	}
	assert.Equal(t, []string{"5005", "6006"}, ssrcs)

	// The folded section contributes sources only, not a second payload set.
	assert.Len(t, childElems(desc, "payload-type"), 1)
}

func TestToJingleSkipsContentWithoutCreator(t *testing.T) {
	raw := "v=0\r\n" +
		"o=- 1 2 IN IP4 0.0.0.0\r\n" +
		"s=-\r\n" +
		"t=0 0\r\n" +
		"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
		"a=sendrecv\r\n" +
		"a=mid:0\r\n" +
		"a=ssrc:1001 cname:audiocname\r\n"

	d := NewSessionDescription(Options{})
	require.NoError(t, d.Unmarshal(raw))

	parent := etree.NewElement("jingle")
	parent.CreateElement("content").CreateAttr("name", "audio")

	_, err := d.ToJingle(parent, CreatorInitiator)
	require.NoError(t, err)

	contents := childElems(parent, "content")
	require.Len(t, contents, 1)
	assert.Nil(t, contents[0].SelectAttr("creator"))
	assert.Nil(t, childNS(contents[0], "description", nsRTP))
}

func TestToJingleDirectConnection(t *testing.T) {
	d := newTestDescription(t, Options{DirectConnection: true})
	parent := toJingle(t, d, CreatorInitiator)

	group := childNS(parent, "group", nsGrouping)
	require.NotNil(t, group)
	var names []string
	for _, content := range childElems(group, "content") {
		names = append(names, content.SelectAttrValue("name", ""))
	}
	assert.Equal(t, []string{"0", "1", "2"}, names)

	assert.NotNil(t, findContent(parent, "0"))
	assert.NotNil(t, findContent(parent, "1"))
	assert.NotNil(t, findContent(parent, "2"))
	assert.Nil(t, findContent(parent, "audio"))
}

func TestToJingleRIDSources(t *testing.T) {
	raw := "v=0\r\n" +
		"o=- 1 2 IN IP4 0.0.0.0\r\n" +
		"s=-\r\n" +
		"t=0 0\r\n" +
		"m=video 9 UDP/TLS/RTP/SAVPF 100\r\n" +
		"a=sendrecv\r\n" +
		"a=mid:0\r\n" +
		"a=rtpmap:100 VP8/90000\r\n" +
		"a=rid:low send\r\n" +
		"a=rid:high send\r\n" +
		"a=simulcast:send low;high\r\n"

	t.Run("Supported", func(t *testing.T) {
		d := NewSessionDescription(Options{RIDSupported: func() bool { return true }})
		require.NoError(t, d.Unmarshal(raw))

		parent := toJingle(t, d, CreatorInitiator)
		desc := childNS(findContent(parent, "video"), "description", nsRTP)
		require.NotNil(t, desc)

		var rids []string
		for _, source := range childrenNS(desc, "source", nsSSMA) {
			rids = append(rids, source.SelectAttrValue("rid", ""))
		}
		assert.Equal(t, []string{"low", "high"}, rids)

		ridGroup := childNS(desc, "rid-group", nsSSMA)
		require.NotNil(t, ridGroup)
		assert.Equal(t, "SIM", ridGroup.SelectAttrValue("semantics", ""))
		assert.Len(t, childElems(ridGroup, "source"), 2)
	})

	t.Run("NotSupported", func(t *testing.T) {
		d := NewSessionDescription(Options{})
		require.NoError(t, d.Unmarshal(raw))

		parent := toJingle(t, d, CreatorInitiator)
		desc := childNS(findContent(parent, "video"), "description", nsRTP)
		require.NotNil(t, desc)
		assert.Empty(t, childrenNS(desc, "source", nsSSMA))
		assert.Nil(t, childNS(desc, "rid-group", nsSSMA))
	})
}

func TestToJingleExtmapDirectionOverride(t *testing.T) {
	raw := "v=0\r\n" +
		"o=- 1 2 IN IP4 0.0.0.0\r\n" +
		"s=-\r\n" +
		"t=0 0\r\n" +
		"m=video 9 UDP/TLS/RTP/SAVPF 100\r\n" +
		"a=sendrecv\r\n" +
		"a=mid:0\r\n" +
		"a=rtpmap:100 VP8/90000\r\n" +
		"a=extmap:3/recvonly http://www.webrtc.org/experiments/rtp-hdrext/abs-send-time\r\n"

	d := NewSessionDescription(Options{})
	require.NoError(t, d.Unmarshal(raw))

	parent := toJingle(t, d, CreatorInitiator)
	video := findContent(parent, "video")
	require.NotNil(t, video)
	assert.Equal(t, "responder", video.SelectAttrValue("senders", ""))

	ext := childNS(childNS(video, "description", nsRTP), "rtp-hdrext", nsRTPHdrExt)
	require.NotNil(t, ext)
	assert.Equal(t, "3", ext.SelectAttrValue("id", ""))
}

func TestToJingleInitialLastN(t *testing.T) {
	d := newTestDescription(t, Options{InitialLastN: 10})
	parent := toJingle(t, d, CreatorInitiator)

	video := findContent(parent, "video")
	require.NotNil(t, video)
	lastN := childNS(video, "initial-last-n", nsJitsi)
	require.NotNil(t, lastN)
	assert.Equal(t, "10", lastN.SelectAttrValue("value", ""))

	audio := findContent(parent, "audio")
	require.NotNil(t, audio)
	assert.Nil(t, childNS(audio, "initial-last-n", nsJitsi))
}

func TestToJingleCandidateFiltering(t *testing.T) {
	d := newTestDescription(t, Options{RemoveTCPCandidates: true})
	parent := toJingle(t, d, CreatorInitiator)

	transport := childNS(findContent(parent, "audio"), "transport", nsICEUDP)
	require.NotNil(t, transport)
	candidates := childElems(transport, "candidate")
	require.Len(t, candidates, 1)
	assert.Equal(t, "udp", candidates[0].SelectAttrValue("protocol", ""))
}
