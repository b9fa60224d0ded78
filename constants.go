package jingle

const (
	// Unknown defines default public constant to use for "enum" like struct
	// comparisons when no value was defined.
	Unknown = iota
)

// Jingle namespaces.
const (
	nsGrouping  = "urn:xmpp:jingle:apps:grouping:0"
	nsRTP       = "urn:xmpp:jingle:apps:rtp:1"
	nsSSMA      = "urn:xmpp:jingle:apps:rtp:ssma:0"
	nsRTPHdrExt = "urn:xmpp:jingle:apps:rtp:rtp-hdrext:0"
	nsRTCPFB    = "urn:xmpp:jingle:apps:rtp:rtcp-fb:0"
	nsDTLS      = "urn:xmpp:jingle:apps:dtls:0"
	nsICEUDP    = "urn:xmpp:jingle:transports:ice-udp:1"
	nsDTLSSCTP  = "urn:xmpp:jingle:transports:dtls-sctp:1"
	nsJitsi     = "jitsi:colibri2"
)

const (
	mediaTypeAudio       = "audio"
	mediaTypeVideo       = "video"
	mediaTypeApplication = "application"

	// Bundled connections name the datachannel content "data" instead of
	// the SDP media type "application".
	contentNameData = "data"

	protoSecureRTP = "UDP/TLS/RTP/SAVPF"
	protoSCTP      = "UDP/DTLS/SCTP"

	dataChannelProtocol = "webrtc-datachannel"
	sctpPort            = "5000"
	maxMessageSize      = "262144"

	defaultMediaPort = 9

	// Candidate addresses are rewritten to this when ICE failure is being
	// injected on purpose.
	sentinelAddress = "1.1.1.1"

	// Sources whose parameters carry this substring are injected by the
	// conference mixer rather than a user.
	mixerLabelMarker = "mixedmslabel"

	feedbackTypeTrrInt = "trr-int"

	connectionLine = "c=IN IP4 0.0.0.0"
	rtcpLine       = "a=rtcp:1 IN IP4 0.0.0.0"

	attrBundleOnly       = "a=bundle-only"
	attrRTCPMux          = "a=rtcp-mux"
	attrExtmapAllowMixed = "a=extmap-allow-mixed"
)
