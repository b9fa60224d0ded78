package jingle

// Senders indicates which party may send on a jingle content.
type Senders int

const (
	// SendersNone indicates neither party sends.
	SendersNone Senders = iota + 1

	// SendersInitiator indicates only the session initiator sends.
	SendersInitiator

	// SendersResponder indicates only the session responder sends.
	SendersResponder

	// SendersBoth indicates both parties send.
	SendersBoth

	// SendersRejected indicates the content was rejected. A rejected
	// content maps to a zero media port rather than a direction marker.
	SendersRejected
)

// This is done this way because of a linter.
const (
	sendersNoneStr      = "none"
	sendersInitiatorStr = "initiator"
	sendersResponderStr = "responder"
	sendersBothStr      = "both"
	sendersRejectedStr  = "rejected"
)

// NewSenders defines a procedure for creating a new Senders from a raw
// string naming the senders role.
func NewSenders(raw string) Senders {
	switch raw {
	case sendersNoneStr:
		return SendersNone
	case sendersInitiatorStr:
		return SendersInitiator
	case sendersResponderStr:
		return SendersResponder
	case sendersBothStr:
		return SendersBoth
	case sendersRejectedStr:
		return SendersRejected
	default:
		return Senders(Unknown)
	}
}

func (s Senders) String() string {
	switch s {
	case SendersNone:
		return sendersNoneStr
	case SendersInitiator:
		return sendersInitiatorStr
	case SendersResponder:
		return sendersResponderStr
	case SendersBoth:
		return sendersBothStr
	case SendersRejected:
		return sendersRejectedStr
	default:
		return ""
	}
}

// Direction returns the media direction marker corresponding to this
// senders role. SendersRejected has no direction marker; it is signaled
// through a zero media port instead.
func (s Senders) Direction() Direction {
	switch s {
	case SendersInitiator:
		return DirectionSendOnly
	case SendersResponder:
		return DirectionRecvOnly
	case SendersBoth:
		return DirectionSendRecv
	case SendersNone:
		return DirectionInactive
	default:
		return Direction(Unknown)
	}
}

// Creator indicates which party created a jingle content.
type Creator int

const (
	// CreatorInitiator indicates the content was created by the session
	// initiator.
	CreatorInitiator Creator = iota + 1

	// CreatorResponder indicates the content was created by the session
	// responder.
	CreatorResponder
)

// NewCreator defines a procedure for creating a new Creator from a raw
// string naming the creator role.
func NewCreator(raw string) Creator {
	switch raw {
	case sendersInitiatorStr:
		return CreatorInitiator
	case sendersResponderStr:
		return CreatorResponder
	default:
		return Creator(Unknown)
	}
}

func (c Creator) String() string {
	switch c {
	case CreatorInitiator:
		return sendersInitiatorStr
	case CreatorResponder:
		return sendersResponderStr
	default:
		return ""
	}
}
