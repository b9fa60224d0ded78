package jingle

// Direction indicates the transmission direction declared on a media
// section (a=sendrecv, a=sendonly, a=recvonly, a=inactive).
type Direction int

const (
	// DirectionSendRecv indicates media flows both ways.
	DirectionSendRecv Direction = iota + 1

	// DirectionSendOnly indicates only the local side sends.
	DirectionSendOnly

	// DirectionRecvOnly indicates only the remote side sends.
	DirectionRecvOnly

	// DirectionInactive indicates no media flows.
	DirectionInactive
)

// This is done this way because of a linter.
const (
	directionSendRecvStr = "sendrecv"
	directionSendOnlyStr = "sendonly"
	directionRecvOnlyStr = "recvonly"
	directionInactiveStr = "inactive"
)

// NewDirection defines a procedure for creating a new Direction from a raw
// string naming the direction.
func NewDirection(raw string) Direction {
	switch raw {
	case directionSendRecvStr:
		return DirectionSendRecv
	case directionSendOnlyStr:
		return DirectionSendOnly
	case directionRecvOnlyStr:
		return DirectionRecvOnly
	case directionInactiveStr:
		return DirectionInactive
	default:
		return Direction(Unknown)
	}
}

func (d Direction) String() string {
	switch d {
	case DirectionSendRecv:
		return directionSendRecvStr
	case DirectionSendOnly:
		return directionSendOnlyStr
	case DirectionRecvOnly:
		return directionRecvOnlyStr
	case DirectionInactive:
		return directionInactiveStr
	default:
		return ""
	}
}

// Senders returns the jingle senders role corresponding to this direction.
// The mapping is total over the four direction markers.
func (d Direction) Senders() Senders {
	switch d {
	case DirectionSendOnly:
		return SendersInitiator
	case DirectionRecvOnly:
		return SendersResponder
	case DirectionSendRecv:
		return SendersBoth
	case DirectionInactive:
		return SendersNone
	default:
		return Senders(Unknown)
	}
}
