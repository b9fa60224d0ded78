package jingle

import (
	"errors"
)

var (
	// ErrContentMissingName indicates a jingle content element without a
	// name attribute, so no media section can be derived from it.
	ErrContentMissingName = errors.New("jingle content missing name attribute")

	// ErrDescriptionMissingMedia indicates a jingle description element
	// without a media type.
	ErrDescriptionMissingMedia = errors.New("jingle description missing media attribute")

	// ErrInvalidMediaLine indicates a media section whose m= line could not
	// be parsed into a media type.
	ErrInvalidMediaLine = errors.New("invalid media line")

	// ErrMediaSectionNotFound indicates that no media section of the
	// requested type exists in the description.
	ErrMediaSectionNotFound = errors.New("no media section of requested type")
)
