package jingle

import (
	"github.com/beevik/etree"
)

// The converters only ever need direct children by tag, optionally
// restricted to a namespace. Elements parsed from prefixed documents
// declare their namespace through the xmlns attribute; a child without an
// explicit xmlns is accepted for any namespace.

func childElems(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

func childElem(e *etree.Element, tag string) *etree.Element {
	for _, c := range e.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

func childrenNS(e *etree.Element, tag, ns string) []*etree.Element {
	var out []*etree.Element
	for _, c := range childElems(e, tag) {
		if matchesNS(c, ns) {
			out = append(out, c)
		}
	}
	return out
}

func childNS(e *etree.Element, tag, ns string) *etree.Element {
	for _, c := range childElems(e, tag) {
		if matchesNS(c, ns) {
			return c
		}
	}
	return nil
}

func matchesNS(e *etree.Element, ns string) bool {
	if ns == "" {
		return true
	}
	declared := e.SelectAttrValue("xmlns", "")
	return declared == "" || declared == ns
}
