package jingle

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A session pushed through the stanza form and back keeps its media types,
// payload formats and source inventory, even though mids and the header are
// rewritten along the way.
func TestJingleRoundTrip(t *testing.T) {
	original := newTestDescription(t, Options{})

	parent := etree.NewElement("jingle")
	_, err := original.ToJingle(parent, CreatorInitiator)
	require.NoError(t, err)

	restored := NewSessionDescription(Options{})
	require.NoError(t, restored.FromJingle(parent))

	originalSections := original.MediaSections()
	restoredSections := restored.MediaSections()
	require.Len(t, restoredSections, len(originalSections))

	for i, section := range originalSections {
		assert.Equal(t, section.Type(), restoredSections[i].Type(), "section %d", i)
		assert.Equal(t, section.Formats(), restoredSections[i].Formats(), "section %d", i)
		assert.Equal(t, section.direction(), restoredSections[i].direction(), "section %d", i)
	}

	for _, info := range original.SSRCInventory() {
		for _, entry := range info.SSRCs {
			assert.True(t, restored.ContainsSSRC(entry.ID), "ssrc %d", entry.ID)
		}
		for _, group := range info.Groups {
			restoredInfo := restored.SSRCInventory()[info.Index]
			require.NotEmpty(t, restoredInfo.Groups)
			assert.Equal(t, group.Semantics, restoredInfo.Groups[0].Semantics)
			assert.Equal(t, group.SSRCs, restoredInfo.Groups[0].SSRCs)
		}
	}

	groups := restored.BundleGroups()
	require.Len(t, groups, 1)
	assert.Equal(t, "BUNDLE", groups[0].Semantics)
	assert.Equal(t, []string{"audio", "video", "data"}, groups[0].MIDs)

	audio := restoredSections[0]
	assert.True(t, audio.HasLine("a=rtpmap:111 opus/48000/2"))
	assert.True(t, audio.HasLine("a=rtcp-fb:111 transport-cc"))
	assert.True(t, audio.HasLine("a=ice-ufrag:audioufrag"))
	assert.True(t, audio.HasLine("a=fingerprint:sha-256 AB:CD:EF:01"))
	assert.True(t, audio.HasLine("a=setup:actpass"))

	data := restoredSections[2]
	assert.True(t, data.HasLine("a=sctp-port:5000"))
	assert.True(t, data.HasLine("a=max-message-size:262144"))
}
