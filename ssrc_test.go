package jingle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSRCInventory(t *testing.T) {
	d := newTestDescription(t, Options{})
	inventory := d.SSRCInventory()
	require.Len(t, inventory, 3)

	audio := inventory[0]
	assert.Equal(t, "audio", audio.MediaType)
	assert.Equal(t, "0", audio.MID)
	require.Len(t, audio.SSRCs, 1)
	assert.Equal(t, uint32(1001), audio.SSRCs[0].ID)
	// Both lines for 1001 collapse into one entry.
	assert.Len(t, audio.SSRCs[0].Lines, 2)

	msid, ok := audio.SSRCs[0].Parameter("msid")
	assert.True(t, ok)
	assert.Equal(t, "stream1 audiotrack", msid)

	video := inventory[1]
	require.Len(t, video.SSRCs, 2)
	assert.Equal(t, uint32(2002), video.SSRCs[0].ID)
	assert.Equal(t, uint32(2003), video.SSRCs[1].ID)
	require.Len(t, video.Groups, 1)
	assert.Equal(t, "FID", video.Groups[0].Semantics)
	assert.Equal(t, []uint32{2002, 2003}, video.Groups[0].SSRCs)

	data := inventory[2]
	assert.Empty(t, data.SSRCs)
	assert.Empty(t, data.Groups)
}

func TestContainsSSRC(t *testing.T) {
	d := newTestDescription(t, Options{})

	// Every inventoried ssrc is reported as contained.
	for _, info := range d.SSRCInventory() {
		for _, entry := range info.SSRCs {
			assert.True(t, d.ContainsSSRC(entry.ID))
			assert.True(t, info.ContainsSSRC(entry.ID))
		}
	}

	assert.False(t, d.ContainsSSRC(9999))
	assert.False(t, d.ContainsSSRC(0))
}
