package sdputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidate(t *testing.T) {
	t.Run("Host", func(t *testing.T) {
		c, err := ParseCandidate("a=candidate:1 1 udp 2130706431 192.168.1.10 50005 typ host generation 0")
		require.NoError(t, err)
		assert.Equal(t, "1", c.Foundation)
		assert.Equal(t, "1", c.Component)
		assert.Equal(t, "udp", c.Protocol)
		assert.Equal(t, "2130706431", c.Priority)
		assert.Equal(t, "192.168.1.10", c.Address)
		assert.Equal(t, "50005", c.Port)
		assert.Equal(t, "host", c.Type)
		assert.Equal(t, "0", c.Generation)
	})

	t.Run("ServerReflexive", func(t *testing.T) {
		line := "a=candidate:2 1 udp 1694498815 203.0.113.5 61000 typ srflx raddr 192.168.1.10 rport 50005 generation 0"
		c, err := ParseCandidate(line)
		require.NoError(t, err)
		assert.Equal(t, "srflx", c.Type)
		assert.Equal(t, "192.168.1.10", c.RelAddr)
		assert.Equal(t, "50005", c.RelPort)
		assert.Equal(t, line, c.Marshal())
	})

	t.Run("TCP", func(t *testing.T) {
		c, err := ParseCandidate("a=candidate:3 1 tcp 1518280447 192.168.1.10 9 typ host tcptype active generation 0")
		require.NoError(t, err)
		assert.Equal(t, "tcp", c.Protocol)
		assert.Equal(t, "active", c.TCPType)
	})

	t.Run("ProtocolLowercased", func(t *testing.T) {
		c, err := ParseCandidate("a=candidate:4 1 SSLTCP 1 10.0.0.1 443 typ relay")
		require.NoError(t, err)
		assert.Equal(t, "ssltcp", c.Protocol)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseCandidate("a=candidate:1 1 udp 1 1.2.3.4 5")
		assert.ErrorIs(t, err, ErrInvalidLine)
	})
}
