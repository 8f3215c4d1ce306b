package artnet_monitor

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenerDeliversPackets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	packets := make(chan RawArtNetPacket, 1)
	l, err := NewListener("127.0.0.1", 0, packets)
	require.NoError(t, err)
	l.Start(ctx)

	conn, err := net.DialUDP("udp", nil, l.Addr())
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("Art-Net\x00hello"))
	require.NoError(t, err)

	select {
	case p := <-packets:
		assert.Equal(t, []byte("Art-Net\x00hello"), p.Data)
		assert.NotNil(t, p.From)
	case <-time.After(2 * time.Second):
		t.Fatal("packet not delivered")
	}
}
