// internal/infrastructure/artnet_monitor/monitor.go
package artnet_monitor

import (
	"context"
	"errors"
	"fmt"
	"net"

	"dmxMapper/internal/logging"
)

type RawArtNetPacket struct {
	Data []byte
	From *net.UDPAddr
}

// Listener reads Art-Net datagrams and hands a copy of each to packetChan.
type Listener struct {
	conn       *net.UDPConn
	packetChan chan<- RawArtNetPacket
}

// NewListener binds host:port. An empty host listens on every interface, port 0 picks a free port.
func NewListener(host string, port int, packetChan chan<- RawArtNetPacket) (*Listener, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve Art-Net UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("cannot listen on Art-Net port %d: %w", port, err)
	}

	logging.LogInfo("ArtNet Monitor: listening", "addr", conn.LocalAddr().String())
	return &Listener{conn: conn, packetChan: packetChan}, nil
}

func (l *Listener) Addr() *net.UDPAddr {
	return l.conn.LocalAddr().(*net.UDPAddr)
}

// Close releases the socket of a listener that was never started.
func (l *Listener) Close() error {
	return l.conn.Close()
}

// Start reads until ctx is cancelled; cancelling closes the socket.
func (l *Listener) Start(ctx context.Context) {
	go func() {
		go func() {
			<-ctx.Done()
			l.conn.Close()
		}()

		buffer := make([]byte, 1024)
		for {
			n, remoteAddr, err := l.conn.ReadFromUDP(buffer)
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					logging.LogInfo("ArtNet Monitor: connection closed, listener stopped")
					return
				}
				logging.LogWarn("ArtNet Monitor: UDP read error", "error", err)
				continue
			}

			packetCopy := make([]byte, n)
			copy(packetCopy, buffer[:n])

			select {
			case l.packetChan <- RawArtNetPacket{Data: packetCopy, From: remoteAddr}:
			case <-ctx.Done():
				return
			}
		}
	}()
}
