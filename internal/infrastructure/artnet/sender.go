package artnet

import (
	"bytes"
	"context"
	"net"
	"time"

	domainArtnet "dmxMapper/internal/domain/artnet"
	"dmxMapper/internal/logging"
)

const dmxDataSize = domainArtnet.DMXDataSize
const tickDuration = 33 * time.Millisecond // ~30 FPS

// Sender keeps the latest frame of every output universe and sends it on each tick
// when it changed, plus a full refresh every refreshFrames ticks.
type Sender struct {
	conns          map[int]*net.UDPConn
	headerCache    map[int][]byte
	ticker         *time.Ticker
	lastSentFrames map[int]*[dmxDataSize]byte
	refreshFrames  int
	refreshCounter int
}

// NewSender dials one UDP socket per output universe. universeIP maps an output
// universe to the node IP, port is the destination Art-Net port.
func NewSender(universeIP map[int]string, port int, refreshFrames int) (*Sender, error) {
	if refreshFrames < 1 {
		refreshFrames = 1
	}
	s := &Sender{
		conns:          make(map[int]*net.UDPConn),
		headerCache:    make(map[int][]byte),
		ticker:         time.NewTicker(tickDuration),
		lastSentFrames: make(map[int]*[dmxDataSize]byte),
		refreshFrames:  refreshFrames,
	}

	for u, ip := range universeIP {
		s.headerCache[u] = domainArtnet.BuildArtNetHeader(u, dmxDataSize)

		addr := &net.UDPAddr{IP: net.ParseIP(ip), Port: port}
		conn, err := net.DialUDP("udp", nil, addr)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.conns[u] = conn
	}
	logging.LogInfo("ArtNet Sender: initialised", "universes", len(universeIP), "port", port)
	return s, nil
}

func (s *Sender) Run(ctx context.Context, in <-chan domainArtnet.DMXFrame) {
	logging.LogInfo("ArtNet Sender: send loop started")

	// only the most recent frame per universe survives until the next tick
	latestFrames := make(map[int]*[dmxDataSize]byte)

	for {
		select {

		case <-ctx.Done():
			s.Close()
			logging.LogInfo("ArtNet Sender: send loop stopped")
			return

		case msg := <-in:
			if _, ok := latestFrames[msg.Universe]; !ok {
				latestFrames[msg.Universe] = new([dmxDataSize]byte)
			}
			*latestFrames[msg.Universe] = msg.Data

		case <-s.ticker.C:
			s.refreshCounter++

			isForceRefresh := s.refreshCounter >= s.refreshFrames
			if isForceRefresh {
				s.refreshCounter = 0
			}

			var packetsToSend []struct {
				conn   *net.UDPConn
				packet []byte
				uni    int
			}

			for universe, currentData := range latestFrames {
				lastData, found := s.lastSentFrames[universe]

				if isForceRefresh || !found || !bytes.Equal(lastData[:], currentData[:]) {
					conn, ok := s.conns[universe]
					if !ok {
						continue
					}
					header := s.headerCache[universe]

					packetsToSend = append(packetsToSend, struct {
						conn   *net.UDPConn
						packet []byte
						uni    int
					}{conn, domainArtnet.BuildPacket(header, currentData[:]), universe})

					if !found {
						s.lastSentFrames[universe] = new([dmxDataSize]byte)
					}
					copy(s.lastSentFrames[universe][:], currentData[:])
				}
			}

			// spread the burst over a few milliseconds, some nodes drop back-to-back packets
			if len(packetsToSend) > 0 {
				pacingDuration := (6 * time.Millisecond) / time.Duration(len(packetsToSend))

				for _, p := range packetsToSend {
					logging.LogDebug("ArtNet Sender: sending", "universe", p.uni, "to", p.conn.RemoteAddr().String(), "bytes", len(p.packet))
					if _, err := p.conn.Write(p.packet); err != nil {
						logging.LogDebug("ArtNet Sender: write failed", "universe", p.uni, "error", err)
					}
					time.Sleep(pacingDuration)
				}
			}
		}
	}
}

func (s *Sender) Close() {
	s.ticker.Stop()
	for _, conn := range s.conns {
		if conn != nil {
			conn.Close()
		}
	}
	logging.LogInfo("ArtNet Sender: ticker stopped, UDP connections closed")
}
