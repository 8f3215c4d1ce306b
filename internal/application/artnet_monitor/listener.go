// internal/application/artnet_monitor/listener.go
package artnet_monitor

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	domain "dmxMapper/internal/domain/artnet"
	infra "dmxMapper/internal/infrastructure/artnet_monitor"
	"dmxMapper/internal/logging"
)

// ErrNotDMX marks valid Art-Net packets that are not ArtDmx (ArtPoll, ArtSync, ...).
var ErrNotDMX = errors.New("not an ArtDmx packet")

// --- PARSER ---

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes an ArtDmx packet. The declared length is clamped to the bytes present
// and to 512.
func (p *Parser) Parse(packet []byte) (*domain.DMXFrame, error) {
	if !domain.IsArtNet(packet) {
		return nil, fmt.Errorf("invalid Art-Net signature")
	}
	if len(packet) < 10 {
		return nil, fmt.Errorf("Art-Net packet too short (%d bytes)", len(packet))
	}

	opCode := binary.LittleEndian.Uint16(packet[8:10])
	if opCode != domain.OpDmx {
		return nil, fmt.Errorf("%w (OpCode: 0x%x)", ErrNotDMX, opCode)
	}

	if len(packet) < domain.HeaderSize+1 {
		return nil, fmt.Errorf("ArtDmx packet too short (%d bytes)", len(packet))
	}

	sequence := packet[12]
	universe := int(binary.LittleEndian.Uint16(packet[14:16]))
	dataLength := int(binary.BigEndian.Uint16(packet[16:18]))
	if avail := len(packet) - domain.HeaderSize; dataLength > avail {
		dataLength = avail
	}
	if dataLength > domain.DMXDataSize {
		dataLength = domain.DMXDataSize
	}

	frame := &domain.DMXFrame{
		Universe: universe,
		Sequence: sequence,
		Length:   dataLength,
	}
	copy(frame.Data[:], packet[domain.HeaderSize:domain.HeaderSize+dataLength])
	return frame, nil
}

// Service turns raw packets into frames.
type Service struct {
	rawPacketIn <-chan infra.RawArtNetPacket
	parser      *Parser
	parsedOut   chan<- *domain.DMXFrame
}

func NewService(
	rawIn <-chan infra.RawArtNetPacket,
	parsedOut chan<- *domain.DMXFrame,
) *Service {
	return &Service{
		rawPacketIn: rawIn,
		parser:      NewParser(),
		parsedOut:   parsedOut,
	}
}

func (s *Service) Start(ctx context.Context) {
	go func() {
		for {
			var rawPkt infra.RawArtNetPacket
			select {
			case <-ctx.Done():
				return
			case rawPkt = <-s.rawPacketIn:
			}

			frame, err := s.parser.Parse(rawPkt.Data)
			if err != nil {
				if !errors.Is(err, ErrNotDMX) {
					logging.LogDebug("ArtNet Monitor: packet dropped", "error", err)
				}
				continue
			}
			if rawPkt.From != nil {
				frame.SourceIP = rawPkt.From.IP.String()
			}

			select {
			case s.parsedOut <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()
}
