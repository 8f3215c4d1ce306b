package processor

import (
	"context"

	"dmxMapper/internal/config"
	"dmxMapper/internal/domain/artnet"
	"dmxMapper/internal/domain/dmxmap"
	"dmxMapper/internal/logging"
)

type DestinationChannel chan<- artnet.DMXFrame

// Service remaps every routed frame with the shared mapper and forwards it
// under its output universe.
type Service struct {
	frameIn  <-chan *artnet.DMXFrame
	dest     DestinationChannel
	mapper   *dmxmap.Mapper
	channels int
	routes   map[int]config.Route
}

func NewService(
	frameIn <-chan *artnet.DMXFrame,
	dest DestinationChannel,
	mapper *dmxmap.Mapper,
	channels int,
	routes []config.Route,
) *Service {
	table := make(map[int]config.Route, len(routes))
	for _, r := range routes {
		table[r.In] = r
	}
	if len(table) == 0 {
		logging.LogWarn("Processor: no routes configured, frames will be dropped")
	}
	return &Service{
		frameIn:  frameIn,
		dest:     dest,
		mapper:   mapper,
		channels: channels,
		routes:   table,
	}
}

// Process maps one frame. ok is false when its universe is not routed.
func (s *Service) Process(in *artnet.DMXFrame) (out artnet.DMXFrame, ok bool) {
	route, ok := s.routes[in.Universe]
	if !ok {
		return out, false
	}

	out = *in
	out.Universe = route.Out
	data := out.Channels()

	if !logging.IsDebugMode() {
		s.mapper.Apply(data, s.channels)
		return out, true
	}

	before := in.Channels()
	s.mapper.Apply(data, s.channels)
	for c := range data {
		if data[c] != before[c] {
			logging.LogDebug("MAP", "universe", in.Universe, "chan", c, "from", before[c], "to", data[c])
		}
	}
	return out, true
}

func (s *Service) Start(ctx context.Context) {
	go func() {
		logging.LogInfo("Processor: service started", "routes", len(s.routes), "channels", s.channels)

		for {
			select {
			case <-ctx.Done():
				logging.LogInfo("Processor: service stopped")
				return

			case frame := <-s.frameIn:
				out, ok := s.Process(frame)
				if !ok {
					continue
				}
				select {
				case s.dest <- out:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
