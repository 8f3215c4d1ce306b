package simulator

import (
	"context"
	"time"

	domainArtnet "dmxMapper/internal/domain/artnet"
)

const rampInterval = 100 * time.Millisecond

// RampFrame returns a full frame on universe with every channel set to step.
func RampFrame(universe int, step byte) *domainArtnet.DMXFrame {
	frame := &domainArtnet.DMXFrame{
		SourceIP: "simulator",
		Universe: universe,
		Sequence: step,
		Length:   domainArtnet.DMXDataSize,
	}
	for c := range frame.Data {
		frame.Data[c] = step
	}
	return frame
}

// RunRamp feeds a rising ramp into out every 100ms until ctx is done.
func RunRamp(ctx context.Context, out chan<- *domainArtnet.DMXFrame, universe int) {
	go func() {
		t := time.NewTicker(rampInterval)
		defer t.Stop()

		var step byte
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				select {
				case out <- RampFrame(universe, step):
				case <-ctx.Done():
					return
				}
				step++
			}
		}
	}()
}
