package artnet

import (
	"fmt"
)

const DMXDataSize = 512

// DMXFrame is one ArtDmx payload for a universe.
type DMXFrame struct {
	SourceIP string
	Universe int
	Sequence uint8
	Length   int
	Data     [DMXDataSize]byte
}

func (f DMXFrame) String() string {
	return fmt.Sprintf("[ArtNet] Source: %s | Universe: %d | Seq: %d | Len: %d | Data[0..3]: { %d, %d, %d, %d }",
		f.SourceIP, f.Universe, f.Sequence, f.Length, f.Data[0], f.Data[1], f.Data[2], f.Data[3])
}

// Channels returns the used part of Data.
func (f *DMXFrame) Channels() []byte {
	n := f.Length
	if n < 0 || n > DMXDataSize {
		n = DMXDataSize
	}
	return f.Data[:n]
}
