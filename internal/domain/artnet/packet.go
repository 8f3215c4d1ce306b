package artnet

import "encoding/binary"

const (
	HeaderSize  = 18
	OpDmx       = 0x5000
	ProtocolVer = 14
	signature   = "Art-Net\x00"
)

// BuildArtNetHeader builds the 18 byte ArtDmx header for a universe and payload length.
// The sequence byte is left at 0 (sequencing disabled).
func BuildArtNetHeader(universe int, length int) []byte {
	header := make([]byte, HeaderSize)
	copy(header[0:8], []byte(signature))
	binary.LittleEndian.PutUint16(header[8:10], OpDmx)
	binary.BigEndian.PutUint16(header[10:12], ProtocolVer)
	header[12] = 0 // sequence
	header[13] = 0 // physical port
	binary.LittleEndian.PutUint16(header[14:16], uint16(universe))
	binary.BigEndian.PutUint16(header[16:18], uint16(length))
	return header
}

// BuildPacket returns header followed by data.
func BuildPacket(header []byte, data []byte) []byte {
	packet := make([]byte, len(header)+len(data))
	copy(packet, header)
	copy(packet[len(header):], data)
	return packet
}

// IsArtNet reports whether packet starts with the Art-Net signature.
func IsArtNet(packet []byte) bool {
	return len(packet) >= 8 && string(packet[0:8]) == signature
}
