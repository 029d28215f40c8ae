package bridge

// PacketReader reads frames in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes frames in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes frames in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
