package e32

const (
	// MaxFrameCapacity is the size of the module's transmit buffer.
	MaxFrameCapacity = 512

	// DefaultFrameCapacity fits one 58 byte sub-packet behind the header.
	DefaultFrameCapacity = frameHeaderSize + 58

	frameHeaderSize = 3
)

// Frame is a fixed-address transmission: ADDH ADDL CHAN followed by the
// payload. It lives in a fixed array and never grows past its capacity.
type Frame struct {
	buf      [MaxFrameCapacity]byte
	n        int
	capacity int
}

// NewFrame lays out data for addr and channel in a frame of the given
// capacity. It fails with a *WriteSizeError when the capacity is outside
// (3, MaxFrameCapacity] or the payload does not fit behind the header.
func NewFrame(data []byte, addr uint16, channel uint8, capacity int) (Frame, error) {
	var f Frame
	if capacity <= frameHeaderSize || capacity > MaxFrameCapacity {
		return f, &WriteSizeError{Capacity: capacity}
	}
	if len(data) > capacity-frameHeaderSize {
		return f, &WriteSizeError{Capacity: capacity}
	}
	f.capacity = capacity
	f.buf[0] = byte(addr >> 8)
	f.buf[1] = byte(addr)
	f.buf[2] = channel
	f.n = frameHeaderSize + copy(f.buf[frameHeaderSize:capacity], data)
	return f, nil
}

// Bytes returns the frame contents. The slice aliases the frame.
func (f *Frame) Bytes() []byte { return f.buf[:f.n] }

func (f *Frame) Len() int { return f.n }

func (f *Frame) Cap() int { return f.capacity }

func (f *Frame) Address() uint16 { return uint16(f.buf[0])<<8 | uint16(f.buf[1]) }

func (f *Frame) Channel() uint8 { return f.buf[2] }

// Payload returns the bytes following the header.
func (f *Frame) Payload() []byte { return f.buf[frameHeaderSize:f.n] }
