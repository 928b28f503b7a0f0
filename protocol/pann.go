package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/BaisilG/fbmeshd/state"
)

// FrameType discriminates mesh path frames on the wire.
type FrameType uint8

const (
	FrameTypePann FrameType = 0
)

var (
	ErrMalformedFrame   = errors.New("malformed mesh path frame")
	ErrUnknownFrameType = errors.New("unknown mesh path frame type")
)

// Pann is a proactive path announcement flooded by roots and gates.
// ReplyRequested is carried on the wire but unused; it is preserved verbatim.
type Pann struct {
	OrigAddr       state.MacAddress
	OrigSn         uint64
	HopCount       uint8
	Ttl            uint8
	TargetAddr     state.MacAddress
	Metric         uint32
	IsGate         bool
	ReplyRequested bool
}

func (f Pann) String() string {
	return fmt.Sprintf("pann orig %s sn %d hops %d ttl %d metric %d gate %t",
		f.OrigAddr, f.OrigSn, f.HopCount, f.Ttl, f.Metric, f.IsGate)
}

func encodeBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// EncodePann serializes the frame into the length-prefixed compact layout:
// frame type, origin address, origin sequence number (uvarint), hop count,
// ttl, target address, metric (uvarint), gate flag, reply flag.
func EncodePann(f Pann) []byte {
	payload := make([]byte, 0, 32)
	payload = binary.AppendUvarint(payload, uint64(FrameTypePann))
	payload = append(payload, f.OrigAddr[:]...)
	payload = binary.AppendUvarint(payload, f.OrigSn)
	payload = append(payload, f.HopCount, f.Ttl)
	payload = append(payload, f.TargetAddr[:]...)
	payload = binary.AppendUvarint(payload, uint64(f.Metric))
	payload = encodeBool(payload, f.IsGate)
	payload = encodeBool(payload, f.ReplyRequested)

	buf := make([]byte, 0, len(payload)+2)
	buf = binary.AppendUvarint(buf, uint64(len(payload)))
	return append(buf, payload...)
}

type frameReader struct {
	buf []byte
	pos int
	err error
}

func (r *frameReader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		r.err = ErrMalformedFrame
		return 0
	}
	r.pos += n
	return v
}

func (r *frameReader) mac() state.MacAddress {
	if r.err != nil {
		return state.MacAddress{}
	}
	if len(r.buf)-r.pos < 6 {
		r.err = ErrMalformedFrame
		return state.MacAddress{}
	}
	mac := state.MacAddress(r.buf[r.pos : r.pos+6])
	r.pos += 6
	return mac
}

func (r *frameReader) byte() byte {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.buf) {
		r.err = ErrMalformedFrame
		return 0
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

func (r *frameReader) bool() bool {
	return r.byte() != 0
}

// DecodePann parses a frame produced by EncodePann. Trailing bytes after the
// declared length are tolerated; anything short or inconsistent is rejected.
func DecodePann(data []byte) (Pann, error) {
	length, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data)-n) < length {
		return Pann{}, ErrMalformedFrame
	}
	r := &frameReader{buf: data[n : n+int(length)]}

	frameType := r.uvarint()
	if r.err != nil {
		return Pann{}, r.err
	}
	if FrameType(frameType) != FrameTypePann {
		return Pann{}, ErrUnknownFrameType
	}

	var f Pann
	f.OrigAddr = r.mac()
	f.OrigSn = r.uvarint()
	f.HopCount = r.byte()
	f.Ttl = r.byte()
	f.TargetAddr = r.mac()
	metric := r.uvarint()
	f.IsGate = r.bool()
	f.ReplyRequested = r.bool()
	if r.err != nil {
		return Pann{}, r.err
	}
	if metric > uint64(^uint32(0)) {
		return Pann{}, ErrMalformedFrame
	}
	f.Metric = uint32(metric)
	if r.pos != len(r.buf) {
		return Pann{}, ErrMalformedFrame
	}
	return f, nil
}
