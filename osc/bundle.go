package osc

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
)

const (
	bundleTagString = "#bundle"
)

// Bundle represents an OSC bundle. It consists of the OSC-string "#bundle"
// followed by an OSC Time Tag, followed by zero or more OSC bundle/message
// elements. The OSC-timetag is a 64-bit fixed point time tag. See
// http://opensoundcontrol.org/spec-1_0.html for more information.
type Bundle struct {
	Timetag  Timetag
	Elements []Packet
}

// Verify that Bundle implements the Packet interface.
var _ Packet = (*Bundle)(nil)

// NewBundle returns a bundle tagged for immediate execution holding elems.
func NewBundle(elems ...Packet) *Bundle {
	return &Bundle{Timetag: NewImmediateTimetag(), Elements: elems}
}

// NewBundleWithTime returns an empty bundle tagged with t.
func NewBundleWithTime(t time.Time) *Bundle {
	return &Bundle{Timetag: NewTimetagFromTime(t)}
}

// Append appends an OSC bundle or OSC message to the bundle.
func (b *Bundle) Append(pck Packet) error {
	switch t := pck.(type) {
	default:
		return errors.Errorf("unsupported OSC packet type %T: only Bundle and Message are supported", t)

	case *Bundle, *Message:
		b.Elements = append(b.Elements, t)
	}

	return nil
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (b *Bundle) MarshalBinary() ([]byte, error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err := b.writeTo(data); err != nil {
		return nil, err
	}
	return append([]byte(nil), data.Bytes()...), nil
}

// writeTo serializes the bundle into data:
// 1. Bundle string: '#bundle'
// 2. OSC timetag
// 3. Length of first OSC bundle element
// 4. First bundle element
// 5. Length of n OSC bundle element
// 6. n bundle element
func (b *Bundle) writeTo(data *bytes.Buffer) error {
	writePaddedString(bundleTagString, data)

	var buf [bit64Size]byte
	binary.BigEndian.PutUint64(buf[:], uint64(b.Timetag))
	data.Write(buf[:])

	for _, elem := range b.Elements {
		bb, err := elem.MarshalBinary()
		if err != nil {
			return err
		}

		binary.BigEndian.PutUint32(buf[:bit32Size], uint32(len(bb)))
		data.Write(buf[:bit32Size])
		data.Write(bb)
	}

	if data.Len() > MaxPacketSize {
		return errors.Errorf("MarshalBinary: bundle too large: %d", data.Len())
	}

	return nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (b *Bundle) UnmarshalBinary(data []byte) error {
	if (len(data) % bit32Size) != 0 {
		return errors.Wrap(ErrInvalidPacket, "data isn't padded properly")
	}

	return b.unmarshalBinary(data)
}

func (b *Bundle) unmarshalBinary(data []byte) error {
	// Read the '#bundle' OSC string
	startTag, n, err := parsePaddedString(data)
	if err != nil {
		return err
	}
	data = data[n:]

	if startTag != bundleTagString {
		return errors.Wrapf(ErrInvalidPacket, "invalid bundle start tag: %q", startTag)
	}

	if len(data) < bit64Size {
		return errors.Wrap(ErrInvalidPacket, "bundle is too short for a timetag")
	}
	b.Timetag = Timetag(binary.BigEndian.Uint64(data[:bit64Size]))
	data = data[bit64Size:]

	b.Elements = nil

	// Read until the end of the buffer
	for len(data) > 0 {
		if len(data) < bit32Size {
			return errors.Wrap(ErrInvalidPacket, "bundle element size is truncated")
		}

		length := int32(binary.BigEndian.Uint32(data[:bit32Size]))
		data = data[bit32Size:]
		if length <= 0 || int(length) > len(data) || length%bit32Size != 0 {
			return errors.Wrapf(ErrInvalidPacket, "invalid bundle element length: %d", length)
		}

		p, err := parsePacket(data[:length])
		if err != nil {
			return errors.Wrap(err, "reading bundle element")
		}
		b.Elements = append(b.Elements, p)
		data = data[length:]
	}

	return nil
}
