package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrArgument is returned when a message argument is missing or of the wrong type.
var ErrArgument = errors.New("osc: bad argument")

// Message represents a single OSC message. An OSC message consists of an OSC
// address pattern and zero or more arguments.
type Message struct {
	Address   string
	Arguments []interface{}
}

// Verify that Messages implements the Packet interface.
var _ Packet = (*Message)(nil)

// NewMessage returns a new Message. The address parameter is the OSC address.
func NewMessage(addr string, args ...interface{}) *Message {
	return &Message{Address: addr, Arguments: args}
}

// Append appends the given arguments to the arguments list.
// Arguments of a type OSC can't carry are rejected and nothing is appended.
func (m *Message) Append(args ...interface{}) error {
	for _, a := range args {
		if ToTypeTag(a) == TypeInvalid {
			return errors.Errorf("Append: unsupported type: %T", a)
		}
	}
	m.Arguments = append(m.Arguments, args...)
	return nil
}

// Float returns argument i as a float64. Float and integer arguments are
// converted; a missing argument or any other type is an error wrapping
// ErrArgument.
func (m *Message) Float(i int) (float64, error) {
	if i < 0 || i >= len(m.Arguments) {
		return 0, errors.Wrapf(ErrArgument, "argument %d missing, message has %d", i, len(m.Arguments))
	}

	switch v := m.Arguments[i].(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.Wrapf(ErrArgument, "argument %d has type tag %q, want a number", i, rune(ToTypeTag(v)))
	}
}

// TypeTags returns the type tag string.
func (m *Message) TypeTags() (string, error) {
	if m == nil {
		return "", errors.New("TypeTags: message is nil")
	}

	tags := make([]byte, 0, len(m.Arguments)+1)
	tags = append(tags, ',')
	for _, arg := range m.Arguments {
		t := ToTypeTag(arg)
		if t == TypeInvalid {
			return "", errors.Errorf("TypeTags: unsupported type: %T", arg)
		}
		tags = append(tags, byte(t))
	}

	return string(tags), nil
}

// String implements the fmt.Stringer interface.
func (m *Message) String() string {
	if m == nil {
		return ""
	}

	tags, _ := m.TypeTags()

	strBuf := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(strBuf)
	strBuf.Reset()

	strBuf.WriteString(m.Address)
	if len(m.Arguments) == 0 {
		return strBuf.String()
	}

	strBuf.WriteByte(' ')
	strBuf.WriteString(tags)

	for _, arg := range m.Arguments {
		switch arg := arg.(type) {
		case bool, int32, int64, float32, float64, string:
			fmt.Fprintf(strBuf, " %v", arg)

		case nil:
			strBuf.WriteString(" Nil")

		case []byte:
			strBuf.WriteString(" blob")

		case Timetag:
			fmt.Fprintf(strBuf, " %d", uint64(arg))
		}
	}

	return strBuf.String()
}

// MarshalBinary implements the encoding.BinaryMarshaler interface.
func (m *Message) MarshalBinary() ([]byte, error) {
	data := bufPool.Get().(*bytes.Buffer)
	defer bufPool.Put(data)
	data.Reset()

	if err := m.writeTo(data); err != nil {
		return nil, err
	}
	return append([]byte(nil), data.Bytes()...), nil
}

// writeTo serializes the message into data:
// 1. OSC Address Pattern
// 2. OSC Type Tag String
// 3. OSC Arguments
func (m *Message) writeTo(data *bytes.Buffer) error {
	typetags, err := m.TypeTags()
	if err != nil {
		return err
	}

	writePaddedString(m.Address, data)
	writePaddedString(typetags, data)

	var buf [bit64Size]byte
	for _, arg := range m.Arguments {
		switch t := arg.(type) {
		case bool, nil:
			continue
		case int32:
			binary.BigEndian.PutUint32(buf[:bit32Size], uint32(t))
			data.Write(buf[:bit32Size])
		case float32:
			binary.BigEndian.PutUint32(buf[:bit32Size], math.Float32bits(t))
			data.Write(buf[:bit32Size])
		case int64:
			binary.BigEndian.PutUint64(buf[:], uint64(t))
			data.Write(buf[:])
		case float64:
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(t))
			data.Write(buf[:])
		case Timetag:
			binary.BigEndian.PutUint64(buf[:], uint64(t))
			data.Write(buf[:])
		case string:
			writePaddedString(t, data)
		case []byte:
			writeBlob(t, data)
		}
	}

	if data.Len() > MaxPacketSize {
		return errors.Errorf("MarshalBinary: packet too large: %d", data.Len())
	}

	return nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) == 0 || data[0] != '/' {
		return errors.Wrap(ErrInvalidPacket, "data not a valid OSC message")
	}

	if (len(data) % bit32Size) != 0 {
		return errors.Wrap(ErrInvalidPacket, "data isn't mod 4")
	}

	return m.unmarshalBinary(data)
}

func (m *Message) unmarshalBinary(data []byte) error {
	// First, read the OSC address
	addr, n, err := parsePaddedString(data)
	if err != nil {
		return errors.Wrap(err, "reading address")
	}

	m.Address = addr
	if err = m.parseArguments(data[n:]); err != nil {
		return errors.Wrapf(err, "reading arguments of %s", addr)
	}

	return nil
}

// parseArguments reads the type tag string and the arguments it describes.
func (m *Message) parseArguments(data []byte) error {
	m.Arguments = nil

	// Old senders may omit the type tag string entirely.
	if len(data) == 0 {
		return nil
	}

	typetags, n, err := parsePaddedString(data)
	if err != nil {
		return errors.Wrap(err, "reading type tags")
	}
	data = data[n:]

	// If the typetag doesn't start with ',', it's not valid
	if len(typetags) == 0 || typetags[0] != ',' {
		return errors.Wrapf(ErrInvalidPacket, "unsupported typetag string: %q", typetags)
	}

	if len(typetags) == 1 {
		return nil
	}

	m.Arguments = make([]interface{}, 0, len(typetags)-1)

	for i := 1; i < len(typetags); i++ {
		c := TypeTag(typetags[i])
		if size := c.size(); len(data) < size {
			return errors.Wrapf(ErrInvalidPacket, "not enough data for argument %d (%c)", i-1, c)
		}

		switch c {
		default:
			return errors.Wrapf(ErrInvalidPacket, "unsupported typetag: %q", rune(c))

		case TypeInt32:
			m.Arguments = append(m.Arguments, int32(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeInt64:
			m.Arguments = append(m.Arguments, int64(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeFloat32:
			m.Arguments = append(m.Arguments, math.Float32frombits(binary.BigEndian.Uint32(data)))
			data = data[bit32Size:]

		case TypeFloat64:
			m.Arguments = append(m.Arguments, math.Float64frombits(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeTimeTag:
			m.Arguments = append(m.Arguments, Timetag(binary.BigEndian.Uint64(data)))
			data = data[bit64Size:]

		case TypeString:
			str, n, err := parsePaddedString(data)
			if err != nil {
				return err
			}
			m.Arguments = append(m.Arguments, str)
			data = data[n:]

		case TypeBlob:
			blob, n, err := parseBlob(data)
			if err != nil {
				return err
			}
			m.Arguments = append(m.Arguments, blob)
			data = data[n:]

		case TypeNil:
			m.Arguments = append(m.Arguments, nil)

		case TypeTrue:
			m.Arguments = append(m.Arguments, true)

		case TypeFalse:
			m.Arguments = append(m.Arguments, false)
		}
	}

	return nil
}
