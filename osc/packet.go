package osc

import (
	"encoding"

	"github.com/pkg/errors"
)

const (
	// MaxPacketSize is the largest packet the codec reads or writes. It matches
	// the receive buffer of the bridge, one Ethernet-sized datagram.
	MaxPacketSize = 1536

	bit32Size = 4
	bit64Size = 8
)

// ErrInvalidPacket is wrapped by every error ParsePacket returns.
var ErrInvalidPacket = errors.New("osc: invalid packet")

// Packet is the interface for Message and Bundle.
type Packet interface {
	encoding.BinaryMarshaler
}

// ParsePacket decodes a single OSC packet from data. The packet does not
// reference data after ParsePacket returns, so data may be reused.
func ParsePacket(data []byte) (Packet, error) {
	if len(data) > MaxPacketSize {
		return nil, errors.Wrapf(ErrInvalidPacket, "packet too large: %d", len(data))
	}
	return parsePacket(data)
}

// parsePacket decodes a message or bundle. It is also used for bundle elements.
func parsePacket(data []byte) (Packet, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidPacket, "empty packet")
	}

	if len(data)%bit32Size != 0 {
		return nil, errors.Wrapf(ErrInvalidPacket, "length %d isn't 32-bit aligned", len(data))
	}

	switch data[0] {
	case '/':
		m := &Message{}
		if err := m.unmarshalBinary(data); err != nil {
			return nil, err
		}
		return m, nil

	case '#':
		b := &Bundle{}
		if err := b.unmarshalBinary(data); err != nil {
			return nil, err
		}
		return b, nil

	default:
		return nil, errors.Wrapf(ErrInvalidPacket, "unexpected first byte %q", data[0])
	}
}
