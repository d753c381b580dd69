// Package parcel is a Go implementation of the Android parcel wire layout for
// the value types the Java generator marshals.
//
// Every value occupies a multiple of four bytes. Scalars narrower than 32 bits
// (boolean, byte, char) are widened to int32. Strings are UTF-16 with a
// leading character count and a NUL terminator; a null string is the count -1.
// Arrays carry a leading int32 length, with -1 meaning null.
//
// The package exists so that generated write/read pairs can be checked for
// layout compatibility without a device.
package parcel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf16"
)

var (
	// ErrShortBuffer is returned when a read runs past the end of the data.
	ErrShortBuffer = errors.New("parcel: read past end of data")

	// ErrBadLength is returned when a read-into call receives an array whose
	// length does not match the length on the wire.
	ErrBadLength = errors.New("parcel: bad array length")

	// ErrNegativeLength is returned for a length below -1.
	ErrNegativeLength = errors.New("parcel: negative length")
)

var order = binary.LittleEndian

// Parcel is a growable buffer with a read cursor.
type Parcel struct {
	data []byte
	pos  int
}

// New returns an empty parcel ready for writing.
func New() *Parcel {
	return &Parcel{}
}

// From returns a parcel that reads data from the beginning.
func From(data []byte) *Parcel {
	return &Parcel{data: data}
}

// Bytes returns the marshaled data.
func (p *Parcel) Bytes() []byte { return p.data }

// Len returns the total size of the data in bytes.
func (p *Parcel) Len() int { return len(p.data) }

// Position returns the read cursor.
func (p *Parcel) Position() int { return p.pos }

// SetPosition moves the read cursor.
func (p *Parcel) SetPosition(pos int) { p.pos = pos }

// Avail returns the number of unread bytes.
func (p *Parcel) Avail() int { return len(p.data) - p.pos }

func (p *Parcel) grow(n int) []byte {
	start := len(p.data)
	p.data = append(p.data, make([]byte, n)...)
	return p.data[start:]
}

func (p *Parcel) next(n int) ([]byte, error) {
	if n < 0 || p.Avail() < n {
		return nil, ErrShortBuffer
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

func pad4(n int) int { return (n + 3) &^ 3 }

// WriteInt32 appends a 32-bit integer.
func (p *Parcel) WriteInt32(v int32) {
	order.PutUint32(p.grow(4), uint32(v))
}

// ReadInt32 reads a 32-bit integer.
func (p *Parcel) ReadInt32() (int32, error) {
	b, err := p.next(4)
	if err != nil {
		return 0, err
	}
	return int32(order.Uint32(b)), nil
}

// WriteInt64 appends a 64-bit integer.
func (p *Parcel) WriteInt64(v int64) {
	order.PutUint64(p.grow(8), uint64(v))
}

// ReadInt64 reads a 64-bit integer.
func (p *Parcel) ReadInt64() (int64, error) {
	b, err := p.next(8)
	if err != nil {
		return 0, err
	}
	return int64(order.Uint64(b)), nil
}

// WriteFloat32 appends an IEEE 754 single.
func (p *Parcel) WriteFloat32(v float32) {
	order.PutUint32(p.grow(4), math.Float32bits(v))
}

// ReadFloat32 reads an IEEE 754 single.
func (p *Parcel) ReadFloat32() (float32, error) {
	b, err := p.next(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(order.Uint32(b)), nil
}

// WriteFloat64 appends an IEEE 754 double.
func (p *Parcel) WriteFloat64(v float64) {
	order.PutUint64(p.grow(8), math.Float64bits(v))
}

// ReadFloat64 reads an IEEE 754 double.
func (p *Parcel) ReadFloat64() (float64, error) {
	b, err := p.next(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(order.Uint64(b)), nil
}

// WriteBool appends a boolean widened to int32.
func (p *Parcel) WriteBool(v bool) {
	var i int32
	if v {
		i = 1
	}
	p.WriteInt32(i)
}

// ReadBool reads a boolean; any non-zero int32 is true.
func (p *Parcel) ReadBool() (bool, error) {
	v, err := p.ReadInt32()
	return v != 0, err
}

// WriteInt8 appends a signed byte widened to int32.
func (p *Parcel) WriteInt8(v int8) { p.WriteInt32(int32(v)) }

// ReadInt8 reads a signed byte.
func (p *Parcel) ReadInt8() (int8, error) {
	v, err := p.ReadInt32()
	return int8(v), err
}

// WriteChar appends a UTF-16 code unit widened to int32.
func (p *Parcel) WriteChar(v uint16) { p.WriteInt32(int32(v)) }

// ReadChar reads a UTF-16 code unit.
func (p *Parcel) ReadChar() (uint16, error) {
	v, err := p.ReadInt32()
	return uint16(v), err
}

// WriteString appends a non-null string.
func (p *Parcel) WriteString(s string) { p.WriteNullableString(&s) }

// WriteNullableString appends s, or the null marker when s is nil.
func (p *Parcel) WriteNullableString(s *string) {
	if s == nil {
		p.WriteInt32(-1)
		return
	}
	units := utf16.Encode([]rune(*s))
	p.WriteInt32(int32(len(units)))
	b := p.grow(pad4((len(units) + 1) * 2))
	for i, u := range units {
		order.PutUint16(b[i*2:], u)
	}
}

// ReadNullableString reads a string that may be null.
func (p *Parcel) ReadNullableString() (*string, error) {
	n, err := p.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	if n < 0 {
		return nil, fmt.Errorf("string: %w", ErrNegativeLength)
	}
	b, err := p.next(pad4((int(n) + 1) * 2))
	if err != nil {
		return nil, err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = order.Uint16(b[i*2:])
	}
	s := string(utf16.Decode(units))
	return &s, nil
}

// ReadString reads a string, mapping null to the empty string.
func (p *Parcel) ReadString() (string, error) {
	s, err := p.ReadNullableString()
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}
