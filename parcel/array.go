package parcel

import "fmt"

// Array layout: int32 length (-1 for nil) followed by the elements. Read-into
// calls fill the caller's slice in place and require the wire length to match.

func writeArray[T any](p *Parcel, s []T, put func(T)) {
	if s == nil {
		p.WriteInt32(-1)
		return
	}
	p.WriteInt32(int32(len(s)))
	for _, v := range s {
		put(v)
	}
}

func readLength(p *Parcel) (int, error) {
	n, err := p.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < -1 {
		return 0, ErrNegativeLength
	}
	return int(n), nil
}

func createArray[T any](p *Parcel, get func() (T, error)) ([]T, error) {
	n, err := readLength(p)
	if err != nil || n == -1 {
		return nil, err
	}
	// Every element takes at least four bytes.
	if n > p.Avail()/4 {
		return nil, ErrShortBuffer
	}
	out := make([]T, n)
	for i := range out {
		if out[i], err = get(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readArray[T any](p *Parcel, dst []T, get func() (T, error)) error {
	n, err := readLength(p)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return fmt.Errorf("%w: wire %d, storage %d", ErrBadLength, n, len(dst))
	}
	for i := range dst {
		if dst[i], err = get(); err != nil {
			return err
		}
	}
	return nil
}

// WriteInt32Array appends an int[].
func (p *Parcel) WriteInt32Array(s []int32) { writeArray(p, s, p.WriteInt32) }

// CreateInt32Array reads a new int[].
func (p *Parcel) CreateInt32Array() ([]int32, error) { return createArray(p, p.ReadInt32) }

// ReadInt32Array reads an int[] into dst.
func (p *Parcel) ReadInt32Array(dst []int32) error { return readArray(p, dst, p.ReadInt32) }

// WriteInt64Array appends a long[].
func (p *Parcel) WriteInt64Array(s []int64) { writeArray(p, s, p.WriteInt64) }

// CreateInt64Array reads a new long[].
func (p *Parcel) CreateInt64Array() ([]int64, error) { return createArray(p, p.ReadInt64) }

// ReadInt64Array reads a long[] into dst.
func (p *Parcel) ReadInt64Array(dst []int64) error { return readArray(p, dst, p.ReadInt64) }

// WriteFloat32Array appends a float[].
func (p *Parcel) WriteFloat32Array(s []float32) { writeArray(p, s, p.WriteFloat32) }

// CreateFloat32Array reads a new float[].
func (p *Parcel) CreateFloat32Array() ([]float32, error) { return createArray(p, p.ReadFloat32) }

// ReadFloat32Array reads a float[] into dst.
func (p *Parcel) ReadFloat32Array(dst []float32) error { return readArray(p, dst, p.ReadFloat32) }

// WriteFloat64Array appends a double[].
func (p *Parcel) WriteFloat64Array(s []float64) { writeArray(p, s, p.WriteFloat64) }

// CreateFloat64Array reads a new double[].
func (p *Parcel) CreateFloat64Array() ([]float64, error) { return createArray(p, p.ReadFloat64) }

// ReadFloat64Array reads a double[] into dst.
func (p *Parcel) ReadFloat64Array(dst []float64) error { return readArray(p, dst, p.ReadFloat64) }

// WriteBoolArray appends a boolean[], one int32 per element.
func (p *Parcel) WriteBoolArray(s []bool) { writeArray(p, s, p.WriteBool) }

// CreateBoolArray reads a new boolean[].
func (p *Parcel) CreateBoolArray() ([]bool, error) { return createArray(p, p.ReadBool) }

// ReadBoolArray reads a boolean[] into dst.
func (p *Parcel) ReadBoolArray(dst []bool) error { return readArray(p, dst, p.ReadBool) }

// WriteCharArray appends a char[], one int32 per element.
func (p *Parcel) WriteCharArray(s []uint16) { writeArray(p, s, p.WriteChar) }

// CreateCharArray reads a new char[].
func (p *Parcel) CreateCharArray() ([]uint16, error) { return createArray(p, p.ReadChar) }

// ReadCharArray reads a char[] into dst.
func (p *Parcel) ReadCharArray(dst []uint16) error { return readArray(p, dst, p.ReadChar) }

// WriteStringArray appends a String[]. Nil elements are written as null.
func (p *Parcel) WriteStringArray(s []*string) { writeArray(p, s, p.WriteNullableString) }

// CreateStringArray reads a new String[].
func (p *Parcel) CreateStringArray() ([]*string, error) {
	return createArray(p, p.ReadNullableString)
}

// ReadStringArray reads a String[] into dst.
func (p *Parcel) ReadStringArray(dst []*string) error {
	return readArray(p, dst, p.ReadNullableString)
}

// WriteInt8Array appends a byte[]. Unlike other arrays the elements are
// packed one per byte and the block is padded to four bytes.
func (p *Parcel) WriteInt8Array(s []int8) {
	if s == nil {
		p.WriteInt32(-1)
		return
	}
	p.WriteInt32(int32(len(s)))
	b := p.grow(pad4(len(s)))
	for i, v := range s {
		b[i] = byte(v)
	}
}

func (p *Parcel) int8Block(n int) ([]byte, error) {
	return p.next(pad4(n))
}

// CreateInt8Array reads a new byte[].
func (p *Parcel) CreateInt8Array() ([]int8, error) {
	n, err := readLength(p)
	if err != nil || n == -1 {
		return nil, err
	}
	b, err := p.int8Block(n)
	if err != nil {
		return nil, err
	}
	out := make([]int8, n)
	for i := range out {
		out[i] = int8(b[i])
	}
	return out, nil
}

// ReadInt8Array reads a byte[] into dst.
func (p *Parcel) ReadInt8Array(dst []int8) error {
	n, err := readLength(p)
	if err != nil {
		return err
	}
	if n != len(dst) {
		return fmt.Errorf("%w: wire %d, storage %d", ErrBadLength, n, len(dst))
	}
	b, err := p.int8Block(n)
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int8(b[i])
	}
	return nil
}
