// Package parcel is a flat marshaling buffer for generated Parcelable
// implementations. Every value is written as a one-byte tag followed by
// its msgpack encoding; nested Parcelable values carry the name they were
// registered under so a Loader can reconstruct them.
package parcel

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrUnknownType is returned when no creator is registered for a name
	ErrUnknownType = errors.New("parcel: unknown parcelable type")
	// ErrTypeMismatch is returned when a read value has an unexpected type
	ErrTypeMismatch = errors.New("parcel: type mismatch")
)

const (
	tagNull byte = iota
	tagValue
	tagParcelable
)

// Parcelable is implemented by types that write themselves to a Parcel
type Parcelable interface {
	DescribeContents() int
	WriteToParcel(dest *Parcel, flags int) error
}

// Parcel is a sequential write-then-read buffer
type Parcel struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
	dec *msgpack.Decoder
}

// New returns an empty parcel
func New() *Parcel {
	return FromBytes(nil)
}

// FromBytes returns a parcel positioned at the start of data
func FromBytes(data []byte) *Parcel {
	buf := bytes.NewBuffer(data)
	return &Parcel{
		buf: buf,
		enc: msgpack.NewEncoder(buf),
		dec: msgpack.NewDecoder(buf),
	}
}

// Bytes returns the unread contents of the parcel
func (p *Parcel) Bytes() []byte {
	return p.buf.Bytes()
}

// Len returns the number of unread bytes
func (p *Parcel) Len() int {
	return p.buf.Len()
}

// WriteValue appends v. Nil pointers, slices and maps are written as null.
func (p *Parcel) WriteValue(v any) error {
	if isNil(v) {
		return p.enc.EncodeUint8(tagNull)
	}

	if pv, ok := v.(Parcelable); ok {
		nested := New()
		if err := pv.WriteToParcel(nested, 0); err != nil {
			return fmt.Errorf("writing %T: %w", v, err)
		}
		if err := p.enc.EncodeUint8(tagParcelable); err != nil {
			return err
		}
		if err := p.enc.EncodeString(TypeName(reflect.TypeOf(v))); err != nil {
			return err
		}
		return p.enc.EncodeBytes(nested.Bytes())
	}

	if err := p.enc.EncodeUint8(tagValue); err != nil {
		return err
	}
	return p.enc.Encode(v)
}

// ReadValue reads the next value as a T. Parcelable values are created
// through loader; a nil loader means DefaultLoader.
func ReadValue[T any](p *Parcel, loader *Loader) (T, error) {
	var out T

	tag, err := p.dec.DecodeUint8()
	if err != nil {
		return out, fmt.Errorf("reading tag: %w", err)
	}

	switch tag {
	case tagNull:
		return out, nil
	case tagValue:
		if err := p.dec.Decode(&out); err != nil {
			return out, fmt.Errorf("decoding %T: %w", out, err)
		}
		return out, nil
	case tagParcelable:
		name, err := p.dec.DecodeString()
		if err != nil {
			return out, fmt.Errorf("reading type name: %w", err)
		}
		data, err := p.dec.DecodeBytes()
		if err != nil {
			return out, fmt.Errorf("reading %s: %w", name, err)
		}
		if loader == nil {
			loader = DefaultLoader
		}
		v, err := loader.Create(name, FromBytes(data))
		if err != nil {
			return out, err
		}
		typed, ok := v.(T)
		if !ok {
			return out, fmt.Errorf("%w: %s is %T, want %T", ErrTypeMismatch, name, v, out)
		}
		return typed, nil
	default:
		return out, fmt.Errorf("%w: unknown tag %d", ErrTypeMismatch, tag)
	}
}

// TypeName is the name a type is registered under: its package path and
// name, with pointers dereferenced
func TypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
