package vam

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// arrowTypeFor maps a vam.Integer element type to its Arrow primitive
// type, so a SegPtr's element type determines the array.Array it exposes.
func arrowTypeFor[T Integer]() (arrow.DataType, error) {
	var z T
	switch any(z).(type) {
	case int8:
		return arrow.PrimitiveTypes.Int8, nil
	case uint8:
		return arrow.PrimitiveTypes.Uint8, nil
	case int16:
		return arrow.PrimitiveTypes.Int16, nil
	case uint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case int32:
		return arrow.PrimitiveTypes.Int32, nil
	case uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case int64:
		return arrow.PrimitiveTypes.Int64, nil
	case uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	default:
		return nil, fmt.Errorf("vam: no arrow type for %T", z)
	}
}

// Arrow exposes this view's bytes as an arrow.Array, wrapping the existing
// buffer with memory.NewBufferBytes rather than copying through a builder:
// the array shares storage with the SegPtr it came from, so it stays valid
// only as long as the SegPtr's allocation does. SegPtr columns carry no
// nulls, so the array's validity bitmap buffer is nil (interpreted as
// all-valid).
func (p SegPtr[T]) Arrow() (arrow.Array, error) {
	dt, err := arrowTypeFor[T]()
	if err != nil {
		return nil, err
	}
	buf := memory.NewBufferBytes(p.raw())
	data := array.NewData(dt, p.Size(), []*memory.Buffer{nil, buf}, nil, 0, 0)
	defer data.Release()
	return array.MakeFromData(data), nil
}
