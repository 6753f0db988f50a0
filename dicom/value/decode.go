package value

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/codeninja55/dcmstream/dicom/vr"
)

// Decode interprets raw, fully-materialized element value bytes under the
// given VR and byte order, returning the typed Value the P10 read engine's
// token stream is built on top of. It mirrors the per-VR dispatch the
// teacher's element parser performed inline against a blocking reader, but
// operates on an already-accumulated byte slice so callers assembling a
// DataSet from DataElementValueBytes tokens (which may arrive in several
// chunks) decode once per element rather than once per chunk.
//
// Decode does not handle vr.SequenceOfItems: sequence values are built
// structurally from nested SequenceItemStart/SequenceItemDelimiter tokens,
// not decoded from a flat byte buffer.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
// Transcoder converts raw element value bytes from a non-default character
// repertoire into UTF-8, per the (0008,0005) Specific Character Set active
// for the data set being read. vrAbbrev is the two-letter VR abbreviation
// of the element being decoded, since PN values transcode their "="
// component groups independently of other string VRs. dicom/charset.Decoder
// implements this interface.
type Transcoder interface {
	Transcode(vrAbbrev string, data []byte) []byte
}

// DecodeText behaves like Decode, except that for VRs whose values carry
// text in a character repertoire other than the default (VRs where
// v.TranscodesCharacters() is true), it runs data through dec first. dec
// may be nil, in which case DecodeText behaves exactly like Decode.
func DecodeText(v vr.VR, data []byte, order binary.ByteOrder, dec Transcoder) (Value, error) {
	if dec != nil && v.TranscodesCharacters() {
		data = dec.Transcode(v.String(), data)
	}
	return Decode(v, data, order)
}

func Decode(v vr.VR, data []byte, order binary.ByteOrder) (Value, error) {
	switch {
	case v == vr.SequenceOfItems:
		return nil, fmt.Errorf("value: Decode does not handle VR %s; build SequenceValue from nested items", v)

	case v == vr.PersonName:
		return NewPersonNameValue(splitBackslash(trimPad(data)))

	case v.IsStringType():
		return NewStringValue(v, splitBackslash(trimPad(data)))

	case v == vr.FloatingPointSingle || v == vr.FloatingPointDouble:
		return decodeFloat(v, data, order)

	case v == vr.AttributeTag:
		return decodeAttributeTag(data, order)

	case isFixedWidthInt(v):
		return decodeInt(v, data, order)

	default:
		return NewBytesValue(v, data)
	}
}

func trimPad(data []byte) string {
	return strings.TrimRight(string(data), "\x00 ")
}

func splitBackslash(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\\")
}

func isFixedWidthInt(v vr.VR) bool {
	switch v {
	case vr.SignedShort, vr.UnsignedShort, vr.SignedLong, vr.UnsignedLong,
		vr.SignedVeryLong, vr.UnsignedVeryLong:
		return true
	default:
		return false
	}
}

func decodeInt(v vr.VR, data []byte, order binary.ByteOrder) (*IntValue, error) {
	var width int
	switch v {
	case vr.SignedShort, vr.UnsignedShort:
		width = 2
	case vr.SignedLong, vr.UnsignedLong:
		width = 4
	case vr.SignedVeryLong, vr.UnsignedVeryLong:
		width = 8
	default:
		return nil, fmt.Errorf("value: Decode: unsupported integer VR %s", v)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("value: Decode: length %d is not a multiple of %d for VR %s", len(data), width, v)
	}

	n := len(data) / width
	values := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		chunk := data[i*width : (i+1)*width]
		switch v {
		case vr.SignedShort:
			values = append(values, int64(int16(order.Uint16(chunk))))
		case vr.UnsignedShort:
			values = append(values, int64(order.Uint16(chunk)))
		case vr.SignedLong:
			values = append(values, int64(int32(order.Uint32(chunk))))
		case vr.UnsignedLong:
			values = append(values, int64(order.Uint32(chunk)))
		case vr.SignedVeryLong:
			values = append(values, int64(order.Uint64(chunk)))
		case vr.UnsignedVeryLong:
			values = append(values, int64(order.Uint64(chunk)))
		}
	}
	return NewIntValue(v, values)
}

func decodeAttributeTag(data []byte, order binary.ByteOrder) (*IntValue, error) {
	const width = 4
	if len(data)%width != 0 {
		return nil, fmt.Errorf("value: Decode: length %d is not a multiple of %d for VR AT", len(data), width)
	}
	n := len(data) / width
	values := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		chunk := data[i*width : (i+1)*width]
		group := order.Uint16(chunk[0:2])
		element := order.Uint16(chunk[2:4])
		values = append(values, int64(uint32(group)<<16|uint32(element)))
	}
	return NewIntValue(vr.AttributeTag, values)
}

func decodeFloat(v vr.VR, data []byte, order binary.ByteOrder) (*FloatValue, error) {
	var width int
	switch v {
	case vr.FloatingPointSingle:
		width = 4
	case vr.FloatingPointDouble:
		width = 8
	default:
		return nil, fmt.Errorf("value: Decode: unsupported float VR %s", v)
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("value: Decode: length %d is not a multiple of %d for VR %s", len(data), width, v)
	}

	n := len(data) / width
	values := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		chunk := data[i*width : (i+1)*width]
		if v == vr.FloatingPointSingle {
			values = append(values, float64(math.Float32frombits(order.Uint32(chunk))))
		} else {
			values = append(values, math.Float64frombits(order.Uint64(chunk)))
		}
	}
	return NewFloatValue(v, values)
}
