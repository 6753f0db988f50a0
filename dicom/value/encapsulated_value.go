package value

import (
	"fmt"

	"github.com/codeninja55/dcmstream/dicom/vr"
)

// fragment is a reference-counted, immutable byte buffer backing one
// encapsulated pixel data item. Sharing the underlying array across a
// PixelDataFrame and its owning EncapsulatedValue avoids copying fragment
// bytes when frames are carved out of the fragment list.
type fragment struct {
	data []byte
}

// Bytes returns the fragment's bytes. Callers must not modify the returned
// slice.
func (f *fragment) Bytes() []byte {
	return f.data
}

// Len returns the fragment's length in bytes.
func (f *fragment) Len() int {
	return len(f.data)
}

// EncapsulatedValue represents an encapsulated Pixel Data (7FE0,0010) value:
// an ordered list of fragments delimited on the wire by Item (FFFE,E000)
// headers, with undefined Value Length, per DICOM Part 5 Annex A.4.
//
// Fragment 0 is the Basic Offset Table when present (it may also be empty,
// meaning the offset table was not supplied and frame boundaries must be
// derived from codec-specific framing or an Extended Offset Table element).
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
type EncapsulatedValue struct {
	pixelDataVR vr.VR
	fragments   []*fragment
}

// NewEncapsulatedValue creates an EncapsulatedValue from an ordered list of
// fragment byte slices. pixelDataVR must be OB or OW.
func NewEncapsulatedValue(pixelDataVR vr.VR, fragments [][]byte) (*EncapsulatedValue, error) {
	if !pixelDataVR.MayBeEncapsulatedPixelData() {
		return nil, fmt.Errorf("VR %s cannot hold encapsulated pixel data", pixelDataVR.String())
	}

	frags := make([]*fragment, len(fragments))
	for i, f := range fragments {
		frags[i] = &fragment{data: f}
	}

	return &EncapsulatedValue{pixelDataVR: pixelDataVR, fragments: frags}, nil
}

// VR returns OB or OW, matching the pixel data element's VR.
func (e *EncapsulatedValue) VR() vr.VR {
	return e.pixelDataVR
}

// FragmentCount returns the number of fragments, including the Basic Offset
// Table fragment if present.
func (e *EncapsulatedValue) FragmentCount() int {
	return len(e.fragments)
}

// Fragment returns the raw bytes of the fragment at the given index.
func (e *EncapsulatedValue) Fragment(i int) ([]byte, error) {
	if i < 0 || i >= len(e.fragments) {
		return nil, fmt.Errorf("fragment index %d out of range [0, %d)", i, len(e.fragments))
	}
	return e.fragments[i].Bytes(), nil
}

// HasBasicOffsetTable returns true if fragment 0 carries a non-empty Basic
// Offset Table.
func (e *EncapsulatedValue) HasBasicOffsetTable() bool {
	return len(e.fragments) > 0 && e.fragments[0].Len() > 0
}

// String returns a human-readable summary.
func (e *EncapsulatedValue) String() string {
	total := 0
	for _, f := range e.fragments {
		total += f.Len()
	}
	return fmt.Sprintf("(Encapsulated %s, %d fragments, %d bytes)", e.pixelDataVR.String(), len(e.fragments), total)
}

// Bytes concatenates all fragments. Callers that need to preserve fragment
// boundaries (required to correctly locate frames) should use Fragment and
// FragmentCount instead.
func (e *EncapsulatedValue) Bytes() []byte {
	total := 0
	for _, f := range e.fragments {
		total += f.Len()
	}
	out := make([]byte, 0, total)
	for _, f := range e.fragments {
		out = append(out, f.Bytes()...)
	}
	return out
}

// Equals returns true if both values have the same VR and identical
// fragment bytes in the same order.
func (e *EncapsulatedValue) Equals(other Value) bool {
	otherEnc, ok := other.(*EncapsulatedValue)
	if !ok {
		return false
	}
	if e.pixelDataVR != otherEnc.pixelDataVR || len(e.fragments) != len(otherEnc.fragments) {
		return false
	}
	for i := range e.fragments {
		a, b := e.fragments[i].Bytes(), otherEnc.fragments[i].Bytes()
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

var _ Value = (*EncapsulatedValue)(nil)
