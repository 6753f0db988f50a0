package value

import (
	"fmt"
	"strings"

	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// Element is the minimal surface a nested sequence item's data element must
// satisfy. element.Element implements this interface; value cannot import
// element directly (element already imports value), so a structural
// interface is used instead of a concrete type.
type Element interface {
	Tag() tag.Tag
	VR() vr.VR
	Value() Value
	String() string
}

// SequenceItem is one item of a SQ element: an ordered list of data elements
// forming a nested dataset.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type SequenceItem struct {
	Elements []Element
}

// Get returns the element with the given tag in this item, if present.
func (it SequenceItem) Get(t tag.Tag) (Element, bool) {
	for _, e := range it.Elements {
		if e.Tag().Equals(t) {
			return e, true
		}
	}
	return nil, false
}

// SequenceValue represents a DICOM Sequence of Items (SQ) value: zero or
// more nested datasets.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type SequenceValue struct {
	items []SequenceItem
}

// NewSequenceValue creates a SequenceValue from the given items. A nil or
// empty slice produces a zero-item sequence.
func NewSequenceValue(items []SequenceItem) *SequenceValue {
	if items == nil {
		items = []SequenceItem{}
	}
	return &SequenceValue{items: items}
}

// VR always returns vr.SequenceOfItems.
func (s *SequenceValue) VR() vr.VR {
	return vr.SequenceOfItems
}

// Items returns the nested dataset items of this sequence.
func (s *SequenceValue) Items() []SequenceItem {
	return s.items
}

// String returns a human-readable summary of the sequence, including each
// item's elements indented beneath it.
func (s *SequenceValue) String() string {
	if len(s.items) == 0 {
		return "(Sequence with 0 items)"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("(Sequence with %d item%s)\n", len(s.items), pluralSuffix(len(s.items))))
	for i, item := range s.items {
		sb.WriteString(fmt.Sprintf("  Item %d:\n", i+1))
		sb.WriteString(sequenceItemString(item, "    "))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Bytes is not meaningful for sequences encoded with undefined length and
// item-delimited encoding; callers that need the on-wire representation of
// a sequence go through the P10 write engine's token stream instead of this
// method. Bytes returns an empty slice.
func (s *SequenceValue) Bytes() []byte {
	return []byte{}
}

// Equals returns true if this sequence equals another sequence: same item
// count, and each item's elements compare equal in tag, VR and value.
func (s *SequenceValue) Equals(other Value) bool {
	otherSeq, ok := other.(*SequenceValue)
	if !ok {
		return false
	}
	if len(s.items) != len(otherSeq.items) {
		return false
	}
	for i := range s.items {
		a, b := s.items[i].Elements, otherSeq.items[i].Elements
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j].Tag() != b[j].Tag() || a[j].VR() != b[j].VR() {
				return false
			}
			if !a[j].Value().Equals(b[j].Value()) {
				return false
			}
		}
	}
	return true
}

var _ Value = (*SequenceValue)(nil)

// sequenceItemString renders a SequenceItem's elements, indented, for use by
// callers building a human-readable dataset dump.
func sequenceItemString(it SequenceItem, indent string) string {
	var sb strings.Builder
	for _, e := range it.Elements {
		sb.WriteString(indent)
		sb.WriteString(e.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
