package value_test

import (
	"testing"

	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeElement is a minimal value.Element implementation for sequence tests,
// avoiding an import of the element package (which itself imports value).
type fakeElement struct {
	tag tag.Tag
	vr  vr.VR
	val value.Value
}

func (f fakeElement) Tag() tag.Tag     { return f.tag }
func (f fakeElement) VR() vr.VR        { return f.vr }
func (f fakeElement) Value() value.Value { return f.val }
func (f fakeElement) String() string   { return f.tag.String() + " " + f.vr.String() }

func TestSequenceValue_EmptySequence(t *testing.T) {
	seq := value.NewSequenceValue(nil)
	assert.Equal(t, vr.SequenceOfItems, seq.VR())
	assert.Empty(t, seq.Items())
	assert.Equal(t, "(Sequence with 0 items)", seq.String())
}

func TestSequenceValue_NestedItems(t *testing.T) {
	sv, err := value.NewStringValue(vr.CodeString, []string{"ORIGINAL"})
	require.NoError(t, err)

	item := value.SequenceItem{
		Elements: []value.Element{
			fakeElement{tag: tag.Modality, vr: vr.CodeString, val: sv},
		},
	}
	seq := value.NewSequenceValue([]value.SequenceItem{item})

	require.Len(t, seq.Items(), 1)
	elem, ok := seq.Items()[0].Get(tag.Modality)
	require.True(t, ok)
	assert.Equal(t, "ORIGINAL", elem.Value().String())
}

func TestSequenceValue_Equals(t *testing.T) {
	sv, err := value.NewStringValue(vr.CodeString, []string{"CT"})
	require.NoError(t, err)
	item := value.SequenceItem{Elements: []value.Element{fakeElement{tag: tag.Modality, vr: vr.CodeString, val: sv}}}

	a := value.NewSequenceValue([]value.SequenceItem{item})
	b := value.NewSequenceValue([]value.SequenceItem{item})
	c := value.NewSequenceValue(nil)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
