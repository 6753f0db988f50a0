package value_test

import (
	"testing"

	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncapsulatedValue_RejectsNonPixelDataVR(t *testing.T) {
	_, err := value.NewEncapsulatedValue(vr.OtherFloat, nil)
	require.Error(t, err)
}

func TestEncapsulatedValue_EmptyOffsetTableFragment(t *testing.T) {
	enc, err := value.NewEncapsulatedValue(vr.OtherByte, [][]byte{
		{}, // empty Basic Offset Table
		{0x01, 0x02, 0x03, 0x04},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, enc.FragmentCount())
	assert.False(t, enc.HasBasicOffsetTable())

	frag, err := enc.Fragment(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, frag)
}

func TestEncapsulatedValue_BasicOffsetTablePresent(t *testing.T) {
	enc, err := value.NewEncapsulatedValue(vr.OtherByte, [][]byte{
		{0x00, 0x00, 0x00, 0x00},
		{0xAA, 0xBB},
	})
	require.NoError(t, err)
	assert.True(t, enc.HasBasicOffsetTable())
}

func TestEncapsulatedValue_FragmentOutOfRange(t *testing.T) {
	enc, err := value.NewEncapsulatedValue(vr.OtherWord, [][]byte{{0x01}})
	require.NoError(t, err)

	_, err = enc.Fragment(5)
	require.Error(t, err)
}

func TestEncapsulatedValue_BytesConcatenatesFragments(t *testing.T) {
	enc, err := value.NewEncapsulatedValue(vr.OtherByte, [][]byte{
		{0x01, 0x02},
		{0x03, 0x04},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, enc.Bytes())
}

func TestEncapsulatedValue_Equals(t *testing.T) {
	a, _ := value.NewEncapsulatedValue(vr.OtherByte, [][]byte{{0x01}, {0x02}})
	b, _ := value.NewEncapsulatedValue(vr.OtherByte, [][]byte{{0x01}, {0x02}})
	c, _ := value.NewEncapsulatedValue(vr.OtherByte, [][]byte{{0x01}, {0x03}})

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
