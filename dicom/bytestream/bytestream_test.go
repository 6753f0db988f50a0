package bytestream_test

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/codeninja55/dcmstream/dicom/bytestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteStream_ReadRequiresData(t *testing.T) {
	bs := bytestream.New()
	require.NoError(t, bs.Write([]byte{0x01, 0x02}, false))

	_, err := bs.Read(4)
	assert.ErrorIs(t, err, bytestream.ErrDataRequired)
}

func TestByteStream_ReadSucceedsOnceEnoughWritten(t *testing.T) {
	bs := bytestream.New()
	require.NoError(t, bs.Write([]byte{0x01, 0x02}, false))
	require.NoError(t, bs.Write([]byte{0x03, 0x04}, true))

	out, err := bs.Read(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, out)
}

func TestByteStream_ReadPastEndWhenDone(t *testing.T) {
	bs := bytestream.New()
	require.NoError(t, bs.Write([]byte{0x01}, true))

	_, err := bs.Read(4)
	assert.ErrorIs(t, err, bytestream.ErrDataEnd)
}

func TestByteStream_WriteAfterCompletionFails(t *testing.T) {
	bs := bytestream.New()
	require.NoError(t, bs.Write([]byte{0x01}, true))

	err := bs.Write([]byte{0x02}, false)
	assert.ErrorIs(t, err, bytestream.ErrWriteAfterCompletion)
}

func TestByteStream_PeekDoesNotConsume(t *testing.T) {
	bs := bytestream.New()
	require.NoError(t, bs.Write([]byte{0xAA, 0xBB, 0xCC}, true))

	peeked, err := bs.Peek(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, peeked)

	read, err := bs.Read(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB}, read)
}

func TestByteStream_IsFullyConsumed(t *testing.T) {
	bs := bytestream.New()
	require.NoError(t, bs.Write([]byte{0x01}, true))
	assert.False(t, bs.IsFullyConsumed())

	_, err := bs.Read(1)
	require.NoError(t, err)
	assert.True(t, bs.IsFullyConsumed())
}

func TestByteStream_ZlibInflateRoundTrip(t *testing.T) {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	payload := bytes.Repeat([]byte("dicom pixel data payload "), 100)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	bs := bytestream.New()
	require.NoError(t, bs.StartZlibInflate())
	require.NoError(t, bs.Write(compressed.Bytes(), true))

	var out []byte
	for {
		chunk, err := bs.Read(1)
		if err != nil {
			break
		}
		out = append(out, chunk...)
	}

	assert.Equal(t, payload, out)
}
