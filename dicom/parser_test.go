package dicom

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codeninja55/dcmstream/dicom/element"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/uid"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFile_RoundTrip tests that a file written by WriteFile parses
// back with the same elements.
func TestParseFile_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "roundtrip.dcm")

	original := createTestDatasetForWriter(t)
	require.NoError(t, WriteFile(outputPath, original))

	parsed, err := ParseFile(outputPath)
	require.NoError(t, err)

	verifyElementsMatch(t, original, parsed, tag.New(0x0008, 0x0016))
	verifyElementsMatch(t, original, parsed, tag.New(0x0008, 0x0018))
	verifyElementsMatch(t, original, parsed, tag.New(0x0010, 0x0010))
	verifyFileMetaElement(t, parsed, tag.New(0x0002, 0x0010))
}

// TestParseFile_ExplicitAndImplicitVR tests that both VR encodings written
// by WriteFileWithOptions parse back to equivalent datasets.
func TestParseFile_ExplicitAndImplicitVR(t *testing.T) {
	for _, tsStr := range []string{"1.2.840.10008.1.2.1", "1.2.840.10008.1.2"} {
		ts, err := uid.Parse(tsStr)
		require.NoError(t, err)

		tempDir := t.TempDir()
		outputPath := filepath.Join(tempDir, "ts.dcm")
		ds := createTestDatasetForWriter(t)

		require.NoError(t, WriteFileWithOptions(outputPath, ds, WriteOptions{TransferSyntax: &ts}))

		parsed, err := ParseFile(outputPath)
		require.NoError(t, err, "transfer syntax %s should parse", tsStr)
		verifyElementsMatch(t, ds, parsed, tag.New(0x0020, 0x000D))
	}
}

// TestParseFile_NotDICOM tests that a file lacking the DICM prefix fails
// with ErrInvalidPreamble.
func TestParseFile_NotDICOM(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "not_dicom.dcm")

	require.NoError(t, os.WriteFile(outputPath, []byte("this is not a dicom file"), 0o644))

	_, err := ParseFile(outputPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPreamble)
}

// TestParseFile_NonExistent tests that parsing a missing file fails cleanly.
func TestParseFile_NonExistent(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "does_not_exist.dcm"))
	assert.Error(t, err)
}

// TestParseFile_TruncatedAfterPreamble tests that a file containing only
// the preamble and DICM prefix fails instead of returning a partial
// dataset.
func TestParseFile_TruncatedAfterPreamble(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "truncated.dcm")

	var buf bytes.Buffer
	buf.Write(make([]byte, 128))
	buf.WriteString("DICM")
	require.NoError(t, os.WriteFile(outputPath, buf.Bytes(), 0o644))

	_, err := ParseFile(outputPath)
	assert.Error(t, err)
}

// TestParseReader_FromBytes tests parsing directly from an in-memory
// reader rather than a filesystem path.
func TestParseReader_FromBytes(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "from_bytes.dcm")

	ds := createTestDatasetForWriter(t)
	require.NoError(t, WriteFile(outputPath, ds))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	parsed, err := ParseReader(bytes.NewReader(data))
	require.NoError(t, err)
	verifyElementsMatch(t, ds, parsed, tag.New(0x0008, 0x0018))
}

// TestParseFile_SequenceRoundTrip tests that an explicit sequence survives
// a write/parse round trip, covering DataSetBuilder's item and sequence
// frame handling alongside Emit's sequence encoding.
func TestParseFile_SequenceRoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "sequence.dcm")

	ds := createTestDatasetForWriter(t)

	codeValue, err := value.NewStringValue(vr.ShortString, []string{"T-D0050"})
	require.NoError(t, err)
	codeElem, err := element.NewElement(tag.New(0x0008, 0x0100), vr.ShortString, codeValue)
	require.NoError(t, err)

	item := value.SequenceItem{Elements: []value.Element{codeElem}}
	seqValue := value.NewSequenceValue([]value.SequenceItem{item})
	seqElem, err := element.NewElement(tag.New(0x0008, 0x1110), vr.SequenceOfItems, seqValue)
	require.NoError(t, err)
	require.NoError(t, ds.Add(seqElem))

	require.NoError(t, WriteFile(outputPath, ds))

	parsed, err := ParseFile(outputPath)
	require.NoError(t, err)

	seqBack, err := parsed.Get(tag.New(0x0008, 0x1110))
	require.NoError(t, err)
	seqValBack, ok := seqBack.Value().(*value.SequenceValue)
	require.True(t, ok, "expected a sequence value back")
	require.Len(t, seqValBack.Items(), 1)

	codeBack, ok := seqValBack.Items()[0].Get(tag.New(0x0008, 0x0100))
	require.True(t, ok)
	assert.Equal(t, strings.TrimSpace(codeValue.String()), strings.TrimSpace(codeBack.Value().String()))
}
