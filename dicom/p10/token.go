// Package p10 implements the DICOM Part 10 streaming token model: a read
// engine that turns a byte stream into a Token sequence and a write engine
// that turns a Token sequence back into bytes. The transforms that operate
// on tokens in between (filter, insert, print) are in dicom/transform.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7
package p10

import (
	"fmt"

	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// Kind identifies which Token variant a Token holds.
type Kind uint8

const (
	// KindFilePreambleAndDICMPrefix carries the 128-byte preamble, produced
	// first when reading (zero-filled if the input had none).
	KindFilePreambleAndDICMPrefix Kind = iota
	// KindFileMetaInformation carries the materialized (0002,xxxx) group.
	KindFileMetaInformation
	// KindDataElementHeader starts a non-sequence, non-encapsulated element.
	KindDataElementHeader
	// KindDataElementValueBytes carries one chunk of an element's value.
	KindDataElementValueBytes
	// KindSequenceStart opens a sequence or encapsulated pixel data block.
	KindSequenceStart
	// KindSequenceDelimiter closes a KindSequenceStart at the same depth.
	KindSequenceDelimiter
	// KindSequenceItemStart opens one item inside a sequence.
	KindSequenceItemStart
	// KindSequenceItemDelimiter closes a KindSequenceItemStart.
	KindSequenceItemDelimiter
	// KindPixelDataItem starts one fragment inside encapsulated pixel data.
	KindPixelDataItem
	// KindEnd terminates the stream. At most one per stream, always last.
	KindEnd
)

func (k Kind) String() string {
	switch k {
	case KindFilePreambleAndDICMPrefix:
		return "FilePreambleAndDICMPrefix"
	case KindFileMetaInformation:
		return "FileMetaInformation"
	case KindDataElementHeader:
		return "DataElementHeader"
	case KindDataElementValueBytes:
		return "DataElementValueBytes"
	case KindSequenceStart:
		return "SequenceStart"
	case KindSequenceDelimiter:
		return "SequenceDelimiter"
	case KindSequenceItemStart:
		return "SequenceItemStart"
	case KindSequenceItemDelimiter:
		return "SequenceItemDelimiter"
	case KindPixelDataItem:
		return "PixelDataItem"
	case KindEnd:
		return "End"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// FileMetaInformationSet is the minimal view of a materialized data set that
// the p10 package needs from KindFileMetaInformation tokens, satisfied by
// *dicom.DataSet without p10 importing the root dicom package (which would
// create an import cycle, since dicom imports p10).
type FileMetaInformationSet interface {
	Len() int
}

// Token is the single shape every reader, writer, and transform in this
// package exchanges. Exactly one of its fields is meaningful per Kind; the
// others are left zero. This mirrors a tagged union without requiring a
// type switch over concrete types at every call site.
type Token struct {
	Kind Kind

	// KindFilePreambleAndDICMPrefix
	Preamble [128]byte

	// KindFileMetaInformation
	FileMeta FileMetaInformationSet

	// KindDataElementHeader, KindSequenceStart, KindPixelDataItem,
	// KindDataElementValueBytes, KindSequenceDelimiter
	Tag tag.Tag
	VR  vr.VR

	// KindDataElementHeader: the value's total length (may be 0xFFFFFFFF
	// for undefined-length values, which is only legal ahead of a
	// KindSequenceStart rather than a plain header).
	// KindPixelDataItem: the fragment's length.
	Length uint32

	// KindDataElementValueBytes
	Data           []byte
	BytesRemaining uint32
}

// PreambleToken builds a KindFilePreambleAndDICMPrefix token.
func PreambleToken(p [128]byte) Token {
	return Token{Kind: KindFilePreambleAndDICMPrefix, Preamble: p}
}

// FileMetaInformationToken builds a KindFileMetaInformation token.
func FileMetaInformationToken(fmi FileMetaInformationSet) Token {
	return Token{Kind: KindFileMetaInformation, FileMeta: fmi}
}

// DataElementHeaderToken builds a KindDataElementHeader token.
func DataElementHeaderToken(t tag.Tag, v vr.VR, length uint32) Token {
	return Token{Kind: KindDataElementHeader, Tag: t, VR: v, Length: length}
}

// DataElementValueBytesToken builds a KindDataElementValueBytes token.
func DataElementValueBytesToken(t tag.Tag, v vr.VR, data []byte, bytesRemaining uint32) Token {
	return Token{Kind: KindDataElementValueBytes, Tag: t, VR: v, Data: data, BytesRemaining: bytesRemaining}
}

// SequenceStartToken builds a KindSequenceStart token. v is SQ for ordinary
// sequences, or OB/OW for encapsulated pixel data.
func SequenceStartToken(t tag.Tag, v vr.VR) Token {
	return Token{Kind: KindSequenceStart, Tag: t, VR: v}
}

// SequenceDelimiterToken builds a KindSequenceDelimiter token.
func SequenceDelimiterToken(t tag.Tag) Token {
	return Token{Kind: KindSequenceDelimiter, Tag: t}
}

// SequenceItemStartToken builds a KindSequenceItemStart token.
func SequenceItemStartToken() Token {
	return Token{Kind: KindSequenceItemStart}
}

// SequenceItemDelimiterToken builds a KindSequenceItemDelimiter token.
func SequenceItemDelimiterToken() Token {
	return Token{Kind: KindSequenceItemDelimiter}
}

// PixelDataItemToken builds a KindPixelDataItem token.
func PixelDataItemToken(length uint32) Token {
	return Token{Kind: KindPixelDataItem, Length: length}
}

// EndToken builds the terminal KindEnd token.
func EndToken() Token {
	return Token{Kind: KindEnd}
}

func (t Token) String() string {
	switch t.Kind {
	case KindDataElementHeader:
		return fmt.Sprintf("DataElementHeader{%s %s len=%d}", t.Tag, t.VR, t.Length)
	case KindDataElementValueBytes:
		return fmt.Sprintf("DataElementValueBytes{%s %s %d bytes, remaining=%d}", t.Tag, t.VR, len(t.Data), t.BytesRemaining)
	case KindSequenceStart:
		return fmt.Sprintf("SequenceStart{%s %s}", t.Tag, t.VR)
	case KindSequenceDelimiter:
		return fmt.Sprintf("SequenceDelimiter{%s}", t.Tag)
	case KindPixelDataItem:
		return fmt.Sprintf("PixelDataItem{len=%d}", t.Length)
	default:
		return t.Kind.String()
	}
}
