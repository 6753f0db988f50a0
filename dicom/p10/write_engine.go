package p10

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// WriteEngine consumes a well-formed Token sequence and emits raw bytes to
// a caller-supplied io.Writer, per the write engine contract: header
// emission in the active transfer syntax, automatic File Meta Information
// group-length computation, and optional zlib wrapping for deflated
// transfer syntaxes.
type WriteEngine struct {
	cfg WriteConfig
	out io.Writer
	ts  TransferSyntax

	deflate *zlib.Writer

	ended    bool
	fmiTSUID string
	stack    []writeFrame
}

type writeFrame struct {
	tag tag.Tag
	vr  vr.VR
}

// NewWriteEngine constructs a WriteEngine writing to out under cfg. The
// transfer syntax is determined from the first FileMetaInformation token's
// (0002,0010) value; callers writing without File Meta Information must
// call SetTransferSyntax before the first data element token.
func NewWriteEngine(out io.Writer, cfg WriteConfig) (*WriteEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &WriteEngine{cfg: cfg, out: out, ts: explicitVRLittleEndian}, nil
}

// SetTransferSyntax overrides the active transfer syntax directly, for
// callers that don't route a FileMetaInformation token through Write.
func (w *WriteEngine) SetTransferSyntax(ts TransferSyntax) error {
	w.ts = ts
	if ts.Deflated {
		zw, err := zlib.NewWriterLevel(w.out, w.cfg.DeflateLevel)
		if err != nil {
			return fmt.Errorf("p10: invalid DeflateLevel: %w", err)
		}
		w.deflate = zw
	}
	return nil
}

func (w *WriteEngine) sink() io.Writer {
	if w.deflate != nil {
		return w.deflate
	}
	return w.out
}

// Write consumes one token, emitting the corresponding bytes (if any).
// Returns ErrTokenStreamInvalid if tok violates the token-stream
// invariants given what has been written so far.
func (w *WriteEngine) Write(tok Token) error {
	if w.ended {
		return fmt.Errorf("%w: token written after End", ErrTokenStreamInvalid)
	}

	switch tok.Kind {
	case KindFilePreambleAndDICMPrefix:
		if _, err := w.out.Write(tok.Preamble[:]); err != nil {
			return err
		}
		if _, err := w.out.Write([]byte("DICM")); err != nil {
			return err
		}
		return nil

	case KindFileMetaInformation:
		return w.writeFileMetaInformation(tok.FileMeta)

	case KindDataElementHeader:
		return w.writeElementHeader(tok.Tag, tok.VR, tok.Length)

	case KindDataElementValueBytes:
		if _, err := w.sink().Write(tok.Data); err != nil {
			return err
		}
		return nil

	case KindSequenceStart:
		w.stack = append(w.stack, writeFrame{tag: tok.Tag, vr: tok.VR})
		return w.writeHeaderBytes(tok.Tag, tok.VR, 0xFFFFFFFF)

	case KindSequenceDelimiter:
		if len(w.stack) == 0 {
			return fmt.Errorf("%w: SequenceDelimiter with no matching SequenceStart", ErrTokenStreamInvalid)
		}
		w.stack = w.stack[:len(w.stack)-1]
		return w.writeDelimiter(tag.SequenceDelimitationItem)

	case KindSequenceItemStart:
		return w.writeItemHeader(0xFFFFFFFF)

	case KindSequenceItemDelimiter:
		return w.writeDelimiter(tag.ItemDelimitationItem)

	case KindPixelDataItem:
		return w.writeItemHeader(tok.Length)

	case KindEnd:
		w.ended = true
		if w.deflate != nil {
			return w.deflate.Close()
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown token kind %v", ErrTokenStreamInvalid, tok.Kind)
	}
}

func (w *WriteEngine) writeItemHeader(length uint32) error {
	return w.writeDelimiter(tag.Item, length)
}

func (w *WriteEngine) writeDelimiter(t tag.Tag, length ...uint32) error {
	l := uint32(0)
	if len(length) > 0 {
		l = length[0]
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], t.Group)
	binary.LittleEndian.PutUint16(buf[2:4], t.Element)
	binary.LittleEndian.PutUint32(buf[4:8], l)
	_, err := w.sink().Write(buf)
	return err
}

func (w *WriteEngine) writeElementHeader(t tag.Tag, v vr.VR, length uint32) error {
	if !v.IsLongLengthFamily() && length != 0xFFFFFFFF && length > 0xFFFF {
		return fmt.Errorf("%w: value length %d exceeds short-length-family 16-bit limit for VR %s", ErrDataInvalid, length, v)
	}
	return w.writeHeaderBytes(t, v, length)
}

func (w *WriteEngine) writeHeaderBytes(t tag.Tag, v vr.VR, length uint32) error {
	bo := w.ts.ByteOrder
	if !w.ts.ExplicitVR {
		buf := make([]byte, 8)
		bo.PutUint16(buf[0:2], t.Group)
		bo.PutUint16(buf[2:4], t.Element)
		bo.PutUint32(buf[4:8], length)
		_, err := w.sink().Write(buf)
		return err
	}

	if v.IsLongLengthFamily() {
		buf := make([]byte, 12)
		bo.PutUint16(buf[0:2], t.Group)
		bo.PutUint16(buf[2:4], t.Element)
		copy(buf[4:6], v.String())
		bo.PutUint32(buf[8:12], length)
		_, err := w.sink().Write(buf)
		return err
	}

	buf := make([]byte, 8)
	bo.PutUint16(buf[0:2], t.Group)
	bo.PutUint16(buf[2:4], t.Element)
	copy(buf[4:6], v.String())
	bo.PutUint16(buf[6:8], uint16(length))
	_, err := w.sink().Write(buf)
	return err
}

// writeFileMetaInformation emits the File Meta Information group, always
// explicit-VR little-endian, computing (0002,0000) Group Length and
// injecting the configured implementation identity.
func (w *WriteEngine) writeFileMetaInformation(fmi FileMetaInformationSet) error {
	set, ok := fmi.(*FileMetaInfo)
	if !ok {
		return fmt.Errorf("%w: FileMetaInformation token did not carry a *FileMetaInfo", ErrTokenStreamInvalid)
	}

	elements := make([]FileMetaElement, 0, len(set.Elements)+2)
	for _, el := range set.Elements {
		switch el.Tag {
		case tag.FileMetaInformationGroupLength, tag.ImplementationClassUID, tag.ImplementationVersionName:
			continue // recomputed/overridden below
		default:
			elements = append(elements, el)
		}
	}
	elements = append(elements,
		FileMetaElement{Tag: tag.ImplementationClassUID, VR: vr.UniqueIdentifier, Data: padUID(w.cfg.ImplementationClassUID)},
		FileMetaElement{Tag: tag.ImplementationVersionName, VR: vr.ShortString, Data: padEven(w.cfg.ImplementationVersionName, ' ')},
	)

	var body bytes.Buffer
	bo := explicitVRLittleEndian.ByteOrder
	for _, el := range elements {
		groupLen := len(el.Data)
		header := make([]byte, 8)
		if el.VR.IsLongLengthFamily() {
			header = make([]byte, 12)
		}
		bo.PutUint16(header[0:2], el.Tag.Group)
		bo.PutUint16(header[2:4], el.Tag.Element)
		copy(header[4:6], el.VR.String())
		if el.VR.IsLongLengthFamily() {
			bo.PutUint32(header[8:12], uint32(groupLen))
		} else {
			bo.PutUint16(header[6:8], uint16(groupLen))
		}
		body.Write(header)
		body.Write(el.Data)

		if tsUID, ok := transferSyntaxUIDFromElement(el); ok {
			w.fmiTSUID = tsUID
		}
	}

	groupLengthBuf := make([]byte, 12)
	bo.PutUint16(groupLengthBuf[0:2], tag.FileMetaInformationGroupLength.Group)
	bo.PutUint16(groupLengthBuf[2:4], tag.FileMetaInformationGroupLength.Element)
	copy(groupLengthBuf[4:6], vr.UnsignedLong.String())
	bo.PutUint16(groupLengthBuf[6:8], 4)
	bo.PutUint32(groupLengthBuf[8:12], uint32(body.Len()))

	if _, err := w.out.Write(groupLengthBuf); err != nil {
		return err
	}
	if _, err := w.out.Write(body.Bytes()); err != nil {
		return err
	}

	if w.fmiTSUID != "" {
		ts, err := LookupTransferSyntax(w.fmiTSUID)
		if err != nil {
			return err
		}
		return w.SetTransferSyntax(ts)
	}
	return nil
}

func transferSyntaxUIDFromElement(el FileMetaElement) (string, bool) {
	if el.Tag != tag.TransferSyntaxUID {
		return "", false
	}
	s := string(el.Data)
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == 0) {
		s = s[:len(s)-1]
	}
	return s, true
}

func padUID(s string) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, 0x00)
	}
	return b
}

func padEven(s string, pad byte) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, pad)
	}
	return b
}
