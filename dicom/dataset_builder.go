package dicom

import (
	"encoding/binary"
	"fmt"

	"github.com/codeninja55/dcmstream/dicom/charset"
	"github.com/codeninja55/dcmstream/dicom/element"
	"github.com/codeninja55/dcmstream/dicom/p10"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

type frameKind uint8

const (
	frameSequence frameKind = iota
	frameItem
	framePixelData
)

// frame is one level of nesting below the root DataSet being assembled: an
// open sequence (accumulating items), an open item (accumulating
// elements), or an open encapsulated pixel data block (accumulating
// fragments).
type frame struct {
	kind      frameKind
	tag       tag.Tag
	vr        vr.VR
	items     []value.SequenceItem
	elements  []*element.Element
	fragments [][]byte
}

type pendingKind uint8

const (
	pendingNone pendingKind = iota
	pendingElementValue
	pendingFragment
)

// DataSetBuilder is a Token sink that materializes a *DataSet, mirroring
// go-radx's element-by-element dataset assembly but driven by the P10
// token stream instead of a blocking io.Reader: a stack of partial
// sequences/items stands in for the recursive descent go-radx's
// element parser used when reading sequences directly off the wire.
type DataSetBuilder struct {
	root  *DataSet
	stack []*frame

	pending    pendingKind
	pendingTag tag.Tag
	pendingVR  vr.VR
	pendingBuf []byte

	// charsetDecoder transcodes text element values per the data set's
	// (0008,0005) Specific Character Set, once that element has been seen.
	// It stays nil (the default-repertoire no-op) until then.
	charsetDecoder *charset.Decoder

	done    bool
	finalDS *DataSet
}

// NewDataSetBuilder creates an empty builder.
func NewDataSetBuilder() *DataSetBuilder {
	return &DataSetBuilder{root: NewDataSet()}
}

// Write forwards to Add, so a DataSetBuilder satisfies the transform
// package's Sink interface.
func (b *DataSetBuilder) Write(tok p10.Token) error {
	return b.Add(tok)
}

// Add consumes one Token, advancing the builder's internal state. Its
// signature matches p10.WriteEngine.Write and the transform package's Sink
// interface, so a DataSetBuilder can terminate a chain of token transforms
// exactly like a WriteEngine does.
func (b *DataSetBuilder) Add(tok p10.Token) error {
	if b.done {
		return fmt.Errorf("dicom: DataSetBuilder.Add called after End")
	}

	switch tok.Kind {
	case p10.KindFilePreambleAndDICMPrefix:
		return nil

	case p10.KindFileMetaInformation:
		return b.addFileMeta(tok.FileMeta)

	case p10.KindDataElementHeader:
		b.pending = pendingElementValue
		b.pendingTag = tok.Tag
		b.pendingVR = tok.VR
		b.pendingBuf = b.pendingBuf[:0]
		return nil

	case p10.KindDataElementValueBytes:
		b.pendingBuf = append(b.pendingBuf, tok.Data...)
		if tok.BytesRemaining != 0 {
			return nil
		}
		return b.finishPending()

	case p10.KindSequenceStart:
		kind := frameSequence
		if tok.VR.MayBeEncapsulatedPixelData() {
			kind = framePixelData
		}
		b.stack = append(b.stack, &frame{kind: kind, tag: tok.Tag, vr: tok.VR})
		return nil

	case p10.KindSequenceItemStart:
		b.stack = append(b.stack, &frame{kind: frameItem})
		return nil

	case p10.KindSequenceItemDelimiter:
		return b.popItem()

	case p10.KindPixelDataItem:
		if tok.Length == 0 {
			return b.appendFragment(nil)
		}
		b.pending = pendingFragment
		b.pendingBuf = b.pendingBuf[:0]
		return nil

	case p10.KindSequenceDelimiter:
		return b.popSequence()

	case p10.KindEnd:
		b.finalDS = b.root
		b.done = true
		return nil

	default:
		return fmt.Errorf("dicom: DataSetBuilder: unknown token kind %v", tok.Kind)
	}
}

// ForceEnd finalizes the builder against whatever has been assembled so
// far, for a caller that wants the partial result of a truncated stream
// rather than an error. Frames left open (an unterminated sequence or
// item) are discarded rather than guessed-closed.
func (b *DataSetBuilder) ForceEnd() *DataSet {
	if !b.done {
		b.finalDS = b.root
		b.done = true
	}
	return b.finalDS
}

// FinalDataSet returns the assembled DataSet. It is only valid after Add
// has consumed a KindEnd token (or ForceEnd was called).
func (b *DataSetBuilder) FinalDataSet() (*DataSet, error) {
	if !b.done {
		return nil, fmt.Errorf("dicom: DataSetBuilder: stream has not reached End")
	}
	return b.finalDS, nil
}

func (b *DataSetBuilder) finishPending() error {
	switch b.pending {
	case pendingFragment:
		return b.appendFragment(b.pendingBuf)
	case pendingElementValue:
		return b.finishElementValue()
	default:
		return fmt.Errorf("dicom: DataSetBuilder: value bytes token with no pending header")
	}
}

func (b *DataSetBuilder) finishElementValue() error {
	var val value.Value
	var err error
	if b.pendingVR == vr.SequenceOfItems {
		// A zero-length SQ with defined length 0 arrives as an ordinary
		// header/value pair rather than a SequenceStart/Delimiter pair.
		val = value.NewSequenceValue(nil)
	} else {
		val, err = value.DecodeText(b.pendingVR, b.pendingBuf, binary.LittleEndian, b.charsetDecoder)
		if err != nil {
			return fmt.Errorf("dicom: decoding %s %s: %w", b.pendingTag, b.pendingVR, err)
		}
	}

	el, err := element.NewElement(b.pendingTag, b.pendingVR, val)
	if err != nil {
		return fmt.Errorf("dicom: constructing element %s: %w", b.pendingTag, err)
	}
	b.pending = pendingNone
	if err := b.addElement(el); err != nil {
		return err
	}
	return b.adoptSpecificCharacterSet(el)
}

// adoptSpecificCharacterSet resolves a fresh charsetDecoder when el is the
// (0008,0005) element, so every text element decoded afterwards transcodes
// under the declared repertoire. DICOM allows the value to change within
// nested items, but this builder applies one decoder across the whole
// stream, matching how the rest of the P10 pipeline treats a data set as a
// single transfer-syntax-wide stream rather than per-item state.
func (b *DataSetBuilder) adoptSpecificCharacterSet(el *element.Element) error {
	if el.Tag() != tag.SpecificCharacterSet {
		return nil
	}
	sv, ok := el.Value().(*value.StringValue)
	if !ok {
		return nil
	}
	dec, err := charset.Resolve(sv.Strings())
	if err != nil {
		return fmt.Errorf("dicom: %s: %w: %w", tag.SpecificCharacterSet, p10.ErrSpecificCharacterSetInvalid, err)
	}
	b.charsetDecoder = dec
	return nil
}

func (b *DataSetBuilder) appendFragment(data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)

	top := b.top()
	if top == nil || top.kind != framePixelData {
		return fmt.Errorf("dicom: pixel data item outside encapsulated pixel data")
	}
	top.fragments = append(top.fragments, cp)
	b.pending = pendingNone
	return nil
}

func (b *DataSetBuilder) popItem() error {
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].kind != frameItem {
		return fmt.Errorf("dicom: item delimiter with no matching item start")
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	parent := b.top()
	if parent == nil || parent.kind != frameSequence {
		return fmt.Errorf("dicom: sequence item outside a sequence")
	}

	items := make([]value.Element, len(top.elements))
	for i, e := range top.elements {
		items[i] = e
	}
	parent.items = append(parent.items, value.SequenceItem{Elements: items})
	return nil
}

func (b *DataSetBuilder) popSequence() error {
	if len(b.stack) == 0 {
		return fmt.Errorf("dicom: sequence delimiter with no matching sequence start")
	}
	top := b.stack[len(b.stack)-1]
	if top.kind != frameSequence && top.kind != framePixelData {
		return fmt.Errorf("dicom: sequence delimiter does not match an open sequence")
	}
	b.stack = b.stack[:len(b.stack)-1]

	var val value.Value
	var err error
	if top.kind == framePixelData {
		val, err = value.NewEncapsulatedValue(top.vr, top.fragments)
	} else {
		val = value.NewSequenceValue(top.items)
	}
	if err != nil {
		return fmt.Errorf("dicom: constructing %s: %w", top.tag, err)
	}

	el, err := element.NewElement(top.tag, top.vr, val)
	if err != nil {
		return fmt.Errorf("dicom: constructing element %s: %w", top.tag, err)
	}
	return b.addElement(el)
}

func (b *DataSetBuilder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// addElement attaches a fully-materialized element to whatever the
// current nesting level is: the innermost open item's element list, or
// the root DataSet when no frame is open.
func (b *DataSetBuilder) addElement(el *element.Element) error {
	top := b.top()
	if top == nil {
		return b.root.Add(el)
	}
	if top.kind != frameItem {
		return fmt.Errorf("dicom: data element %s outside a sequence item", el.Tag())
	}
	top.elements = append(top.elements, el)
	return nil
}

// addFileMeta decodes a materialized (0002,xxxx) group (always
// explicit-VR little-endian) into elements and merges them into the root
// DataSet.
func (b *DataSetBuilder) addFileMeta(fmi p10.FileMetaInformationSet) error {
	set, ok := fmi.(*p10.FileMetaInfo)
	if !ok {
		return fmt.Errorf("dicom: FileMetaInformation token did not carry a *p10.FileMetaInfo")
	}
	for _, fe := range set.Elements {
		val, err := value.Decode(fe.VR, fe.Data, binary.LittleEndian)
		if err != nil {
			return fmt.Errorf("dicom: decoding file meta %s: %w", fe.Tag, err)
		}
		el, err := element.NewElement(fe.Tag, fe.VR, val)
		if err != nil {
			return fmt.Errorf("dicom: constructing file meta element %s: %w", fe.Tag, err)
		}
		if err := b.root.Add(el); err != nil {
			return err
		}
	}
	return nil
}

// BuildFromReadEngine drains engine until a KindEnd token (or an error),
// returning the assembled DataSet. It is a convenience wrapper for
// callers, such as ParseReader, that hand the whole engine's output to a
// single builder rather than routing it through transforms first.
func BuildFromReadEngine(engine *p10.ReadEngine) (*DataSet, error) {
	b := NewDataSetBuilder()
	for {
		tok, err := engine.Next()
		if err != nil {
			return nil, err
		}
		if err := b.Add(tok); err != nil {
			return nil, err
		}
		if tok.Kind == p10.KindEnd {
			return b.FinalDataSet()
		}
	}
}
