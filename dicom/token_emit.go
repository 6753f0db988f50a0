package dicom

import (
	"github.com/codeninja55/dcmstream/dicom/p10"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// TokenSink is anything that accepts a Token, one at a time: a
// p10.WriteEngine, a transform, or a test double. Emit and EmitElement
// depend only on this shape so callers can splice a chain of transforms
// between a DataSet being emitted and the WriteEngine that finally
// serializes it.
type TokenSink interface {
	Write(tok p10.Token) error
}

// Emit walks ds in ascending tag order (DataSet.Elements already returns
// elements in that order) and writes the equivalent Token sequence to
// sink, without the FilePreambleAndDICMPrefix, File Meta Information, or
// End tokens: callers that want a complete P10 stream wrap Emit's output
// with those, typically via p10.WriteEngine fed from the dataset's
// FileMetaInformation() plus a trailing KindEnd token.
//
// Sequences and encapsulated pixel data are always emitted with undefined
// length (SequenceStart/Delimiter, PixelDataItem framed by
// SequenceStart/Delimiter): both defined- and undefined-length encodings
// are spec-legal and the undefined form needs no two-pass length
// precomputation.
func Emit(ds *DataSet, sink TokenSink) error {
	for _, el := range ds.Elements() {
		if err := EmitElement(el, sink); err != nil {
			return err
		}
	}
	return nil
}

// EmitElement writes the Token sequence for a single element, recursing
// into nested items for a SequenceValue and into fragments for an
// EncapsulatedValue.
func EmitElement(el value.Element, sink TokenSink) error {
	t, v := el.Tag(), el.VR()

	switch val := el.Value().(type) {
	case *value.SequenceValue:
		if err := sink.Write(p10.Token{Kind: p10.KindSequenceStart, Tag: t, VR: v}); err != nil {
			return err
		}
		for _, item := range val.Items() {
			if err := emitItem(item, sink); err != nil {
				return err
			}
		}
		return sink.Write(p10.Token{Kind: p10.KindSequenceDelimiter, Tag: t})

	case *value.EncapsulatedValue:
		if err := sink.Write(p10.Token{Kind: p10.KindSequenceStart, Tag: t, VR: v}); err != nil {
			return err
		}
		for i := 0; i < val.FragmentCount(); i++ {
			data, err := val.Fragment(i)
			if err != nil {
				return err
			}
			if err := emitFragment(data, sink); err != nil {
				return err
			}
		}
		return sink.Write(p10.Token{Kind: p10.KindSequenceDelimiter, Tag: t})

	default:
		return emitPrimitive(t, v, el.Value(), sink)
	}
}

func emitItem(item value.SequenceItem, sink TokenSink) error {
	if err := sink.Write(p10.Token{Kind: p10.KindSequenceItemStart}); err != nil {
		return err
	}
	for _, nested := range item.Elements {
		if err := EmitElement(nested, sink); err != nil {
			return err
		}
	}
	return sink.Write(p10.Token{Kind: p10.KindSequenceItemDelimiter})
}

func emitFragment(data []byte, sink TokenSink) error {
	if err := sink.Write(p10.Token{Kind: p10.KindPixelDataItem, Length: uint32(len(data))}); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return sink.Write(p10.Token{Kind: p10.KindDataElementValueBytes, Data: data, BytesRemaining: 0})
}

// emitPrimitive writes the header/value-bytes pair for a plain (non-
// sequence, non-encapsulated) element. An empty value is still given a
// zero-length DataElementValueBytes token, matching what ReadEngine
// produces for an ordinary zero-length element (unlike a zero-length
// PixelDataItem, which carries no trailing value-bytes token).
func emitPrimitive(t tag.Tag, v vr.VR, val value.Value, sink TokenSink) error {
	data := val.Bytes()
	if err := sink.Write(p10.Token{Kind: p10.KindDataElementHeader, Tag: t, VR: v, Length: uint32(len(data))}); err != nil {
		return err
	}
	return sink.Write(p10.Token{Kind: p10.KindDataElementValueBytes, Data: data, BytesRemaining: 0})
}
