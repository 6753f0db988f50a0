// Package transform provides token-stream transforms that sit between a
// p10.ReadEngine (or any other Token producer) and a terminal Sink such as
// a p10.WriteEngine or a dicom.DataSetBuilder: Filter drops subtrees,
// Insert merges in extra root-level elements, and Print renders a token
// stream for humans.
package transform

import (
	"fmt"

	"github.com/codeninja55/dcmstream/dicom/dspath"
	"github.com/codeninja55/dcmstream/dicom/p10"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// Sink is anything that accepts a Token one at a time: the shape shared by
// p10.WriteEngine, dicom.DataSetBuilder, and every transform in this
// package, so transforms chain without depending on a concrete sink type.
type Sink interface {
	Write(tok p10.Token) error
}

// Predicate decides whether the element, sequence, or encapsulated pixel
// data rooted at (t, v) and located at loc should pass through a Filter.
// loc is the path of enclosing sequences/items, not including (t, v)
// itself.
type Predicate func(t tag.Tag, v vr.VR, loc dspath.Path) bool

type filterFrameKind uint8

const (
	filterFrameSequence filterFrameKind = iota
	filterFrameItem
)

type filterFrame struct {
	kind filterFrameKind
	tag  tag.Tag
	pass bool
}

// Filter is a Sink that forwards tokens to next only when the nearest
// enclosing predicate-evaluated ancestor passed. A SequenceStart or
// DataElementHeader that fails the predicate suppresses every token in its
// subtree up to and including the matching delimiter (or last value-bytes
// token), without re-evaluating the predicate for descendants.
type Filter struct {
	predicate Predicate
	next      Sink

	stack []*filterFrame

	elementPass bool
}

// NewFilter constructs a Filter that applies predicate to every element
// and sequence header in the stream, forwarding only what passes to next.
func NewFilter(predicate Predicate, next Sink) *Filter {
	return &Filter{predicate: predicate, next: next}
}

// Write consumes one Token, forwarding it to the underlying Sink unless it
// falls inside a subtree the Predicate rejected.
func (f *Filter) Write(tok p10.Token) error {
	switch tok.Kind {
	case p10.KindFilePreambleAndDICMPrefix, p10.KindFileMetaInformation, p10.KindEnd:
		return f.next.Write(tok)

	case p10.KindDataElementHeader:
		f.elementPass = f.effectivePass() && f.predicate(tok.Tag, tok.VR, f.currentPath())
		if !f.elementPass {
			return nil
		}
		return f.next.Write(tok)

	case p10.KindDataElementValueBytes:
		if !f.elementPass {
			return nil
		}
		return f.next.Write(tok)

	case p10.KindSequenceStart:
		parentPass := f.effectivePass()
		pass := parentPass && f.predicate(tok.Tag, tok.VR, f.currentPath())
		f.stack = append(f.stack, &filterFrame{kind: filterFrameSequence, tag: tok.Tag, pass: pass})
		if !pass {
			return nil
		}
		return f.next.Write(tok)

	case p10.KindSequenceItemStart:
		top := f.topSequence()
		if top == nil {
			return fmt.Errorf("transform: Filter: item start outside a sequence")
		}
		f.stack = append(f.stack, &filterFrame{kind: filterFrameItem, tag: tag.Item, pass: top.pass})
		if !top.pass {
			return nil
		}
		return f.next.Write(tok)

	case p10.KindSequenceItemDelimiter:
		popped, err := f.pop(filterFrameItem)
		if err != nil {
			return fmt.Errorf("transform: Filter: %w", err)
		}
		if !popped.pass {
			return nil
		}
		return f.next.Write(tok)

	case p10.KindPixelDataItem:
		f.elementPass = f.effectivePass()
		if !f.elementPass {
			return nil
		}
		return f.next.Write(tok)

	case p10.KindSequenceDelimiter:
		popped, err := f.pop(filterFrameSequence)
		if err != nil {
			return fmt.Errorf("transform: Filter: %w", err)
		}
		if !popped.pass {
			return nil
		}
		return f.next.Write(tok)

	default:
		return fmt.Errorf("transform: Filter: unknown token kind %v", tok.Kind)
	}
}

func (f *Filter) effectivePass() bool {
	if len(f.stack) == 0 {
		return true
	}
	return f.stack[len(f.stack)-1].pass
}

func (f *Filter) topSequence() *filterFrame {
	if len(f.stack) == 0 || f.stack[len(f.stack)-1].kind != filterFrameSequence {
		return nil
	}
	return f.stack[len(f.stack)-1]
}

func (f *Filter) pop(kind filterFrameKind) (*filterFrame, error) {
	if len(f.stack) == 0 || f.stack[len(f.stack)-1].kind != kind {
		return nil, fmt.Errorf("delimiter with no matching open frame")
	}
	top := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return top, nil
}

// currentPath reconstructs the enclosing-sequence path from the frame
// stack. Like p10.ReadEngine.path(), every item within a sequence is
// reported at item index 0 rather than its true ordinal position: Filter
// only needs enough of a path to let a Predicate distinguish nesting
// depth and ancestry, not to pinpoint a specific repeated item.
func (f *Filter) currentPath() dspath.Path {
	p := dspath.Root()
	itemIndex := -1
	for _, fr := range f.stack {
		switch fr.kind {
		case filterFrameSequence:
			p = p.Push(fr.tag)
			itemIndex = 0
		case filterFrameItem:
			p = p.PushItem(fr.tag, itemIndex)
		}
	}
	return p
}
