package transform

import (
	"fmt"
	"sort"

	"github.com/codeninja55/dcmstream/dicom"
	"github.com/codeninja55/dcmstream/dicom/p10"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/value"
)

// Insert is a Sink that merges a fixed set of root-level elements into a
// passing token stream, in ascending tag order, dropping any incoming
// root-level element that would otherwise duplicate one being inserted.
// Elements nested inside a sequence or item are never touched — only
// root-level tags are compared against the insertion set.
type Insert struct {
	next    Sink
	pending []value.Element // remaining insertions, ascending tag order

	depth int // 0 at the dataset root, >0 inside any sequence/item/pixel-data frame

	skipping bool // true while dropping the current root-level element's remaining tokens
}

// NewInsert constructs an Insert that merges elements into the root of the
// stream written through it.
func NewInsert(elements []value.Element, next Sink) *Insert {
	sorted := make([]value.Element, len(elements))
	copy(sorted, elements)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag().Compare(sorted[j].Tag()) < 0 })
	return &Insert{next: next, pending: sorted}
}

// Write consumes one Token, flushing any pending insertion whose tag is
// exceeded by the next incoming root-level tag, and dropping incoming
// root-level elements that duplicate a pending insertion.
func (i *Insert) Write(tok p10.Token) error {
	switch tok.Kind {
	case p10.KindDataElementHeader:
		if i.depth == 0 {
			if err := i.flushUpTo(tok.Tag); err != nil {
				return err
			}
			if i.dropsIncoming(tok.Tag) {
				i.skipping = true
				return nil
			}
			i.skipping = false
		}
		return i.forward(tok)

	case p10.KindDataElementValueBytes:
		if i.depth == 0 && i.skipping {
			if tok.BytesRemaining == 0 {
				i.skipping = false
			}
			return nil
		}
		return i.forward(tok)

	case p10.KindSequenceStart:
		if i.depth == 0 {
			if err := i.flushUpTo(tok.Tag); err != nil {
				return err
			}
			i.skipping = i.dropsIncoming(tok.Tag)
		}
		i.depth++
		if i.skipping {
			return nil
		}
		return i.forward(tok)

	case p10.KindSequenceDelimiter:
		i.depth--
		skipping := i.skipping
		if i.depth == 0 {
			i.skipping = false
		}
		if skipping {
			return nil
		}
		return i.forward(tok)

	case p10.KindSequenceItemStart, p10.KindSequenceItemDelimiter:
		if tok.Kind == p10.KindSequenceItemStart {
			i.depth++
		} else {
			i.depth--
		}
		if i.skipping {
			return nil
		}
		return i.forward(tok)

	case p10.KindPixelDataItem:
		if i.skipping {
			return nil
		}
		return i.forward(tok)

	case p10.KindEnd:
		if err := i.flushAll(); err != nil {
			return err
		}
		return i.forward(tok)

	default:
		return i.forward(tok)
	}
}

func (i *Insert) forward(tok p10.Token) error {
	return i.next.Write(tok)
}

// dropsIncoming reports whether t matches a pending insertion, meaning the
// incoming element carrying t must be dropped rather than forwarded.
func (i *Insert) dropsIncoming(t tag.Tag) bool {
	for _, el := range i.pending {
		if el.Tag().Equals(t) {
			return true
		}
	}
	return false
}

// flushUpTo emits every pending insertion whose tag is less than t, in
// ascending order, before t itself is forwarded.
func (i *Insert) flushUpTo(t tag.Tag) error {
	for len(i.pending) > 0 && i.pending[0].Tag().Compare(t) < 0 {
		if err := i.emitPending(i.pending[0]); err != nil {
			return err
		}
		i.pending = i.pending[1:]
	}
	return nil
}

func (i *Insert) flushAll() error {
	for len(i.pending) > 0 {
		if err := i.emitPending(i.pending[0]); err != nil {
			return err
		}
		i.pending = i.pending[1:]
	}
	return nil
}

func (i *Insert) emitPending(el value.Element) error {
	if err := dicom.EmitElement(el, i.next); err != nil {
		return fmt.Errorf("transform: Insert: emitting %s: %w", el.Tag(), err)
	}
	return nil
}
