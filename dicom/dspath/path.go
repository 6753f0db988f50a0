// Package dspath provides DataSetPath, a diagnostic cursor identifying where
// in a (possibly nested) DICOM dataset an error or log message originates.
package dspath

import (
	"fmt"
	"strings"

	"github.com/codeninja55/dcmstream/dicom/tag"
)

// Step identifies one level of a DataSetPath: a tag, and (for elements
// inside a sequence item) the zero-based index of that item within its
// parent sequence.
type Step struct {
	Tag       tag.Tag
	ItemIndex int // -1 when this step is not a sequence item
}

// Path is an ordered list of Steps from the root dataset down to the
// element, sequence, or item a diagnostic refers to.
//
// Path is immutable: Push and PushItem return a new Path holding its own
// copy of the parent's steps, so a single path can be safely reused as a
// prefix across sibling elements during a single parse pass.
type Path struct {
	steps []Step
}

// Root returns the empty path, referring to the dataset itself.
func Root() Path {
	return Path{}
}

// Push returns a new Path with t appended as a plain element step.
func (p Path) Push(t tag.Tag) Path {
	next := make([]Step, len(p.steps)+1)
	copy(next, p.steps)
	next[len(p.steps)] = Step{Tag: t, ItemIndex: -1}
	return Path{steps: next}
}

// PushItem returns a new Path with t appended as a step into the itemIndex'th
// item of a sequence.
func (p Path) PushItem(t tag.Tag, itemIndex int) Path {
	next := make([]Step, len(p.steps)+1)
	copy(next, p.steps)
	next[len(p.steps)] = Step{Tag: t, ItemIndex: itemIndex}
	return Path{steps: next}
}

// Steps returns the ordered steps making up this path. The returned slice
// must not be modified.
func (p Path) Steps() []Step {
	return p.steps
}

// Depth returns the number of steps in the path (0 for the root).
func (p Path) Depth() int {
	return len(p.steps)
}

// String renders the path as "(0008,1140)[2].(0008,1150)" style notation:
// tags in DICOM group/element form, with a bracketed item index wherever a
// step descends into a sequence item.
func (p Path) String() string {
	if len(p.steps) == 0 {
		return "<root>"
	}
	var sb strings.Builder
	for i, step := range p.steps {
		if i > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(step.Tag.String())
		if step.ItemIndex >= 0 {
			sb.WriteString(fmt.Sprintf("[%d]", step.ItemIndex))
		}
	}
	return sb.String()
}
