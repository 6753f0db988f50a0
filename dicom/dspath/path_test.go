package dspath_test

import (
	"testing"

	"github.com/codeninja55/dcmstream/dicom/dspath"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/stretchr/testify/assert"
)

func TestPath_RootIsEmpty(t *testing.T) {
	p := dspath.Root()
	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, "<root>", p.String())
}

func TestPath_PushAppendsElementStep(t *testing.T) {
	p := dspath.Root().Push(tag.PatientName)
	assert.Equal(t, 1, p.Depth())
	assert.Equal(t, "(0010,0010)", p.String())
}

func TestPath_PushItemIncludesIndex(t *testing.T) {
	p := dspath.Root().Push(tag.New(0x0008, 0x1140)).PushItem(tag.New(0x0008, 0x1140), 2).Push(tag.New(0x0008, 0x1150))
	assert.Equal(t, "(0008,1140).(0008,1140)[2].(0008,1150)", p.String())
}

func TestPath_ImmutablePrefixSharing(t *testing.T) {
	base := dspath.Root().Push(tag.StudyInstanceUID)
	a := base.Push(tag.Modality)
	b := base.Push(tag.PatientName)

	assert.Equal(t, "(0020,000D).(0008,0060)", a.String())
	assert.Equal(t, "(0020,000D).(0010,0010)", b.String())
	assert.Equal(t, 1, base.Depth())
}
