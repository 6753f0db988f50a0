package transform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeninja55/dcmstream/dicom"
	"github.com/codeninja55/dcmstream/dicom/element"
	"github.com/codeninja55/dcmstream/dicom/p10"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/transform"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

func makeElement(t *testing.T, g, e uint16, v vr.VR, s string) *element.Element {
	t.Helper()
	val, err := value.NewStringValue(v, []string{s})
	require.NoError(t, err)
	el, err := element.NewElement(tag.New(g, e), v, val)
	require.NoError(t, err)
	return el
}

func headerTagsInOrder(tokens []p10.Token) []tag.Tag {
	var tags []tag.Tag
	for _, tok := range tokens {
		if tok.Kind == p10.KindDataElementHeader {
			tags = append(tags, tok.Tag)
		}
	}
	return tags
}

func TestInsert_MergesInAscendingOrder(t *testing.T) {
	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(makeElement(t, 0x0010, 0x0020, vr.LongString, "PAT001")))
	require.NoError(t, ds.Add(makeElement(t, 0x0020, 0x000D, vr.UniqueIdentifier, "1.2.3")))

	inserted := makeElement(t, 0x0010, 0x0010, vr.PersonName, "Doe^John")

	rec := &recordingSink{}
	ins := transform.NewInsert([]value.Element{inserted}, rec)
	require.NoError(t, dicom.Emit(ds, ins))
	require.NoError(t, ins.Write(p10.Token{Kind: p10.KindEnd}))

	got := headerTagsInOrder(rec.tokens)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equals(tag.New(0x0010, 0x0010)))
	assert.True(t, got[1].Equals(tag.New(0x0010, 0x0020)))
	assert.True(t, got[2].Equals(tag.New(0x0020, 0x000D)))
}

func TestInsert_DropsDuplicateIncomingTag(t *testing.T) {
	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(makeElement(t, 0x0010, 0x0010, vr.PersonName, "Original^Name")))

	replacement := makeElement(t, 0x0010, 0x0010, vr.PersonName, "Replacement^Name")

	rec := &recordingSink{}
	ins := transform.NewInsert([]value.Element{replacement}, rec)
	require.NoError(t, dicom.Emit(ds, ins))
	require.NoError(t, ins.Write(p10.Token{Kind: p10.KindEnd}))

	got := headerTagsInOrder(rec.tokens)
	require.Len(t, got, 1)

	for _, tok := range rec.tokens {
		if tok.Kind == p10.KindDataElementValueBytes && tok.BytesRemaining == 0 {
			assert.Equal(t, "Replacement^Name", string(tok.Data))
		}
	}
}

func TestInsert_FlushesRemainingInsertionsOnEnd(t *testing.T) {
	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(makeElement(t, 0x0010, 0x0010, vr.PersonName, "Doe^John")))

	trailing := makeElement(t, 0x0020, 0x000E, vr.UniqueIdentifier, "1.2.3.4")

	rec := &recordingSink{}
	ins := transform.NewInsert([]value.Element{trailing}, rec)
	require.NoError(t, dicom.Emit(ds, ins))
	require.NoError(t, ins.Write(p10.Token{Kind: p10.KindEnd}))

	got := headerTagsInOrder(rec.tokens)
	require.Len(t, got, 2)
	assert.True(t, got[1].Equals(tag.New(0x0020, 0x000E)))
}
