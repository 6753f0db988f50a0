package dicomjson_test

import (
	"encoding/json"
	"testing"

	"github.com/codeninja55/dcmstream/dicom"
	"github.com/codeninja55/dcmstream/dicom/dicomjson"
	"github.com/codeninja55/dcmstream/dicom/element"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustElement(t *testing.T, tg tag.Tag, v vr.VR, val value.Value) *element.Element {
	t.Helper()
	el, err := element.NewElement(tg, v, val)
	require.NoError(t, err)
	return el
}

// TestMarshal_DSValueRoundTrip covers spec.md §8 scenario 4: (0010,1020) DS
// = 1.2 serializes to a JSON number, not a string.
func TestMarshal_DSValueRoundTrip(t *testing.T) {
	patientSize := tag.New(0x0010, 0x1020)
	sv, err := value.NewStringValue(vr.DecimalString, []string{"1.2"})
	require.NoError(t, err)

	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, patientSize, vr.DecimalString, sv)))

	out, err := dicomjson.Marshal(ds, dicomjson.Config{})
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.JSONEq(t, `{"vr":"DS","Value":[1.2]}`, string(obj["00101020"]))

	roundTripped, err := dicomjson.Unmarshal(out, dicomjson.Config{})
	require.NoError(t, err)
	el, err := roundTripped.Get(patientSize)
	require.NoError(t, err)
	assert.Equal(t, "1.2", el.Value().String())
}

// TestMarshal_PersonNameRoundTrip covers spec.md §8 scenario 5: a PN value
// built from FamilyName="Jedi", GivenName="Yoda" serializes to
// {"Alphabetic":"Jedi^Yoda"}.
func TestMarshal_PersonNameRoundTrip(t *testing.T) {
	pn, err := value.NewPersonNameValue([]string{"Jedi^Yoda"})
	require.NoError(t, err)

	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, tag.PatientName, vr.PersonName, pn)))

	out, err := dicomjson.Marshal(ds, dicomjson.Config{})
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.JSONEq(t, `{"vr":"PN","Value":[{"Alphabetic":"Jedi^Yoda"}]}`, string(obj["00100010"]))

	roundTripped, err := dicomjson.Unmarshal(out, dicomjson.Config{})
	require.NoError(t, err)
	el, err := roundTripped.Get(tag.PatientName)
	require.NoError(t, err)
	assert.Equal(t, "Jedi^Yoda", el.Value().String())
}

func TestMarshal_EmptyValueOmitsValueKey(t *testing.T) {
	sv, err := value.NewStringValue(vr.LongString, []string{})
	require.NoError(t, err)

	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, tag.Manufacturer, vr.LongString, sv)))

	out, err := dicomjson.Marshal(ds, dicomjson.Config{})
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.JSONEq(t, `{"vr":"LO"}`, string(obj["00080070"]))
}

func TestMarshal_MultiValueNullsForEmptyEntries(t *testing.T) {
	sv, err := value.NewStringValue(vr.LongString, []string{"", ""})
	require.NoError(t, err)

	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, tag.Manufacturer, vr.LongString, sv)))

	out, err := dicomjson.Marshal(ds, dicomjson.Config{})
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.JSONEq(t, `{"vr":"LO","Value":[null,null]}`, string(obj["00080070"]))
}

func TestMarshal_InlineBinaryForBytesValue(t *testing.T) {
	bv, err := value.NewBytesValue(vr.OtherByte, []byte{1, 2})
	require.NoError(t, err)

	privateTag := tag.New(0x0009, 0x0010)
	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, privateTag, vr.OtherByte, bv)))

	out, err := dicomjson.Marshal(ds, dicomjson.Config{})
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.JSONEq(t, `{"vr":"OB","InlineBinary":"AQI="}`, string(obj["00090010"]))

	roundTripped, err := dicomjson.Unmarshal(out, dicomjson.Config{})
	require.NoError(t, err)
	el, err := roundTripped.Get(privateTag)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, el.Value().Bytes())
}

func TestMarshal_EncapsulatedPixelDataRequiresOptIn(t *testing.T) {
	ev, err := value.NewEncapsulatedValue(vr.OtherByte, [][]byte{{}, {1, 2}})
	require.NoError(t, err)

	pixelData := tag.New(0x7FE0, 0x0010)
	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, pixelData, vr.OtherByte, ev)))

	_, err = dicomjson.Marshal(ds, dicomjson.Config{})
	require.ErrorIs(t, err, dicomjson.ErrEncapsulatedPixelDataDisallowed)

	out, err := dicomjson.Marshal(ds, dicomjson.Config{StoreEncapsulatedPixelData: true})
	require.NoError(t, err)

	roundTripped, err := dicomjson.Unmarshal(out, dicomjson.Config{StoreEncapsulatedPixelData: true})
	require.NoError(t, err)
	el, err := roundTripped.Get(pixelData)
	require.NoError(t, err)
	got := el.Value().(*value.EncapsulatedValue)
	require.Equal(t, 2, got.FragmentCount())
	frag1, err := got.Fragment(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, frag1)
}

func TestMarshal_AttributeTagAsHexString(t *testing.T) {
	iv, err := value.NewIntValue(vr.AttributeTag, []int64{0x00100010})
	require.NoError(t, err)

	frameIncrement := tag.New(0x0028, 0x0009)
	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, frameIncrement, vr.AttributeTag, iv)))

	out, err := dicomjson.Marshal(ds, dicomjson.Config{})
	require.NoError(t, err)

	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &obj))
	assert.JSONEq(t, `{"vr":"AT","Value":["00100010"]}`, string(obj["00280009"]))

	roundTripped, err := dicomjson.Unmarshal(out, dicomjson.Config{})
	require.NoError(t, err)
	el, err := roundTripped.Get(frameIncrement)
	require.NoError(t, err)
	assert.Equal(t, []int64{0x00100010}, el.Value().(*value.IntValue).Ints())
}

func TestMarshal_SequenceRoundTrip(t *testing.T) {
	sv, err := value.NewStringValue(vr.CodeString, []string{"O"})
	require.NoError(t, err)
	item := value.SequenceItem{Elements: []value.Element{mustElement(t, tag.New(0x0010, 0x0040), vr.CodeString, sv)}}
	seq := value.NewSequenceValue([]value.SequenceItem{item})

	refStudySeq := tag.New(0x0008, 0x1110)
	ds := dicom.NewDataSet()
	require.NoError(t, ds.Add(mustElement(t, refStudySeq, vr.SequenceOfItems, seq)))

	out, err := dicomjson.Marshal(ds, dicomjson.Config{})
	require.NoError(t, err)

	roundTripped, err := dicomjson.Unmarshal(out, dicomjson.Config{})
	require.NoError(t, err)
	el, err := roundTripped.Get(refStudySeq)
	require.NoError(t, err)
	items := el.Value().(*value.SequenceValue).Items()
	require.Len(t, items, 1)
	require.Len(t, items[0].Elements, 1)
	assert.Equal(t, "O", items[0].Elements[0].Value().String())
}
