package dicomjson

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/codeninja55/dcmstream/dicom"
	"github.com/codeninja55/dcmstream/dicom/element"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// Unmarshal parses DICOM JSON data into a new *dicom.DataSet. cfg must match
// the Config used to Marshal the document: whether Pixel Data's InlineBinary
// holds the raw value bytes or the Item-framed encapsulated layout is not
// recoverable from the JSON alone, since both render as a base64
// InlineBinary string under the same "OB"/"OW" VR.
func Unmarshal(data []byte, cfg Config) (*dicom.DataSet, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("dicomjson: %w", err)
	}

	ds := dicom.NewDataSet()
	for key, raw := range obj {
		t, err := parseTagKey(key)
		if err != nil {
			return nil, err
		}
		var je jsonElement
		if err := json.Unmarshal(raw, &je); err != nil {
			return nil, fmt.Errorf("dicomjson: %s: %w", key, err)
		}
		el, err := unmarshalElement(t, je, cfg)
		if err != nil {
			return nil, fmt.Errorf("dicomjson: %s: %w", key, err)
		}
		if err := ds.Add(el); err != nil {
			return nil, fmt.Errorf("dicomjson: %s: %w", key, err)
		}
	}
	return ds, nil
}

func unmarshalElement(t tag.Tag, je jsonElement, cfg Config) (*element.Element, error) {
	v, err := vr.Parse(je.VR)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVR, je.VR)
	}

	val, err := unmarshalValue(t, v, je, cfg)
	if err != nil {
		return nil, err
	}
	return element.NewElement(t, v, val)
}

func unmarshalValue(t tag.Tag, v vr.VR, je jsonElement, cfg Config) (value.Value, error) {
	switch {
	case v == vr.PersonName:
		return unmarshalPersonName(je.Value)

	case v == vr.SequenceOfItems:
		return unmarshalSequence(je.Value, cfg)

	case v == vr.AttributeTag:
		return unmarshalAttributeTags(je.Value)

	case isIntVRName(v):
		return unmarshalInts(v, je.Value)

	case v == vr.FloatingPointSingle || v == vr.FloatingPointDouble:
		return unmarshalFloats(v, je.Value)

	case v.IsStringType():
		return unmarshalStrings(v, je.Value)

	case t == tag.PixelData && v.MayBeEncapsulatedPixelData() && cfg.StoreEncapsulatedPixelData && je.InlineBinary != "":
		return unmarshalEncapsulated(v, je.InlineBinary)

	default:
		return unmarshalBytes(v, je.InlineBinary)
	}
}

func isIntVRName(v vr.VR) bool {
	switch v {
	case vr.SignedShort, vr.UnsignedShort, vr.SignedLong, vr.UnsignedLong,
		vr.SignedVeryLong, vr.UnsignedVeryLong:
		return true
	default:
		return false
	}
}

func unmarshalStrings(v vr.VR, raw []interface{}) (*value.StringValue, error) {
	strs := make([]string, len(raw))
	for i, item := range raw {
		if item == nil {
			strs[i] = ""
			continue
		}
		switch n := item.(type) {
		case string:
			strs[i] = n
		case float64:
			if v == vr.IntegerString {
				strs[i] = strconv.FormatInt(int64(n), 10)
			} else {
				strs[i] = strconv.FormatFloat(n, 'g', -1, 64)
			}
		default:
			return nil, fmt.Errorf("dicomjson: unexpected JSON type %T for VR %s", item, v)
		}
	}
	return value.NewStringValue(v, strs)
}

func unmarshalPersonName(raw []interface{}) (*value.PersonNameValue, error) {
	parts := make([]string, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("dicomjson: expected PN object, got %T", item)
		}
		groups := []string{}
		for _, key := range []string{"Alphabetic", "Ideographic", "Phonetic"} {
			s, _ := obj[key].(string)
			groups = append(groups, s)
		}
		for len(groups) > 1 && groups[len(groups)-1] == "" {
			groups = groups[:len(groups)-1]
		}
		parts[i] = joinNonEmptyGroups(groups)
	}
	return value.NewPersonNameValue(parts)
}

func joinNonEmptyGroups(groups []string) string {
	out := groups[0]
	for _, g := range groups[1:] {
		out += "=" + g
	}
	return out
}

func unmarshalInts(v vr.VR, raw []interface{}) (*value.IntValue, error) {
	ints := make([]int64, len(raw))
	for i, item := range raw {
		n, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("dicomjson: expected number for VR %s, got %T", v, item)
		}
		ints[i] = int64(n)
	}
	return value.NewIntValue(v, ints)
}

func unmarshalAttributeTags(raw []interface{}) (*value.IntValue, error) {
	ints := make([]int64, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("dicomjson: expected hex string for VR AT, got %T", item)
		}
		n, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("dicomjson: invalid AT value %q: %w", s, err)
		}
		ints[i] = int64(n)
	}
	return value.NewIntValue(vr.AttributeTag, ints)
}

func unmarshalFloats(v vr.VR, raw []interface{}) (*value.FloatValue, error) {
	floats := make([]float64, len(raw))
	for i, item := range raw {
		switch n := item.(type) {
		case float64:
			floats[i] = n
		case string:
			switch n {
			case "Infinity":
				floats[i] = math.Inf(1)
			case "-Infinity":
				floats[i] = math.Inf(-1)
			case "NaN":
				floats[i] = math.NaN()
			default:
				return nil, fmt.Errorf("dicomjson: unrecognized float token %q", n)
			}
		default:
			return nil, fmt.Errorf("dicomjson: unexpected JSON type %T for VR %s", item, v)
		}
	}
	return value.NewFloatValue(v, floats)
}

func unmarshalBytes(v vr.VR, inlineBinary string) (*value.BytesValue, error) {
	if inlineBinary == "" {
		return value.NewBytesValue(v, nil)
	}
	data, err := base64.StdEncoding.DecodeString(inlineBinary)
	if err != nil {
		return nil, fmt.Errorf("dicomjson: invalid InlineBinary: %w", err)
	}
	return value.NewBytesValue(v, data)
}

// unmarshalEncapsulated splits InlineBinary back into fragments by reading
// the Item (FFFE,E000) headers this package's Marshal wrote.
func unmarshalEncapsulated(v vr.VR, inlineBinary string) (*value.EncapsulatedValue, error) {
	data, err := base64.StdEncoding.DecodeString(inlineBinary)
	if err != nil {
		return nil, fmt.Errorf("dicomjson: invalid InlineBinary: %w", err)
	}

	var fragments [][]byte
	for len(data) > 0 {
		if len(data) < 8 {
			return nil, fmt.Errorf("dicomjson: truncated encapsulated item header")
		}
		length := binary.LittleEndian.Uint32(data[4:8])
		data = data[8:]
		if uint32(len(data)) < length {
			return nil, fmt.Errorf("dicomjson: truncated encapsulated item data")
		}
		fragments = append(fragments, data[:length])
		data = data[length:]
	}
	return value.NewEncapsulatedValue(v, fragments)
}

func unmarshalSequence(raw []interface{}, cfg Config) (*value.SequenceValue, error) {
	items := make([]value.SequenceItem, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("dicomjson: expected sequence item object, got %T", item)
		}
		elements, err := unmarshalSequenceItem(obj, cfg)
		if err != nil {
			return nil, err
		}
		items[i] = value.SequenceItem{Elements: elements}
	}
	return value.NewSequenceValue(items), nil
}

func unmarshalSequenceItem(obj map[string]interface{}, cfg Config) ([]value.Element, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var itemFields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &itemFields); err != nil {
		return nil, err
	}

	elements := make([]value.Element, 0, len(itemFields))
	for key, fieldRaw := range itemFields {
		t, err := parseTagKey(key)
		if err != nil {
			return nil, err
		}
		var je jsonElement
		if err := json.Unmarshal(fieldRaw, &je); err != nil {
			return nil, err
		}
		el, err := unmarshalElement(t, je, cfg)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}

func parseTagKey(key string) (tag.Tag, error) {
	if len(key) != 8 {
		return tag.Tag{}, fmt.Errorf("%w: %q", ErrMalformedTagKey, key)
	}
	group, err := strconv.ParseUint(key[0:4], 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("%w: %q", ErrMalformedTagKey, key)
	}
	elem, err := strconv.ParseUint(key[4:8], 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("%w: %q", ErrMalformedTagKey, key)
	}
	return tag.New(uint16(group), uint16(elem)), nil
}
