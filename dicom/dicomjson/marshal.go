package dicomjson

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/codeninja55/dcmstream/dicom"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// jsonElement is one DICOM JSON data element object, PS3.18 Table F.2.3-1.
type jsonElement struct {
	VR           string        `json:"vr"`
	Value        []interface{} `json:"Value,omitempty"`
	InlineBinary string        `json:"InlineBinary,omitempty"`
}

// personNameJSON is one PN component group entry, PS3.18 Annex F.2.2.
type personNameJSON struct {
	Alphabetic  string `json:"Alphabetic,omitempty"`
	Ideographic string `json:"Ideographic,omitempty"`
	Phonetic    string `json:"Phonetic,omitempty"`
}

// Marshal converts ds to its DICOM JSON representation.
func Marshal(ds *dicom.DataSet, cfg Config) ([]byte, error) {
	obj := make(map[string]*jsonElement, ds.Len())
	for _, el := range ds.Elements() {
		je, err := marshalElement(el, cfg)
		if err != nil {
			return nil, fmt.Errorf("dicomjson: marshaling %s: %w", el.Tag(), err)
		}
		obj[tagKey(el.Tag())] = je
	}

	if cfg.PrettyPrint {
		return json.MarshalIndent(obj, "", "  ")
	}
	return json.Marshal(obj)
}

func marshalElement(el value.Element, cfg Config) (*jsonElement, error) {
	v := el.Value()
	je := &jsonElement{VR: v.VR().String()}

	switch val := v.(type) {
	case *value.StringValue:
		je.Value = marshalStrings(val)

	case *value.PersonNameValue:
		je.Value = marshalPersonName(val)

	case *value.IntValue:
		je.Value = marshalInts(val)

	case *value.FloatValue:
		je.Value = marshalFloats(val)

	case *value.BytesValue:
		if len(val.Bytes()) > 0 {
			je.InlineBinary = base64.StdEncoding.EncodeToString(val.Bytes())
		}

	case *value.SequenceValue:
		items, err := marshalSequence(val, cfg)
		if err != nil {
			return nil, err
		}
		je.Value = items

	case *value.EncapsulatedValue:
		if !cfg.StoreEncapsulatedPixelData {
			return nil, ErrEncapsulatedPixelDataDisallowed
		}
		je.InlineBinary = base64.StdEncoding.EncodeToString(marshalEncapsulated(val))

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedVR, v)
	}

	return je, nil
}

func marshalStrings(val *value.StringValue) []interface{} {
	strs := val.Strings()
	if len(strs) == 0 {
		return nil
	}
	out := make([]interface{}, len(strs))
	for i, s := range strs {
		if s == "" {
			continue
		}
		switch val.VR() {
		case vr.DecimalString:
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				out[i] = f
				continue
			}
			out[i] = s
		case vr.IntegerString:
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				out[i] = n
				continue
			}
			out[i] = s
		default:
			out[i] = s
		}
	}
	return out
}

func marshalPersonName(val *value.PersonNameValue) []interface{} {
	entries := val.Entries()
	if len(entries) == 0 {
		return nil
	}
	out := make([]interface{}, len(entries))
	for i, e := range entries {
		pn := personNameJSON{}
		var zero value.PersonNameComponents
		if e.Alphabetic != zero {
			pn.Alphabetic = e.Alphabetic.String()
		}
		if e.Ideographic != zero {
			pn.Ideographic = e.Ideographic.String()
		}
		if e.Phonetic != zero {
			pn.Phonetic = e.Phonetic.String()
		}
		out[i] = pn
	}
	return out
}

func marshalInts(val *value.IntValue) []interface{} {
	ints := val.Ints()
	if len(ints) == 0 {
		return nil
	}
	out := make([]interface{}, len(ints))
	for i, n := range ints {
		if val.VR() == vr.AttributeTag {
			out[i] = fmt.Sprintf("%08X", uint32(n))
			continue
		}
		out[i] = n
	}
	return out
}

func marshalFloats(val *value.FloatValue) []interface{} {
	floats := val.Floats()
	if len(floats) == 0 {
		return nil
	}
	out := make([]interface{}, len(floats))
	for i, f := range floats {
		switch {
		case math.IsInf(f, 1):
			out[i] = "Infinity"
		case math.IsInf(f, -1):
			out[i] = "-Infinity"
		case math.IsNaN(f):
			out[i] = "NaN"
		default:
			out[i] = f
		}
	}
	return out
}

func marshalSequence(val *value.SequenceValue, cfg Config) ([]interface{}, error) {
	items := val.Items()
	out := make([]interface{}, len(items))
	for i, item := range items {
		obj := make(map[string]*jsonElement, len(item.Elements))
		for _, el := range item.Elements {
			je, err := marshalElement(el, cfg)
			if err != nil {
				return nil, err
			}
			obj[tagKey(el.Tag())] = je
		}
		out[i] = obj
	}
	return out, nil
}

// marshalEncapsulated concatenates every fragment's Item (FFFE,E000) header
// and data, little-endian, exactly as they appear on the wire within the
// pixel data element's undefined-length value.
func marshalEncapsulated(val *value.EncapsulatedValue) []byte {
	const itemTagGroup, itemTagElement = 0xFFFE, 0xE000
	var out []byte
	for i := 0; i < val.FragmentCount(); i++ {
		frag, _ := val.Fragment(i)
		header := make([]byte, 8)
		binary.LittleEndian.PutUint16(header[0:2], itemTagGroup)
		binary.LittleEndian.PutUint16(header[2:4], itemTagElement)
		binary.LittleEndian.PutUint32(header[4:8], uint32(len(frag)))
		out = append(out, header...)
		out = append(out, frag...)
	}
	return out
}

func tagKey(t tag.Tag) string {
	return fmt.Sprintf("%04X%04X", t.Group, t.Element)
}
