// Package charset transcodes DICOM text element values into UTF-8 according
// to the (0008,0005) Specific Character Set declared in a data set's File
// Meta Information or data set root.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part03.html#sect_C.12.1.1.2
package charset

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// singleByteRepertoires maps a defined term from PS3.3 Table C.12-2 to the
// x/text charmap.Charmap that decodes it. These are the repertoires DICOM
// designates without an ISO 2022 escape sequence: the whole value uses one
// 8-bit code page from start to finish.
var singleByteRepertoires = map[string]encoding.Encoding{
	"ISO_IR 100": charmap.ISO8859_1,
	"ISO_IR 101": charmap.ISO8859_2,
	"ISO_IR 109": charmap.ISO8859_3,
	"ISO_IR 110": charmap.ISO8859_4,
	"ISO_IR 144": charmap.ISO8859_5,
	"ISO_IR 127": charmap.ISO8859_6,
	"ISO_IR 126": charmap.ISO8859_7,
	"ISO_IR 138": charmap.ISO8859_8,
	"ISO_IR 148": charmap.ISO8859_9,
	"ISO_IR 203": charmap.ISO8859_15,
}

// japaneseISO2022Designators identifies the defined terms that, alone or
// combined with others in the multi-valued form of (0008,0005), select the
// ISO 2022 Japanese repertoire combination (ISO 2022 IR 6/13/87/159): JIS
// X 0201 romaji/katakana plus JIS X 0208/0212 switched in via escape
// sequences. golang.org/x/text's japanese.ISO2022JP decodes exactly this
// escape-sequence state machine.
var japaneseISO2022Designators = map[string]bool{
	"ISO 2022 IR 6":   true,
	"ISO 2022 IR 13":  true,
	"ISO 2022 IR 87":  true,
	"ISO 2022 IR 159": true,
}

// Decoder transcodes raw element value bytes encoded under a declared
// Specific Character Set into UTF-8. The zero value decodes the default
// repertoire (ISO-IR 6 / US-ASCII), which is already valid UTF-8 byte for
// byte, so a nil *Decoder is a legitimate no-op transcoder.
type Decoder struct {
	enc encoding.Encoding
}

// Resolve parses a (0008,0005) Specific Character Set value into a Decoder.
// An empty value (the tag absent or zero-length) resolves to the default
// repertoire. Designators this package does not recognize return
// ErrUnsupportedDesignator wrapping the unrecognized term.
func Resolve(specificCharacterSet []string) (*Decoder, error) {
	terms := nonEmptyTrimmed(specificCharacterSet)
	if len(terms) == 0 {
		return &Decoder{}, nil
	}

	if len(terms) > 1 || japaneseISO2022Designators[terms[0]] {
		for _, t := range terms {
			if !japaneseISO2022Designators[t] {
				return nil, fmt.Errorf("%w: %q", ErrUnsupportedDesignator, strings.Join(terms, "\\"))
			}
		}
		return &Decoder{enc: japanese.ISO2022JP}, nil
	}

	term := terms[0]
	switch term {
	case "ISO_IR 6", "":
		return &Decoder{}, nil
	case "ISO_IR 192":
		return &Decoder{enc: unicode.UTF8}, nil
	case "GB18030":
		return &Decoder{enc: simplifiedchinese.GB18030}, nil
	case "GBK":
		return &Decoder{enc: simplifiedchinese.GBK}, nil
	}
	if enc, ok := singleByteRepertoires[term]; ok {
		return &Decoder{enc: enc}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDesignator, term)
}

// Transcode converts data, encoded per the repertoire the Decoder was
// resolved from, into UTF-8. vrAbbrev is the two-letter VR abbreviation
// (vr.VR.String()) of the element being decoded. It satisfies
// value.Transcoder.
//
// For VR PN, DICOM resets the active designator to the default repertoire
// at each "=" component-group delimiter (Alphabetic/Ideographic/Phonetic),
// so group boundaries are decoded independently before being rejoined; the
// delimiter byte itself is ASCII '=' under every repertoire this package
// supports and is safe to split on before transcoding.
func (d *Decoder) Transcode(vrAbbrev string, data []byte) []byte {
	if d == nil || d.enc == nil {
		return data
	}
	if vrAbbrev != "PN" {
		return d.decodeBytes(data)
	}

	groups := bytes.Split(data, []byte("="))
	for i, g := range groups {
		groups[i] = d.decodeBytes(g)
	}
	return bytes.Join(groups, []byte("="))
}

func (d *Decoder) decodeBytes(data []byte) []byte {
	out, err := d.enc.NewDecoder().Bytes(data)
	if err != nil {
		return bytes.ToValidUTF8(data, []byte("�"))
	}
	return bytes.ToValidUTF8(out, []byte("�"))
}

func nonEmptyTrimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
