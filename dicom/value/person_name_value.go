package value

import (
	"fmt"
	"strings"

	"github.com/codeninja55/dcmstream/dicom/vr"
)

// PersonNameComponents holds the five name components of a single PN
// component group, in order: FamilyName, GivenName, MiddleName,
// NamePrefix, NameSuffix.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.1.1
type PersonNameComponents struct {
	FamilyName string
	GivenName  string
	MiddleName string
	NamePrefix string
	NameSuffix string
}

func (c PersonNameComponents) isZero() bool {
	return c.FamilyName == "" && c.GivenName == "" && c.MiddleName == "" &&
		c.NamePrefix == "" && c.NameSuffix == ""
}

func (c PersonNameComponents) String() string {
	return strings.Join([]string{c.FamilyName, c.GivenName, c.MiddleName, c.NamePrefix, c.NameSuffix}, "^")
}

func parsePersonNameComponents(s string) PersonNameComponents {
	parts := strings.Split(s, "^")
	var c PersonNameComponents
	fields := []*string{&c.FamilyName, &c.GivenName, &c.MiddleName, &c.NamePrefix, &c.NameSuffix}
	for i, p := range parts {
		if i >= len(fields) {
			break
		}
		*fields[i] = p
	}
	return c
}

// PersonNameEntry holds up to three representations of one PN value: the
// alphabetic, ideographic, and phonetic component groups, separated on the
// wire by "=".
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.1.1
type PersonNameEntry struct {
	Alphabetic  PersonNameComponents
	Ideographic PersonNameComponents
	Phonetic    PersonNameComponents
}

func parsePersonNameEntry(s string) PersonNameEntry {
	groups := strings.Split(s, "=")
	var e PersonNameEntry
	if len(groups) > 0 {
		e.Alphabetic = parsePersonNameComponents(groups[0])
	}
	if len(groups) > 1 {
		e.Ideographic = parsePersonNameComponents(groups[1])
	}
	if len(groups) > 2 {
		e.Phonetic = parsePersonNameComponents(groups[2])
	}
	return e
}

func (e PersonNameEntry) String() string {
	groups := []string{e.Alphabetic.String()}
	if !e.Ideographic.isZero() || !e.Phonetic.isZero() {
		groups = append(groups, e.Ideographic.String())
	}
	if !e.Phonetic.isZero() {
		groups = append(groups, e.Phonetic.String())
	}
	return strings.Join(groups, "=")
}

// PersonNameValue represents a DICOM Person Name (PN) value: one or more
// PersonNameEntry values, each with up to three component groups.
//
// This is distinct from StringValue (which still accepts PN for callers
// that only want the raw backslash/caret-joined string) because component
// group access benefits from a dedicated type, matching how DICOM toolkits
// such as pydicom expose PersonName separately from plain strings.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2.1.1
type PersonNameValue struct {
	entries []PersonNameEntry
}

// NewPersonNameValue creates a PersonNameValue from backslash-separated raw
// PN strings (each potentially containing "=" separated component groups).
func NewPersonNameValue(raw []string) (*PersonNameValue, error) {
	entries := make([]PersonNameEntry, 0, len(raw))
	for _, s := range raw {
		if len(s) > 324 {
			return nil, fmt.Errorf("person name value %q exceeds maximum length 324", s)
		}
		entries = append(entries, parsePersonNameEntry(s))
	}
	return &PersonNameValue{entries: entries}, nil
}

// VR always returns vr.PersonName.
func (p *PersonNameValue) VR() vr.VR {
	return vr.PersonName
}

// Entries returns the parsed PersonNameEntry values.
func (p *PersonNameValue) Entries() []PersonNameEntry {
	return p.entries
}

// String returns the backslash-joined raw PN representation.
func (p *PersonNameValue) String() string {
	parts := make([]string, len(p.entries))
	for i, e := range p.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, "\\")
}

// Bytes returns the raw byte encoding, space-padded to even length per the
// string-like VR padding rule.
func (p *PersonNameValue) Bytes() []byte {
	s := p.String()
	if len(s)%2 == 1 {
		s += " "
	}
	return []byte(s)
}

// Equals returns true if this value equals another PersonNameValue with the
// same raw string representation.
func (p *PersonNameValue) Equals(other Value) bool {
	otherPN, ok := other.(*PersonNameValue)
	if !ok {
		return false
	}
	return p.String() == otherPN.String()
}

var _ Value = (*PersonNameValue)(nil)
