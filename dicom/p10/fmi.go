package p10

import (
	"strings"

	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// FileMetaElement is one (0002,xxxx) element as materialized by the read
// engine. File Meta Information is always explicit-VR little-endian and
// its values (UIDs, short strings) never need sequence nesting or
// character-set transcoding, so the engine keeps it in this minimal shape
// rather than routing it through the full value.Value taxonomy — avoiding
// an import edge from p10 back to the dicom/value and dicom/element
// packages that may in turn come to depend on p10's token stream.
type FileMetaElement struct {
	Tag  tag.Tag
	VR   vr.VR
	Data []byte
}

// FileMetaInfo is the materialized (0002,xxxx) group carried by a
// KindFileMetaInformation token.
type FileMetaInfo struct {
	Elements []FileMetaElement
}

// Len implements FileMetaInformationSet.
func (f *FileMetaInfo) Len() int {
	return len(f.Elements)
}

// stringValue returns the trimmed string value of t, if present.
func (f *FileMetaInfo) stringValue(t tag.Tag) (string, bool) {
	for _, e := range f.Elements {
		if e.Tag == t {
			return strings.TrimRight(string(e.Data), "\x00 "), true
		}
	}
	return "", false
}

// TransferSyntaxUID returns (0002,0010), if present.
func (f *FileMetaInfo) TransferSyntaxUID() (string, bool) {
	return f.stringValue(tag.TransferSyntaxUID)
}

// Get returns the raw element for t, if present.
func (f *FileMetaInfo) Get(t tag.Tag) (FileMetaElement, bool) {
	for _, e := range f.Elements {
		if e.Tag == t {
			return e, true
		}
	}
	return FileMetaElement{}, false
}
