package dicomjson

import "errors"

// ErrEncapsulatedPixelDataDisallowed indicates a data set carries
// encapsulated Pixel Data but Config.StoreEncapsulatedPixelData is false.
// Storing encapsulated pixel data inline is an extension to PS3.18 Annex F,
// so callers must opt in explicitly rather than silently get a non-standard
// document.
var ErrEncapsulatedPixelDataDisallowed = errors.New("dicomjson: encapsulated pixel data present but not allowed by config")

// ErrMalformedTagKey indicates a JSON object key is not a valid 8-hex-digit
// DICOM tag.
var ErrMalformedTagKey = errors.New("dicomjson: malformed tag key")

// ErrUnsupportedVR indicates a "vr" field names a VR this package cannot
// marshal or unmarshal.
var ErrUnsupportedVR = errors.New("dicomjson: unsupported VR")
