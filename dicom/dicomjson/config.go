package dicomjson

// Config controls the extensions and formatting dicomjson applies on top of
// the plain PS3.18 Annex F mapping.
type Config struct {
	// StoreEncapsulatedPixelData allows encapsulated Pixel Data to be
	// serialized as InlineBinary, encoding each fragment's Item
	// (FFFE,E000) header and data in the same layout used on the wire.
	// This is an extension to the standard: Annex F itself has no
	// provision for encapsulated pixel data other than a BulkDataURI
	// reference, which this package does not implement. False rejects
	// data sets carrying encapsulated pixel data with
	// ErrEncapsulatedPixelDataDisallowed.
	StoreEncapsulatedPixelData bool

	// PrettyPrint indents the output with two spaces per level.
	PrettyPrint bool
}
