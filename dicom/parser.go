// Package dicom provides DICOM file parsing implementation.
package dicom

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/codeninja55/dcmstream/dicom/bytestream"
	"github.com/codeninja55/dcmstream/dicom/p10"
)

// ParseFile reads and parses a DICOM file from the filesystem.
//
// This is the main entry point for parsing DICOM files. It handles:
//   - Reading the file preamble and validating the DICM prefix
//   - Parsing File Meta Information to determine transfer syntax
//   - Parsing the main dataset with the appropriate encoding
//
// Returns a DataSet containing all parsed DICOM elements, or an error if parsing fails.
//
// Example:
//
//	ds, err := dicom.ParseFile("image.dcm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Parsed %d elements\n", ds.Len())
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7
func ParseFile(path string) (*DataSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader reads and parses a DICOM file from an io.Reader.
//
// This allows parsing DICOM data from any source (files, network, memory,
// etc.). The reader must provide a complete DICOM file starting with the
// preamble. Internally the whole input is buffered and handed to the P10
// read engine in a single Write(done=true), then drained through a
// DataSetBuilder: since ParseReader's own contract is blocking
// (io.Reader-in, DataSet-out), there is no streaming benefit to feeding
// the engine incrementally here. Callers that want genuinely incremental
// parsing should drive p10.ReadEngine and DataSetBuilder directly.
//
// Returns a DataSet containing all parsed DICOM elements, or an error if parsing fails.
//
// Example:
//
//	file, _ := os.Open("image.dcm")
//	defer file.Close()
//	ds, err := dicom.ParseReader(file)
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7
func ParseReader(r io.Reader) (*DataSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	bs := bytestream.New()
	if err := bs.Write(data, true); err != nil {
		return nil, fmt.Errorf("failed to buffer input: %w", err)
	}

	engine, err := p10.NewReadEngine(bs, p10.DefaultReadConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to start read engine: %w", err)
	}

	ds, err := BuildFromReadEngine(engine)
	if err != nil {
		if mapped := translateParseError(err); mapped != nil {
			return nil, fmt.Errorf("%w: %v", mapped, err)
		}
		return nil, fmt.Errorf("failed to parse dicom stream: %w", err)
	}
	return ds, nil
}

// translateParseError maps select p10 taxonomy errors onto this package's
// long-standing sentinels, so callers written against ParseFile/
// ParseReader before the P10 read engine existed keep working against
// errors.Is checks. Returns nil when no mapping applies, leaving the
// original p10 error as the one callers should match against.
func translateParseError(err error) error {
	switch {
	case errors.Is(err, p10.ErrDicmPrefixNotPresent):
		return ErrInvalidPreamble
	case errors.Is(err, p10.ErrTransferSyntaxNotSupported):
		return ErrInvalidTransferSyntax
	default:
		return nil
	}
}
