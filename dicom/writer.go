package dicom

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codeninja55/dcmstream/dicom/element"
	"github.com/codeninja55/dcmstream/dicom/p10"
	"github.com/codeninja55/dcmstream/dicom/tag"
	"github.com/codeninja55/dcmstream/dicom/uid"
	"github.com/codeninja55/dcmstream/dicom/value"
	"github.com/codeninja55/dcmstream/dicom/vr"
)

// WriteOptions configures DICOM file writing behavior.
type WriteOptions struct {
	// TransferSyntax specifies the transfer syntax for encoding the dataset.
	// If nil, uses Explicit VR Little Endian (1.2.840.10008.1.2.1)
	TransferSyntax *uid.UID

	// Overwrite allows overwriting existing files.
	// Default: false (error if file exists)
	Overwrite bool

	// CreateDirs creates parent directories if they don't exist.
	// Default: true
	CreateDirs bool

	// Atomic uses atomic write (temp file + rename) to prevent corruption on failure.
	// Default: true
	Atomic bool

	// ValidateAfterWrite re-parses the file after writing to verify integrity.
	// Default: false (for performance)
	ValidateAfterWrite bool
}

// WriteFile writes a DataSet to a DICOM file with proper Part 10 format.
//
// The function automatically generates required File Meta Information if not present:
//   - (0002,0001) File Meta Information Version
//   - (0002,0002) Media Storage SOP Class UID (from dataset 0008,0016)
//   - (0002,0003) Media Storage SOP Instance UID (from dataset 0008,0018)
//   - (0002,0010) Transfer Syntax UID
//   - (0002,0012) Implementation Class UID
//   - (0002,0013) Implementation Version Name
//
// The file structure follows DICOM Part 10:
//  1. 128-byte preamble (zeros)
//  2. "DICM" prefix
//  3. File Meta Information (Group 0002) - Explicit VR Little Endian
//  4. Dataset elements - encoded with specified transfer syntax
//
// Example:
//
//	err := dicom.WriteFile("/path/output.dcm", dataset)
//	if err != nil {
//	    log.Fatal(err)
//	}
func WriteFile(path string, ds *DataSet) error {
	return WriteFileWithOptions(path, ds, WriteOptions{})
}

// WriteFileWithOptions writes a DataSet to a DICOM file with configurable options.
//
// Example:
//
//	opts := dicom.WriteOptions{
//	    TransferSyntax: &uid.ExplicitVRLittleEndian,
//	    Overwrite: true,
//	    CreateDirs: true,
//	    Atomic: true,
//	}
//	err := dicom.WriteFileWithOptions("/path/output.dcm", dataset, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
func WriteFileWithOptions(path string, ds *DataSet, opts WriteOptions) error {
	if ds == nil {
		return fmt.Errorf("cannot write nil dataset")
	}

	opts = applyDefaultWriteOptions(opts)

	if err := validateRequiredElements(ds); err != nil {
		return err
	}

	if opts.CreateDirs {
		parentDir := filepath.Dir(path)
		if err := os.MkdirAll(parentDir, 0o755); err != nil {
			return fmt.Errorf("failed to create parent directories: %w", err)
		}
	}

	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use Overwrite: true to replace)", path)
		}
	}

	if opts.Atomic {
		return writeFileAtomic(path, ds, opts)
	}
	return writeFileDirect(path, ds, opts)
}

// applyDefaultWriteOptions fills in missing options with sensible defaults.
func applyDefaultWriteOptions(opts WriteOptions) WriteOptions {
	if opts.TransferSyntax == nil {
		explicitVRLE := uid.ExplicitVRLittleEndian
		opts.TransferSyntax = &explicitVRLE
	}
	return opts
}

// validateRequiredElements checks that the dataset has required UIDs for writing.
func validateRequiredElements(ds *DataSet) error {
	sopClassUIDElem, err := ds.Get(tag.New(0x0008, 0x0016))
	if err != nil {
		return fmt.Errorf("missing required element SOPClassUID (0008,0016): %w", err)
	}
	sopClassUID := extractUIDString(sopClassUIDElem)
	if sopClassUID == "" {
		return fmt.Errorf("SOPClassUID (0008,0016) is empty")
	}

	sopInstanceUIDElem, err := ds.Get(tag.New(0x0008, 0x0018))
	if err != nil {
		return fmt.Errorf("missing required element SOPInstanceUID (0008,0018): %w", err)
	}
	sopInstanceUID := extractUIDString(sopInstanceUIDElem)
	if sopInstanceUID == "" {
		return fmt.Errorf("SOPInstanceUID (0008,0018) is empty")
	}

	if !isValidUID(sopClassUID) {
		return fmt.Errorf("invalid SOPClassUID format: %s", sopClassUID)
	}
	if !isValidUID(sopInstanceUID) {
		return fmt.Errorf("invalid SOPInstanceUID format: %s", sopInstanceUID)
	}

	return nil
}

// extractUIDString extracts a UID string from an element value.
// Handles both string values (VR=UI) and bytes values (VR=UN/OB with ASCII text).
func extractUIDString(elem *element.Element) string {
	val := elem.Value()

	if bytesVal, ok := val.(*value.BytesValue); ok {
		data := bytesVal.Bytes()
		trimmed := strings.TrimRight(string(data), "\x00 ")
		return strings.TrimSpace(trimmed)
	}

	return strings.TrimSpace(val.String())
}

// isValidUID performs basic UID validation.
// UIDs must contain only digits, dots, and be reasonable length.
func isValidUID(uidStr string) bool {
	if uidStr == "" || len(uidStr) > 64 {
		return false
	}

	for _, ch := range uidStr {
		if ch != '.' && (ch < '0' || ch > '9') {
			return false
		}
	}

	if uidStr[0] == '.' || uidStr[len(uidStr)-1] == '.' {
		return false
	}

	return true
}

// writeFileAtomic writes the file atomically using temp file + rename pattern.
func writeFileAtomic(path string, ds *DataSet, opts WriteOptions) error {
	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".dicom-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		//nolint:errcheck // Best-effort cleanup of temp file
		os.Remove(tempPath)
	}()

	if err := writeDICOMFile(tempFile, ds, opts); err != nil {
		//nolint:errcheck // Error path cleanup, primary error already captured
		tempFile.Close()
		return fmt.Errorf("failed to write DICOM data: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		//nolint:errcheck // Error path cleanup, primary error already captured
		tempFile.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	if opts.ValidateAfterWrite {
		if _, err := ParseFile(path); err != nil {
			return fmt.Errorf("validation failed after write: %w", err)
		}
	}

	return nil
}

// writeFileDirect writes the file directly without atomic guarantees.
func writeFileDirect(path string, ds *DataSet, opts WriteOptions) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", closeErr)
		}
	}()

	if err := writeDICOMFile(file, ds, opts); err != nil {
		return fmt.Errorf("failed to write DICOM data: %w", err)
	}

	if opts.ValidateAfterWrite {
		if _, err := ParseFile(path); err != nil {
			return fmt.Errorf("validation failed after write: %w", err)
		}
	}

	return nil
}

// writeDICOMFile writes the complete DICOM Part 10 file structure to w,
// via the P10 write engine: preamble and DICM prefix, File Meta
// Information (built from generateFileMetaInformation), the dataset
// (via Emit), and the terminal End token.
func writeDICOMFile(w io.Writer, ds *DataSet, opts WriteOptions) error {
	cfg := p10.DefaultWriteConfig()
	engine, err := p10.NewWriteEngine(w, cfg)
	if err != nil {
		return fmt.Errorf("failed to start write engine: %w", err)
	}

	if err := engine.Write(p10.Token{Kind: p10.KindFilePreambleAndDICMPrefix}); err != nil {
		return fmt.Errorf("failed to write preamble: %w", err)
	}

	fmi, err := generateFileMetaInformation(ds, opts.TransferSyntax)
	if err != nil {
		return fmt.Errorf("failed to generate file meta information: %w", err)
	}
	if err := engine.Write(p10.Token{Kind: p10.KindFileMetaInformation, FileMeta: fmi}); err != nil {
		return fmt.Errorf("failed to write file meta information: %w", err)
	}

	if err := Emit(datasetWithoutFileMeta(ds), engine); err != nil {
		return fmt.Errorf("failed to write dataset elements: %w", err)
	}

	if err := engine.Write(p10.Token{Kind: p10.KindEnd}); err != nil {
		return fmt.Errorf("failed to finalize stream: %w", err)
	}

	return nil
}

// datasetWithoutFileMeta returns a copy of ds with Group 0002 elements
// removed, since those are emitted separately as the FileMetaInformation
// token rather than as ordinary dataset elements.
func datasetWithoutFileMeta(ds *DataSet) *DataSet {
	out := NewDataSet()
	for _, elem := range ds.Elements() {
		if elem.Tag().Group == 0x0002 {
			continue
		}
		out.Add(elem) //nolint:errcheck // elem came from a valid DataSet, Add cannot fail on it
	}
	return out
}

// generateFileMetaInformation creates the materialized File Meta
// Information group (0002) the write engine needs: required identity
// elements derived from ds, with group length and implementation
// identity left for the write engine to compute and inject.
func generateFileMetaInformation(ds *DataSet, transferSyntax *uid.UID) (*p10.FileMetaInfo, error) {
	var elements []p10.FileMetaElement

	// (0002,0001) File Meta Information Version - always [00\01]
	elements = append(elements, p10.FileMetaElement{
		Tag: tag.New(0x0002, 0x0001), VR: vr.OtherByte, Data: []byte{0x00, 0x01},
	})

	sopClassUIDElem, err := ds.Get(tag.New(0x0008, 0x0016))
	if err != nil {
		return nil, fmt.Errorf("missing SOPClassUID: %w", err)
	}
	elements = append(elements, p10.FileMetaElement{
		Tag: tag.New(0x0002, 0x0002), VR: vr.UniqueIdentifier,
		Data: padUIDBytes(sopClassUIDElem.Value().String()),
	})

	sopInstanceUIDElem, err := ds.Get(tag.New(0x0008, 0x0018))
	if err != nil {
		return nil, fmt.Errorf("missing SOPInstanceUID: %w", err)
	}
	elements = append(elements, p10.FileMetaElement{
		Tag: tag.New(0x0002, 0x0003), VR: vr.UniqueIdentifier,
		Data: padUIDBytes(sopInstanceUIDElem.Value().String()),
	})

	elements = append(elements, p10.FileMetaElement{
		Tag: tag.TransferSyntaxUID, VR: vr.UniqueIdentifier,
		Data: padUIDBytes(transferSyntax.String()),
	})

	return &p10.FileMetaInfo{Elements: elements}, nil
}

// padUIDBytes pads a UID string to even length with a trailing NUL, per
// the UI VR's padding rule.
func padUIDBytes(s string) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		b = append(b, 0x00)
	}
	return b
}
