package p10

import (
	"encoding/binary"

	"github.com/codeninja55/dcmstream/dicom/uid"
)

// TransferSyntax records the four encoding parameters that govern how a
// data set's bytes are laid out on the wire, per the glossary's
// TransferSyntax record: (uid, vr_serialization, endianness, deflated,
// encapsulated).
type TransferSyntax struct {
	UID          string
	ExplicitVR   bool
	ByteOrder    binary.ByteOrder
	Deflated     bool
	Encapsulated bool
}

var (
	implicitVRLittleEndian = TransferSyntax{
		UID:        uid.ImplicitVRLittleEndian.String(),
		ExplicitVR: false,
		ByteOrder:  binary.LittleEndian,
	}
	explicitVRLittleEndian = TransferSyntax{
		UID:        uid.ExplicitVRLittleEndian.String(),
		ExplicitVR: true,
		ByteOrder:  binary.LittleEndian,
	}
	explicitVRBigEndian = TransferSyntax{
		UID:        uid.ExplicitVRBigEndian.String(),
		ExplicitVR: true,
		ByteOrder:  binary.BigEndian,
	}
	deflatedExplicitVRLittleEndian = TransferSyntax{
		UID:        uid.DeflatedExplicitVRLittleEndian.String(),
		ExplicitVR: true,
		ByteOrder:  binary.LittleEndian,
		Deflated:   true,
	}
	encapsulatedUncompressedExplicitVRLittleEndian = TransferSyntax{
		UID:          uid.EncapsulatedUncompressedExplicitVRLittleEndian.String(),
		ExplicitVR:   true,
		ByteOrder:    binary.LittleEndian,
		Encapsulated: true,
	}
)

// encapsulatedTransferSyntaxUIDs lists every transfer syntax whose pixel
// data is carried as encapsulated fragments rather than a flat native byte
// array: every compressed codec family the dictionary knows about, plus
// the "encapsulated uncompressed" transfer syntax introduced in the 2022
// edition of the standard.
var encapsulatedTransferSyntaxUIDs = []uid.UID{
	uid.EncapsulatedUncompressedExplicitVRLittleEndian,
	uid.JPEGBaselineProcess1,
	uid.JPEGExtendedProcess2And4,
	uid.JPEGExtendedProcess3And5,
	uid.JPEGSpectralSelectionNonHierarchicalProcess6And8,
	uid.JPEGSpectralSelectionNonHierarchicalProcess7And9,
	uid.JPEGFullProgressionNonHierarchicalProcess10And12,
	uid.JPEGFullProgressionNonHierarchicalProcess11And13,
	uid.JPEGLosslessNonHierarchicalProcess14,
	uid.JPEGLosslessNonHierarchicalProcess15,
	uid.JPEGExtendedHierarchicalProcess16And18,
	uid.JPEGExtendedHierarchicalProcess17And19,
	uid.JPEGSpectralSelectionHierarchicalProcess20And22,
	uid.JPEGSpectralSelectionHierarchicalProcess21And23,
	uid.JPEGFullProgressionHierarchicalProcess24And26,
	uid.JPEGFullProgressionHierarchicalProcess25And27,
	uid.JPEGLosslessHierarchicalProcess28,
	uid.JPEGLosslessHierarchicalProcess29,
	uid.JPEGLosslessNonHierarchicalFirstOrderPredictionProcess14SelectionValue1,
	uid.JPEGLsLosslessImageCompression,
	uid.JPEGLsLossyNearLosslessImageCompression,
	uid.JPEG2000ImageCompressionLosslessOnly,
	uid.JPEG2000ImageCompression,
	uid.JPEG2000Part2MultiComponentImageCompressionLosslessOnly,
	uid.JPEG2000Part2MultiComponentImageCompression,
	uid.HighThroughputJPEG2000ImageCompressionLosslessOnly,
	uid.HighThroughputJPEG2000WithRpclOptionsImageCompressionLosslessOnly,
	uid.HighThroughputJPEG2000ImageCompression,
	uid.JPEGXlLossless,
	uid.JPEGXlJPEGRecompression,
	uid.JPEGXl,
	uid.RLELossless,
}

func encapsulatedTransferSyntax(u string) TransferSyntax {
	return TransferSyntax{
		UID:          u,
		ExplicitVR:   true,
		ByteOrder:    binary.LittleEndian,
		Encapsulated: true,
	}
}

// transferSyntaxRegistry maps every transfer syntax UID this engine
// recognizes to its encoding parameters. Unrecognized UIDs produce
// ErrTransferSyntaxNotSupported at FMI-parse time, per the design note
// that transfer-syntax dispatch is a closed enum resolved up front rather
// than deferred to pixel-decode time.
var transferSyntaxRegistry = buildTransferSyntaxRegistry()

func buildTransferSyntaxRegistry() map[string]TransferSyntax {
	reg := map[string]TransferSyntax{
		implicitVRLittleEndian.UID:                         implicitVRLittleEndian,
		explicitVRLittleEndian.UID:                         explicitVRLittleEndian,
		explicitVRBigEndian.UID:                             explicitVRBigEndian,
		deflatedExplicitVRLittleEndian.UID:                  deflatedExplicitVRLittleEndian,
		encapsulatedUncompressedExplicitVRLittleEndian.UID: encapsulatedUncompressedExplicitVRLittleEndian,
	}
	for _, u := range encapsulatedTransferSyntaxUIDs {
		s := u.String()
		if _, exists := reg[s]; !exists {
			reg[s] = encapsulatedTransferSyntax(s)
		}
	}
	return reg
}

// LookupTransferSyntax resolves a Transfer Syntax UID string to its
// encoding parameters. Returns ErrTransferSyntaxNotSupported if the UID is
// not in the registry.
func LookupTransferSyntax(tsUID string) (TransferSyntax, error) {
	ts, ok := transferSyntaxRegistry[tsUID]
	if !ok {
		return TransferSyntax{}, &ReadError{Kind: ErrTransferSyntaxNotSupported, Detail: tsUID}
	}
	return ts, nil
}
