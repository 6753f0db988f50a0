package tag

import "github.com/codeninja55/dcmstream/dicom/vr"

// Well-known tags referenced directly by the rest of the module and its
// tests. Every constant here except the item and delimitation tags
// (Item, ItemDelimitationItem, SequenceDelimitationItem) also has a TagDict
// entry.
var (
	FileMetaInformationGroupLength = New(0x0002, 0x0000)
	FileMetaInformationVersion     = New(0x0002, 0x0001)
	MediaStorageSOPClassUID        = New(0x0002, 0x0002)
	MediaStorageSOPInstanceUID     = New(0x0002, 0x0003)
	TransferSyntaxUID              = New(0x0002, 0x0010)
	ImplementationClassUID         = New(0x0002, 0x0012)
	ImplementationVersionName      = New(0x0002, 0x0013)
	SourceApplicationEntityTitle   = New(0x0002, 0x0016)

	SpecificCharacterSet = New(0x0008, 0x0005)
	SOPClassUID          = New(0x0008, 0x0016)
	SOPInstanceUID       = New(0x0008, 0x0018)
	StudyDate            = New(0x0008, 0x0020)
	SeriesDate           = New(0x0008, 0x0021)
	StudyTime            = New(0x0008, 0x0030)
	Modality             = New(0x0008, 0x0060)
	Manufacturer         = New(0x0008, 0x0070)
	InstitutionName      = New(0x0008, 0x0080)
	StudyDescription     = New(0x0008, 0x1030)
	SeriesDescription    = New(0x0008, 0x103E)

	PatientName       = New(0x0010, 0x0010)
	PatientID         = New(0x0010, 0x0020)
	PatientBirthDate  = New(0x0010, 0x0030)
	PatientSex        = New(0x0010, 0x0040)
	PatientAge        = New(0x0010, 0x1010)

	StudyInstanceUID  = New(0x0020, 0x000D)
	SeriesInstanceUID = New(0x0020, 0x000E)
	InstanceNumber    = New(0x0020, 0x0013)

	SamplesPerPixel             = New(0x0028, 0x0002)
	PhotometricInterpretation   = New(0x0028, 0x0004)
	PlanarConfiguration         = New(0x0028, 0x0006)
	NumberOfFrames              = New(0x0028, 0x0008)
	Rows                        = New(0x0028, 0x0010)
	Columns                     = New(0x0028, 0x0011)
	PixelSpacing                = New(0x0028, 0x0030)
	BitsAllocated               = New(0x0028, 0x0100)
	BitsStored                  = New(0x0028, 0x0101)
	HighBit                     = New(0x0028, 0x0102)
	PixelRepresentation         = New(0x0028, 0x0103)
	SmallestImagePixelValue     = New(0x0028, 0x0106)
	LargestImagePixelValue      = New(0x0028, 0x0107)
	RedPaletteColorLUTDescriptor   = New(0x0028, 0x1101)
	GreenPaletteColorLUTDescriptor = New(0x0028, 0x1102)
	BluePaletteColorLUTDescriptor  = New(0x0028, 0x1103)
	RedPaletteColorLUTData         = New(0x0028, 0x1201)
	GreenPaletteColorLUTData       = New(0x0028, 0x1202)
	BluePaletteColorLUTData        = New(0x0028, 0x1203)
	RescaleIntercept            = New(0x0028, 0x1052)
	RescaleSlope                = New(0x0028, 0x1053)
	ModalityLUTSequence          = New(0x0028, 0x3000)
	LUTDescriptor                = New(0x0028, 0x3002)
	LUTData                      = New(0x0028, 0x3006)
	VOILUTSequence                = New(0x0028, 0x3010)
	WindowCenter                 = New(0x0028, 0x1050)
	WindowWidth                  = New(0x0028, 0x1051)
	VOILUTFunction               = New(0x0028, 0x1056)
	PresentationLUTShape         = New(0x2050, 0x0020)

	PixelData             = New(0x7FE0, 0x0010)
	ExtendedOffsetTable       = New(0x7FE0, 0x0001)
	ExtendedOffsetTableLengths = New(0x7FE0, 0x0002)

	Item                 = New(0xFFFE, 0xE000)
	ItemDelimitationItem = New(0xFFFE, 0xE00D)
	SequenceDelimitationItem = New(0xFFFE, 0xE0DD)
)

func d(t Tag, name, keyword, vm string, retired bool, vrs ...vr.VR) Info {
	return Info{Tag: t, VRs: vrs, Name: name, Keyword: keyword, VM: vm, Retired: retired}
}

// TagDict is the read-only standard-tag dictionary consulted by Find,
// FindByKeyword, and by the P10 read engine's implicit-VR header parsing.
//
// This is a curated subset of DICOM Part 6's full public dictionary,
// covering file meta information, patient/study/series identification,
// and the Image Pixel / VOI LUT / Modality LUT attributes exercised by
// this module's pixel pipeline and tests. An unrecognized tag is not an
// error: callers fall back to vr.Unknown exactly as an unrecognized tag
// in the full standard dictionary would.
var TagDict = map[Tag]Info{
	FileMetaInformationGroupLength: d(FileMetaInformationGroupLength, "File Meta Information Group Length", "FileMetaInformationGroupLength", "1", false, vr.UnsignedLong),
	FileMetaInformationVersion:     d(FileMetaInformationVersion, "File Meta Information Version", "FileMetaInformationVersion", "1", false, vr.OtherByte),
	MediaStorageSOPClassUID:        d(MediaStorageSOPClassUID, "Media Storage SOP Class UID", "MediaStorageSOPClassUID", "1", false, vr.UniqueIdentifier),
	MediaStorageSOPInstanceUID:     d(MediaStorageSOPInstanceUID, "Media Storage SOP Instance UID", "MediaStorageSOPInstanceUID", "1", false, vr.UniqueIdentifier),
	TransferSyntaxUID:              d(TransferSyntaxUID, "Transfer Syntax UID", "TransferSyntaxUID", "1", false, vr.UniqueIdentifier),
	ImplementationClassUID:         d(ImplementationClassUID, "Implementation Class UID", "ImplementationClassUID", "1", false, vr.UniqueIdentifier),
	ImplementationVersionName:      d(ImplementationVersionName, "Implementation Version Name", "ImplementationVersionName", "1", false, vr.ShortString),
	SourceApplicationEntityTitle:   d(SourceApplicationEntityTitle, "Source Application Entity Title", "SourceApplicationEntityTitle", "1", false, vr.ApplicationEntity),

	SpecificCharacterSet: d(SpecificCharacterSet, "Specific Character Set", "SpecificCharacterSet", "1-n", false, vr.CodeString),
	SOPClassUID:          d(SOPClassUID, "SOP Class UID", "SOPClassUID", "1", false, vr.UniqueIdentifier),
	SOPInstanceUID:       d(SOPInstanceUID, "SOP Instance UID", "SOPInstanceUID", "1", false, vr.UniqueIdentifier),
	StudyDate:            d(StudyDate, "Study Date", "StudyDate", "1", false, vr.Date),
	SeriesDate:           d(SeriesDate, "Series Date", "SeriesDate", "1", false, vr.Date),
	StudyTime:            d(StudyTime, "Study Time", "StudyTime", "1", false, vr.Time),
	Modality:             d(Modality, "Modality", "Modality", "1", false, vr.CodeString),
	Manufacturer:         d(Manufacturer, "Manufacturer", "Manufacturer", "1", false, vr.LongString),
	InstitutionName:      d(InstitutionName, "Institution Name", "InstitutionName", "1", false, vr.LongString),
	StudyDescription:     d(StudyDescription, "Study Description", "StudyDescription", "1", false, vr.LongString),
	SeriesDescription:    d(SeriesDescription, "Series Description", "SeriesDescription", "1", false, vr.LongString),

	PatientName:      d(PatientName, "Patient's Name", "PatientName", "1", false, vr.PersonName),
	PatientID:        d(PatientID, "Patient ID", "PatientID", "1", false, vr.LongString),
	PatientBirthDate: d(PatientBirthDate, "Patient's Birth Date", "PatientBirthDate", "1", false, vr.Date),
	PatientSex:       d(PatientSex, "Patient's Sex", "PatientSex", "1", false, vr.CodeString),
	PatientAge:       d(PatientAge, "Patient's Age", "PatientAge", "1", false, vr.AgeString),

	StudyInstanceUID:  d(StudyInstanceUID, "Study Instance UID", "StudyInstanceUID", "1", false, vr.UniqueIdentifier),
	SeriesInstanceUID: d(SeriesInstanceUID, "Series Instance UID", "SeriesInstanceUID", "1", false, vr.UniqueIdentifier),
	InstanceNumber:    d(InstanceNumber, "Instance Number", "InstanceNumber", "1", false, vr.IntegerString),

	SamplesPerPixel:           d(SamplesPerPixel, "Samples per Pixel", "SamplesPerPixel", "1", false, vr.UnsignedShort),
	PhotometricInterpretation: d(PhotometricInterpretation, "Photometric Interpretation", "PhotometricInterpretation", "1", false, vr.CodeString),
	PlanarConfiguration:       d(PlanarConfiguration, "Planar Configuration", "PlanarConfiguration", "1", false, vr.UnsignedShort),
	NumberOfFrames:            d(NumberOfFrames, "Number of Frames", "NumberOfFrames", "1", false, vr.IntegerString),
	Rows:                      d(Rows, "Rows", "Rows", "1", false, vr.UnsignedShort),
	Columns:                   d(Columns, "Columns", "Columns", "1", false, vr.UnsignedShort),
	PixelSpacing:              d(PixelSpacing, "Pixel Spacing", "PixelSpacing", "2", false, vr.DecimalString),
	BitsAllocated:             d(BitsAllocated, "Bits Allocated", "BitsAllocated", "1", false, vr.UnsignedShort),
	BitsStored:                d(BitsStored, "Bits Stored", "BitsStored", "1", false, vr.UnsignedShort),
	HighBit:                   d(HighBit, "High Bit", "HighBit", "1", false, vr.UnsignedShort),
	PixelRepresentation:       d(PixelRepresentation, "Pixel Representation", "PixelRepresentation", "1", false, vr.UnsignedShort),
	SmallestImagePixelValue:   d(SmallestImagePixelValue, "Smallest Image Pixel Value", "SmallestImagePixelValue", "1", false, vr.UnsignedShort, vr.SignedShort),
	LargestImagePixelValue:    d(LargestImagePixelValue, "Largest Image Pixel Value", "LargestImagePixelValue", "1", false, vr.UnsignedShort, vr.SignedShort),

	RedPaletteColorLUTDescriptor:   d(RedPaletteColorLUTDescriptor, "Red Palette Color LUT Descriptor", "RedPaletteColorLUTDescriptor", "3", false, vr.UnsignedShort, vr.SignedShort),
	GreenPaletteColorLUTDescriptor: d(GreenPaletteColorLUTDescriptor, "Green Palette Color LUT Descriptor", "GreenPaletteColorLUTDescriptor", "3", false, vr.UnsignedShort, vr.SignedShort),
	BluePaletteColorLUTDescriptor:  d(BluePaletteColorLUTDescriptor, "Blue Palette Color LUT Descriptor", "BluePaletteColorLUTDescriptor", "3", false, vr.UnsignedShort, vr.SignedShort),
	RedPaletteColorLUTData:         d(RedPaletteColorLUTData, "Red Palette Color LUT Data", "RedPaletteColorLUTData", "1", false, vr.OtherWord),
	GreenPaletteColorLUTData:       d(GreenPaletteColorLUTData, "Green Palette Color LUT Data", "GreenPaletteColorLUTData", "1", false, vr.OtherWord),
	BluePaletteColorLUTData:        d(BluePaletteColorLUTData, "Blue Palette Color LUT Data", "BluePaletteColorLUTData", "1", false, vr.OtherWord),

	RescaleIntercept:     d(RescaleIntercept, "Rescale Intercept", "RescaleIntercept", "1", false, vr.DecimalString),
	RescaleSlope:         d(RescaleSlope, "Rescale Slope", "RescaleSlope", "1", false, vr.DecimalString),
	ModalityLUTSequence:  d(ModalityLUTSequence, "Modality LUT Sequence", "ModalityLUTSequence", "1", false, vr.SequenceOfItems),
	LUTDescriptor:        d(LUTDescriptor, "LUT Descriptor", "LUTDescriptor", "3", false, vr.UnsignedShort, vr.SignedShort),
	LUTData:              d(LUTData, "LUT Data", "LUTData", "1-n", false, vr.UnsignedShort, vr.OtherWord),
	VOILUTSequence:       d(VOILUTSequence, "VOI LUT Sequence", "VOILUTSequence", "1", false, vr.SequenceOfItems),
	WindowCenter:         d(WindowCenter, "Window Center", "WindowCenter", "1-n", false, vr.DecimalString),
	WindowWidth:          d(WindowWidth, "Window Width", "WindowWidth", "1-n", false, vr.DecimalString),
	VOILUTFunction:       d(VOILUTFunction, "VOI LUT Function", "VOILUTFunction", "1", false, vr.CodeString),
	PresentationLUTShape: d(PresentationLUTShape, "Presentation LUT Shape", "PresentationLUTShape", "1", false, vr.CodeString),

	PixelData:                 d(PixelData, "Pixel Data", "PixelData", "1", false, vr.OtherByte, vr.OtherWord),
	ExtendedOffsetTable:        d(ExtendedOffsetTable, "Extended Offset Table", "ExtendedOffsetTable", "1", false, vr.OtherVeryLong),
	ExtendedOffsetTableLengths: d(ExtendedOffsetTableLengths, "Extended Offset Table Lengths", "ExtendedOffsetTableLengths", "1", false, vr.OtherVeryLong),
}
