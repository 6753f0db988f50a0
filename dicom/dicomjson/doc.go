// Package dicomjson implements the JSON collaborator named in SPEC_FULL.md
// §6: converting a *dicom.DataSet to and from DICOM JSON, as defined in
// PS3.18 Annex F.
//
// DICOM Standard Reference:
// https://dicom.nema.org/medical/dicom/current/output/html/part18.html#chapter_F
package dicomjson
