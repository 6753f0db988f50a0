// Package anonymize implements the anonymizer collaborator: it removes data
// elements matching a fixed identifying-element list, plus three mandatory
// blanket rules applied regardless of profile — every private element,
// every patient-group (0010,xxxx) element, and every AE-VR value.
//
// # Supported Profiles
//
// The fixed identifying-element list is tuned by profile, layered on top
// of the three blanket rules:
//
//   - Basic Application Level Confidentiality Profile (E.1)
//   - Clean Pixel Data Option
//   - Clean Descriptors Option
//   - Retain UIDs Option
//   - Retain Device Identity Option
//   - Retain Longitudinal Temporal Information Options
//
// # Basic Usage
//
// Apply the Basic Application Level Confidentiality Profile:
//
//	anonymizer := anonymize.NewAnonymizer(anonymize.ProfileBasic)
//	anonymizedDS, err := anonymizer.Anonymize(ds)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Custom Configuration
//
// Create a custom anonymizer with specific options:
//
//	config := anonymize.Config{
//	    Profile: anonymize.ProfileBasic,
//	    Options: anonymize.Options{
//	        RetainUIDs:           false,
//	        RetainDeviceIdentity: false,
//	        CleanPixelData:       false,
//	        CleanDescriptors:     true,
//	    },
//	    InstitutionName: "RESEARCH_SITE_04",
//	}
//	anonymizer := anonymize.NewAnonymizerWithConfig(config)
//
// # Action Types
//
// The package uses standard DICOM PS3.15 action types:
//
//   - D: Replace with dummy value
//   - Z: Replace with zero-length value or remove
//   - X: Remove
//   - K: Keep (no action)
//   - C: Clean (replace with values of similar meaning)
//   - U: Replace UIDs with new generated values
//
// # Compliance
//
// This implementation follows DICOM PS3.15 Attribute Confidentiality Profiles:
// https://dicom.nema.org/medical/dicom/current/output/html/part15.html#chapter_E
//
// # Important Notes
//
// De-identification cannot guarantee complete anonymity. Additional steps may be
// required depending on your use case:
//   - Review for burned-in annotations in pixel data
//   - Check for identifying information in private tags
//   - Validate against your institutional requirements
//   - Consider additional scrubbing of free-text fields
package anonymize
