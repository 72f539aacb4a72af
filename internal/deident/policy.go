package deident

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// Replacement pairs a tag with the fixed neutral value written when the tag
// is present on a record. Used for date/time fields that must stay
// syntactically valid rather than be deleted.
type Replacement struct {
	Tag   tag.Tag
	Value string
}

// Policy declares which tags the engine scrubs and how. It is pure data:
// validated once via Validate, then treated as immutable.
type Policy struct {
	// Remove lists tags that must be absent from the output record.
	Remove []tag.Tag

	// Replace lists tags overwritten with a neutral value when present.
	Replace []Replacement

	// Provenance is the tag stamped with the edge-device identifier on
	// every record. ProvenanceVR is the value representation used when the
	// tag has to be created.
	Provenance   tag.Tag
	ProvenanceVR string
}

// Validate checks the policy invariants: the remove and replace sets are
// disjoint, and the provenance tag is not itself removed. Called once at
// load time, before any record is processed.
func (p Policy) Validate() error {
	removed := make(map[tag.Tag]bool, len(p.Remove))
	for _, t := range p.Remove {
		removed[t] = true
	}

	for _, r := range p.Replace {
		if removed[r.Tag] {
			return fmt.Errorf("policy: tag %v listed for both removal and replacement", r.Tag)
		}
	}

	if removed[p.Provenance] {
		return fmt.Errorf("policy: provenance tag %v is listed for removal", p.Provenance)
	}

	return nil
}

// DefaultPolicy returns the standard scrub configuration, a subset of the
// DICOM PS3.15 Annex E Basic Application Level Confidentiality Profile.
func DefaultPolicy() Policy {
	return Policy{
		Remove: []tag.Tag{
			// Patient identifiers
			tag.PatientName,
			tag.PatientID,
			tag.PatientBirthDate,
			tag.PatientSex,
			tag.PatientAge,
			tag.PatientAddress,
			tag.PatientTelephoneNumbers,
			tag.OtherPatientIDs,
			tag.OtherPatientNames,
			tag.OtherPatientIDsSequence,

			// Physician information
			tag.ReferringPhysicianName,
			tag.ReferringPhysicianAddress,
			tag.ReferringPhysicianTelephoneNumbers,
			tag.PerformingPhysicianName,
			tag.OperatorsName,
			tag.NameOfPhysiciansReadingStudy,
			tag.RequestingPhysician,
			tag.ScheduledPerformingPhysicianName,

			// Institution information
			tag.InstitutionName,
			tag.InstitutionAddress,
			tag.InstitutionalDepartmentName,

			// Other identifiers
			tag.AccessionNumber,
			tag.StudyID,
			tag.DeviceSerialNumber,
			tag.RequestedProcedureID,
		},
		Replace: []Replacement{
			// Dates shifted to 1900-01-01 so the record stays syntactically valid
			{tag.StudyDate, "19000101"},
			{tag.SeriesDate, "19000101"},
			{tag.AcquisitionDate, "19000101"},
			{tag.ContentDate, "19000101"},
			{tag.StudyTime, "000000"},
			{tag.SeriesTime, "000000"},
			{tag.AcquisitionTime, "000000"},
			{tag.ContentTime, "000000"},
		},
		// StationName is repurposed as the provenance tag: it tells the
		// receiving server which mobile unit produced the scan.
		Provenance:   tag.StationName,
		ProvenanceVR: "SH",
	}
}
