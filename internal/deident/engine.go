package deident

import (
	"github.com/suyashkumar/dicom/pkg/tag"

	dcm "dicom-gateway/internal/dicom"
)

const (
	// Method is the free-text profile description written to
	// DeidentificationMethod (0012,0063).
	Method = "DICOM PS3.15 Annex E subset. No UID remap, no pixel scrub."

	// maxMethodLen is the LO value representation length limit. The engine
	// enforces the bound before writing; downstream systems may truncate
	// but must not reject.
	maxMethodLen = 64

	identityRemovedValue = "YES"
)

// Engine applies a Policy to records in place. It has no failure mode of
// its own: every step degrades to a no-op on absent tags.
type Engine struct {
	policy Policy
}

// NewEngine validates the policy once. Apply never re-checks it.
func NewEngine(p Policy) (*Engine, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: p}, nil
}

// Apply de-identifies ds in place and returns it. The steps run in a fixed
// order; calling Apply twice yields the same end state. The pixel payload
// is never read or mutated.
func (e *Engine) Apply(ds *dcm.Dataset, station string) *dcm.Dataset {
	// 1. Remove listed tags. Missing tags are silently skipped.
	for _, t := range e.policy.Remove {
		ds.Delete(t)
	}

	// 2. Overwrite replace-listed tags that are present. Absent tags stay
	// absent: replacement never invents header structure the record did
	// not already declare.
	for _, r := range e.policy.Replace {
		if ds.Has(r.Tag) {
			ds.Set(r.Tag, "", r.Value)
		}
	}

	// 3. Drop all private (odd-group) tags unconditionally.
	ds.RemovePrivateTags()

	// 4. PatientIdentityRemoved (0012,0062) signals downstream consumers
	// that this record has been de-identified.
	ds.Set(tag.PatientIdentityRemoved, "CS", identityRemovedValue)

	// 5. Record which profile was applied, bounded to the VR limit.
	method := Method
	if len(method) > maxMethodLen {
		method = method[:maxMethodLen]
	}
	ds.Set(tag.DeidentificationMethod, "LO", method)

	// 6. Stamp provenance unconditionally, adding the tag if absent.
	ds.Set(e.policy.Provenance, e.policy.ProvenanceVR, station)

	return ds
}
