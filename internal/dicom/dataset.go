package dicom

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Dataset wraps a DICOM dataset for tag-level access
type Dataset struct {
	Data     dicom.Dataset
	FilePath string
}

// Read parses a DICOM file and returns the dataset, pixel data included.
func Read(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}

	ds, err := dicom.Parse(file, info.Size(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM: %w", err)
	}

	return &Dataset{
		Data:     ds,
		FilePath: path,
	}, nil
}

// Has reports whether the tag is present on the record.
func (d *Dataset) Has(t tag.Tag) bool {
	_, err := d.Data.FindElementByTag(t)
	return err == nil
}

// GetString returns a string value for a tag, or empty string if not found.
func (d *Dataset) GetString(t tag.Tag) string {
	elem, err := d.Data.FindElementByTag(t)
	if err != nil {
		return ""
	}

	if elem.Value == nil {
		return ""
	}

	val := elem.Value.GetValue()
	if val == nil {
		return ""
	}

	switch v := val.(type) {
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case string:
		return v
	}

	return fmt.Sprintf("%v", val)
}

// Set writes a string value for a tag. If the element already exists its
// value representation is kept; otherwise a new element is appended using
// the supplied VR.
func (d *Dataset) Set(t tag.Tag, vr, value string) error {
	newValue, err := dicom.NewValue([]string{value})
	if err != nil {
		return fmt.Errorf("could not create value: %w", err)
	}

	elem, err := d.Data.FindElementByTag(t)
	if err != nil {
		d.Data.Elements = append(d.Data.Elements, &dicom.Element{
			Tag:                    t,
			ValueRepresentation:    tag.VRStringList,
			RawValueRepresentation: vr,
			ValueLength:            uint32(len(value)),
			Value:                  newValue,
		})
		return nil
	}

	newElem := &dicom.Element{
		Tag:                    t,
		ValueRepresentation:    elem.ValueRepresentation,
		RawValueRepresentation: elem.RawValueRepresentation,
		ValueLength:            uint32(len(value)),
		Value:                  newValue,
	}

	for i, e := range d.Data.Elements {
		if e.Tag == t {
			d.Data.Elements[i] = newElem
			break
		}
	}

	return nil
}

// Delete removes a tag from the dataset. Missing tags are a no-op.
func (d *Dataset) Delete(t tag.Tag) {
	for i, e := range d.Data.Elements {
		if e.Tag == t {
			d.Data.Elements = append(d.Data.Elements[:i], d.Data.Elements[i+1:]...)
			return
		}
	}
}

// RemovePrivateTags drops every element with an odd group number. Private
// tags are vendor extensions that may carry identifying data we cannot
// enumerate in advance. Returns the number of elements removed.
func (d *Dataset) RemovePrivateTags() int {
	kept := d.Data.Elements[:0]
	removed := 0
	for _, e := range d.Data.Elements {
		if e.Tag.Group%2 == 1 {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	d.Data.Elements = kept
	return removed
}

// Save writes the DICOM dataset to a file, creating parent directories.
func (d *Dataset) Save(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer file.Close()

	// Write with relaxed verification (many real-world DICOM files
	// don't strictly follow VR specifications)
	if err := dicom.Write(file, d.Data,
		dicom.SkipVRVerification(),
		dicom.SkipValueTypeVerification(),
		dicom.DefaultMissingTransferSyntax(),
	); err != nil {
		return fmt.Errorf("could not write DICOM: %w", err)
	}

	return nil
}
