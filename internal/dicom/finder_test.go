package dicom

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("could not create %s: %v", path, err)
	}
}

func TestListRecordsSortsAndSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b_scan.dcm"))
	touch(t, filepath.Join(dir, "a_scan.dcm"))
	touch(t, filepath.Join(dir, ".DS_Store"))
	touch(t, filepath.Join(dir, ".progress.json"))
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(dir, "nested", "c_scan.dcm"))

	files, err := ListRecords(dir)
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}

	want := []string{"a_scan.dcm", "b_scan.dcm"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("ListRecords = %v, want %v", files, want)
	}
}

func TestListRecordsEmptyFolder(t *testing.T) {
	files, err := ListRecords(t.TempDir())
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("ListRecords on empty folder = %v, want none", files)
	}
}

func TestListRecordsMissingFolder(t *testing.T) {
	if _, err := ListRecords(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("ListRecords on a missing folder returned nil error")
	}
}
