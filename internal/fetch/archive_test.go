package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// testFile is one archive member.
type testFile struct {
	Body string
	Mode os.FileMode
}

func sortedNames(files map[string]testFile) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeTestZip writes a zip archive holding files to path.
func writeTestZip(t *testing.T, path string, files map[string]testFile) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer func() { _ = out.Close() }()

	zw := zip.NewWriter(out)
	for _, name := range sortedNames(files) {
		f := files[name]
		header := &zip.FileHeader{Name: name, Method: zip.Deflate}
		mode := f.Mode
		if mode == 0 {
			mode = 0644
		}
		header.SetMode(mode)

		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to write header for %s: %v", name, err)
		}
		if _, err := w.Write([]byte(f.Body)); err != nil {
			t.Fatalf("failed to write content for %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
}

// writeTestTarGz writes a gzipped tar archive holding files to path.
func writeTestTarGz(t *testing.T, path string, files map[string]testFile) {
	t.Helper()

	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	defer func() { _ = out.Close() }()

	gzipWriter := gzip.NewWriter(out)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range sortedNames(files) {
		f := files[name]
		mode := f.Mode
		if mode == 0 {
			mode = 0644
		}
		header := &tar.Header{
			Name:     name,
			Mode:     int64(mode.Perm()),
			Size:     int64(len(f.Body)),
			Typeflag: tar.TypeReg,
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", name, err)
		}
		if _, err := tarWriter.Write([]byte(f.Body)); err != nil {
			t.Fatalf("failed to write content for %s: %v", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gzipWriter.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
}

// zipBytes returns a zip archive holding files.
func zipBytes(t *testing.T, files map[string]testFile) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "asset.zip")
	writeTestZip(t, path, files)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read archive: %v", err)
	}
	return data
}
