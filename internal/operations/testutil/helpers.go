// Package testutil holds fixtures shared by the pipeline and command tests.
package testutil

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"surfviz/internal/config"
	"surfviz/internal/dataset"
)

// PriceHeader and DeltaHeader are the column names of the two input tables.
var (
	PriceHeader = [3]string{"asset_price", "time_to_maturity", "call_price"}
	DeltaHeader = [3]string{"asset_price", "time_to_maturity", "call_delta"}
)

// ScenarioRows is a 2x2 price surface over asset prices 50 and 60 and
// maturities 0.1 and 0.2.
func ScenarioRows() []dataset.Row {
	return []dataset.Row{
		{X: 50, Y: 0.1, Z: 2.3},
		{X: 50, Y: 0.2, Z: 2.8},
		{X: 60, Y: 0.1, Z: 3.1},
		{X: 60, Y: 0.2, Z: 3.6},
	}
}

// DeltaRows is a 3x2 delta surface.
func DeltaRows() []dataset.Row {
	return []dataset.Row{
		{X: 40, Y: 0.5, Z: 0.21},
		{X: 50, Y: 0.5, Z: 0.55},
		{X: 60, Y: 0.5, Z: 0.84},
		{X: 40, Y: 1.0, Z: 0.32},
		{X: 50, Y: 1.0, Z: 0.58},
		{X: 60, Y: 1.0, Z: 0.79},
	}
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	return path
}

// SurfaceCSV formats rows as a CSV table with the given header
func SurfaceCSV(header [3]string, rows []dataset.Row) string {
	var b strings.Builder
	b.WriteString(strings.Join(header[:], ","))
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(strconv.FormatFloat(r.X, 'g', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(r.Y, 'g', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(r.Z, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}

// CreateSurfaceCSV writes rows as a CSV table into dir
func CreateSurfaceCSV(t *testing.T, dir, name string, header [3]string, rows []dataset.Row) string {
	t.Helper()
	return CreateTestFile(t, dir, name, SurfaceCSV(header, rows))
}

// SetupSurfaceFiles creates a base directory holding data/price_surface.csv
// and data/delta_surface.csv. The images directory is not created.
func SetupSurfaceFiles(t *testing.T) (baseDir, dataDir, imagesDir string) {
	t.Helper()

	baseDir = t.TempDir()
	dataDir = filepath.Join(baseDir, "data")
	imagesDir = filepath.Join(baseDir, "images")

	CreateSurfaceCSV(t, dataDir, config.PriceSurfaceFile, PriceHeader, ScenarioRows())
	CreateSurfaceCSV(t, dataDir, config.DeltaSurfaceFile, DeltaHeader, DeltaRows())

	return baseDir, dataDir, imagesDir
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AssertFileNotExists checks if a file doesn't exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if fileExists(path) {
		t.Errorf("file %s exists but should not", path)
	}
}

// AssertPNG checks that path holds a decodable, non-empty PNG image
func AssertPNG(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	if len(data) == 0 {
		t.Fatalf("image %s is empty", path)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		t.Errorf("%s is not a PNG image: %v", path, err)
	}
}
