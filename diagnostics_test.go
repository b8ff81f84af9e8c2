package img2line

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mergimdemku/img2line/imageutil"
)

func TestDumpStages(t *testing.T) {
	img := imageutil.NewGrayImage(100, 100)
	img.Fill(255)
	for y := 10; y < 12; y++ {
		for x := 0; x < 100; x++ {
			img.SetGrayValue(x, y, 220)
		}
	}

	opts := DefaultOptions()
	opts.RecordStages = true
	p := newTestPipeline(t, opts)
	res, err := p.Process(img)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Stages) == 0 {
		t.Fatal("expected a recorded trail")
	}

	dir := filepath.Join(t.TempDir(), "stages")
	if err := DumpStages(res, dir); err != nil {
		t.Fatalf("DumpStages: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dump dir: %v", err)
	}
	if len(entries) != len(res.Stages) {
		t.Fatalf("expected %d stage files, got %d", len(res.Stages), len(entries))
	}
	if name := entries[0].Name(); name != "00_binarize.png" {
		t.Errorf("first stage file: expected 00_binarize.png, got %s", name)
	}

	loaded, err := imageutil.LoadImage(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("reloading stage file: %v", err)
	}
	if w, h := loaded.Width(), loaded.Height(); w != 100 || h != 100 {
		t.Errorf("stage file dimensions: expected 100x100, got %dx%d", w, h)
	}
}

func TestDumpStagesWithoutTrail(t *testing.T) {
	res, err := Process(imageutil.CreateSolidImage(20, 20, imageutil.RGB{R: 255, G: 255, B: 255}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "stages")
	if err := DumpStages(res, dir); err != nil {
		t.Fatalf("DumpStages: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("no trail should write no directory")
	}
}

func TestWriteComparison(t *testing.T) {
	before := imageutil.CreateSolidImage(30, 20, imageutil.RGB{R: 255, G: 255, B: 255})
	after := imageutil.CreateSolidImage(40, 50, imageutil.RGB{})

	path := filepath.Join(t.TempDir(), "comparison.png")
	if err := WriteComparison(before, after, path); err != nil {
		t.Fatalf("WriteComparison: %v", err)
	}

	img, err := imageutil.LoadImage(path)
	if err != nil {
		t.Fatalf("reloading comparison: %v", err)
	}
	// 30 wide, a 16 pixel gutter, then 40 wide; as tall as the taller
	// side.
	if w, h := img.Width(), img.Height(); w != 86 || h != 50 {
		t.Errorf("canvas: expected 86x50, got %dx%d", w, h)
	}
	if got := img.GetRGB(5, 5); got != (imageutil.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("before pane: expected white, got %v", got)
	}
	if got := img.GetRGB(48, 25); got != (imageutil.RGB{}) {
		t.Errorf("after pane: expected black, got %v", got)
	}
	if got := img.GetRGB(33, 10); got != (imageutil.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("gutter: expected white, got %v", got)
	}
}
