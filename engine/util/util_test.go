package util

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBounds(t *testing.T) {
	lo, hi := Bounds([]mgl32.Vec3{{1, 5, -2}, {-3, 2, 4}, {0, 7, 0}})
	if lo != (mgl32.Vec3{-3, 2, -2}) || hi != (mgl32.Vec3{1, 7, 4}) {
		t.Errorf("Bounds = %v %v", lo, hi)
	}
	lo, hi = Bounds(nil)
	if lo != (mgl32.Vec3{}) || hi != (mgl32.Vec3{}) {
		t.Errorf("empty Bounds = %v %v", lo, hi)
	}
}

func TestTimerMeasure(t *testing.T) {
	timer := NewTimer()
	failure := errors.New("boom")
	if err := timer.Measure("load", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if err := timer.Measure("load", func() error { return failure }); err != failure {
		t.Errorf("Measure returned %v", err)
	}
	state := timer.GetState("load")
	if state == nil || state.Count() != 2 || state.Last() < 0 {
		t.Fatalf("state %v", state)
	}
	if timer.GetState("mesh") != nil {
		t.Error("unknown timer should be nil")
	}
	if (&TimerState{}).averageDuration() != 0 {
		t.Error("average of no runs should be 0")
	}
}

func TestDensityImage(t *testing.T) {
	densities := []float32{
		0, 1,
		0.5, 2,
	}
	img, err := DensityImage(densities, 2, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 6 {
		t.Fatalf("image bounds %v", img.Bounds())
	}
	// row y=0 ends up at the bottom
	if got := img.GrayAt(0, 5).Y; got != 0 {
		t.Errorf("bottom left = %d", got)
	}
	if got := img.GrayAt(5, 5).Y; got != 255 {
		t.Errorf("bottom right = %d", got)
	}
	if got := img.GrayAt(0, 0).Y; got != 128 {
		t.Errorf("top left = %d", got)
	}
	if got := img.GrayAt(5, 0).Y; got != 255 {
		t.Errorf("top right should clamp, got %d", got)
	}
	if _, err := DensityImage(densities, 3, 2, 1); err == nil {
		t.Error("expected an error for a mismatched slice")
	}
}

func TestSaveDensityPreview(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "slice.png")
	if err := SaveDensityPreview(filename, []float32{0, 0.25, 0.75, 1}, 4, 1, 2); err != nil {
		t.Fatal(err)
	}
	file, err := os.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 2 {
		t.Errorf("preview bounds %v", img.Bounds())
	}
}

func TestFromJsonFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(filename, []byte(`{"Name":"x","Count":3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var msg struct {
		Name  string
		Count int
	}
	if err := FromJsonFile(filename, &msg); err != nil || msg.Name != "x" || msg.Count != 3 {
		t.Errorf("FromJsonFile = %+v, %v", msg, err)
	}
	os.WriteFile(filename, []byte("{"), 0o644)
	if err := FromJsonFile(filename, &msg); err == nil {
		t.Error("expected a parse error")
	}
}
