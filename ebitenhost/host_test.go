package ebitenhost

import (
	"image/color"
	"testing"
)

func TestOptionsDefaults(t *testing.T) {
	var o Options
	o.defaults()
	if o.Title != "unveil" || o.Width != 1280 || o.Height != 800 {
		t.Errorf("window = %q %dx%d, want unveil 1280x800", o.Title, o.Width, o.Height)
	}
	if o.WheelSpeed != 40 || o.ScreenshotDir != "screenshots" {
		t.Errorf("WheelSpeed = %v ScreenshotDir = %q", o.WheelSpeed, o.ScreenshotDir)
	}

	o = Options{Width: 640, WheelSpeed: -10}
	o.defaults()
	if o.Width != 640 || o.WheelSpeed != -10 {
		t.Errorf("explicit values overwritten: %+v", o)
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 200, // half-ish alpha
		10, 20, 30, 255, // opaque
		0, 0, 0, 0, // transparent
		200, 200, 200, 100, // over-bright clamps
	}
	img := unpremultiply(pixels, 2, 2)
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{127, 63, 0, 200}},
		{1, 0, color.NRGBA{10, 20, 30, 255}},
		{0, 1, color.NRGBA{0, 0, 0, 0}},
		{1, 1, color.NRGBA{255, 255, 255, 100}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestToRGBAPremultiplies(t *testing.T) {
	got := toRGBA(Color{R: 1, G: 0.5, B: 0, A: 0.5})
	want := color.RGBA{R: 128, G: 64, B: 0, A: 128}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}
