package classifier

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"gridwatch/domain/entities"
)

const (
	testWidth  = 400
	testHeight = 300
)

// paintRegion fills a block inside the indicator region (left 40%, middle
// vertical band) of a testWidth x testHeight image.
func paintRegion(img *image.RGBA, c color.RGBA, pixels int) {
	region := indicatorRegion(img.Bounds())
	painted := 0
	for y := region.Min.Y; y < region.Max.Y && painted < pixels; y++ {
		for x := region.Min.X; x < region.Max.X && painted < pixels; x++ {
			img.Set(x, y, c)
			painted++
		}
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newDashboard(background color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, testWidth, testHeight))
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			img.Set(x, y, background)
		}
	}
	return img
}

func TestClassify_GreenIndicatorMeansOnline(t *testing.T) {
	img := newDashboard(color.RGBA{R: 240, G: 240, B: 240, A: 255})
	paintRegion(img, color.RGBA{R: 40, G: 200, B: 60, A: 255}, 600)

	c := New(Thresholds{GreenPixels: 500, RedPixels: 200})
	result, err := c.Classify(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Status != entities.StatusOnline {
		t.Fatalf("status = %s, want %s (green=%d red=%d)", result.Status, entities.StatusOnline, result.GreenPixels, result.RedPixels)
	}
	if result.GreenPixels < 500 {
		t.Fatalf("green pixel count = %d, want >= 500", result.GreenPixels)
	}
}

func TestClassify_RedIndicatorMeansOffline(t *testing.T) {
	img := newDashboard(color.RGBA{R: 240, G: 240, B: 240, A: 255})
	paintRegion(img, color.RGBA{R: 220, G: 50, B: 50, A: 255}, 300)

	c := New(Thresholds{GreenPixels: 500, RedPixels: 200})
	result, err := c.Classify(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Status != entities.StatusOffline {
		t.Fatalf("status = %s, want %s (green=%d red=%d)", result.Status, entities.StatusOffline, result.GreenPixels, result.RedPixels)
	}
}

func TestClassify_GreenWinsOverRed(t *testing.T) {
	img := newDashboard(color.RGBA{R: 240, G: 240, B: 240, A: 255})
	paintRegion(img, color.RGBA{R: 40, G: 200, B: 60, A: 255}, 600)

	// Red block painted after the green one, further down the region.
	region := indicatorRegion(img.Bounds())
	painted := 0
	for y := region.Max.Y - 1; y >= region.Min.Y && painted < 300; y-- {
		for x := region.Min.X; x < region.Max.X && painted < 300; x++ {
			img.Set(x, y, color.RGBA{R: 220, G: 50, B: 50, A: 255})
			painted++
		}
	}

	c := New(Thresholds{GreenPixels: 500, RedPixels: 200})
	result, err := c.Classify(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Status != entities.StatusOnline {
		t.Fatalf("status = %s, want %s", result.Status, entities.StatusOnline)
	}
}

func TestClassify_NeutralImageDefaultsToOnline(t *testing.T) {
	img := newDashboard(color.RGBA{R: 200, G: 200, B: 200, A: 255})

	c := New(Thresholds{})
	result, err := c.Classify(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Status != entities.StatusOnline {
		t.Fatalf("status = %s, want %s", result.Status, entities.StatusOnline)
	}
	if result.GreenPixels != 0 || result.RedPixels != 0 {
		t.Fatalf("neutral image counted green=%d red=%d, want 0/0", result.GreenPixels, result.RedPixels)
	}
}

func TestClassify_DarkFrameIsUnknown(t *testing.T) {
	img := newDashboard(color.RGBA{R: 5, G: 5, B: 5, A: 255})

	c := New(Thresholds{})
	result, err := c.Classify(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Status != entities.StatusUnknown {
		t.Fatalf("status = %s, want %s (brightness %.1f)", result.Status, entities.StatusUnknown, result.MeanBrightness)
	}
}

func TestClassify_PixelsOutsideRegionIgnored(t *testing.T) {
	img := newDashboard(color.RGBA{R: 240, G: 240, B: 240, A: 255})

	// Paint the right half solid red: outside the left-40% region, so it
	// must not produce an offline verdict.
	for y := 0; y < testHeight; y++ {
		for x := testWidth / 2; x < testWidth; x++ {
			img.Set(x, y, color.RGBA{R: 220, G: 50, B: 50, A: 255})
		}
	}

	c := New(Thresholds{})
	result, err := c.Classify(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Status != entities.StatusOnline {
		t.Fatalf("status = %s, want %s", result.Status, entities.StatusOnline)
	}
	if result.RedPixels != 0 {
		t.Fatalf("red pixel count = %d, want 0 for out-of-region pixels", result.RedPixels)
	}
}

func TestClassify_GarbageBytesIsUnknown(t *testing.T) {
	c := New(Thresholds{})
	result, err := c.Classify([]byte("not a png"))
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}
	if result.Status != entities.StatusUnknown {
		t.Fatalf("status = %s, want %s", result.Status, entities.StatusUnknown)
	}
}
