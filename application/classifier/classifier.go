package classifier

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"gridwatch/domain/entities"
)

// Thresholds control the pixel-counting heuristic. Zero values fall back to
// the defaults below.
type Thresholds struct {
	// GreenPixels is the minimum number of green-dominant pixels in the
	// indicator region for an online verdict.
	GreenPixels int
	// RedPixels is the minimum number of red-dominant pixels for an
	// offline verdict. Deliberately lower than GreenPixels: the offline
	// badge is small.
	RedPixels int
	// MinBrightness is the mean region brightness below which the frame
	// is considered unrendered and classified unknown.
	MinBrightness float64
}

const (
	defaultGreenPixels   = 500
	defaultRedPixels     = 200
	defaultMinBrightness = 30.0

	// A channel must clear this floor and lead both others by
	// dominanceMargin for the pixel to count.
	channelFloor    = 100
	dominanceMargin = 40
)

// Classifier infers grid status from the dashboard screenshot. It inspects a
// fixed sub-rectangle (left 40% of the width, vertical middle band) where the
// grid indicator is rendered and counts green- and red-dominant pixels.
// Purely threshold based, brittle to viewport or theme changes.
type Classifier struct {
	thresholds Thresholds
}

// New - creates a classifier, filling unset thresholds with defaults.
func New(t Thresholds) *Classifier {
	if t.GreenPixels <= 0 {
		t.GreenPixels = defaultGreenPixels
	}
	if t.RedPixels <= 0 {
		t.RedPixels = defaultRedPixels
	}
	if t.MinBrightness <= 0 {
		t.MinBrightness = defaultMinBrightness
	}
	return &Classifier{thresholds: t}
}

// Classify decodes the screenshot and returns the inferred status.
// Verdict order: green wins, then red, then online by default.
func (c *Classifier) Classify(screenshot []byte) (entities.Classification, error) {
	img, _, err := image.Decode(bytes.NewReader(screenshot))
	if err != nil {
		return entities.Classification{
			Status: entities.StatusUnknown,
			Reason: "screenshot could not be decoded",
		}, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	region := indicatorRegion(img.Bounds())
	green, red, brightness := countDominantPixels(img, region)

	result := entities.Classification{
		GreenPixels:    green,
		RedPixels:      red,
		MeanBrightness: brightness,
	}

	switch {
	case green > c.thresholds.GreenPixels:
		result.Status = entities.StatusOnline
		result.Reason = fmt.Sprintf("%d green pixels above threshold %d", green, c.thresholds.GreenPixels)
	case red > c.thresholds.RedPixels:
		result.Status = entities.StatusOffline
		result.Reason = fmt.Sprintf("%d red pixels above threshold %d", red, c.thresholds.RedPixels)
	case brightness < c.thresholds.MinBrightness:
		// Neither indicator color present and the region is almost
		// black: the page most likely never rendered.
		result.Status = entities.StatusUnknown
		result.Reason = fmt.Sprintf("region too dark to classify (mean brightness %.1f)", brightness)
	default:
		result.Status = entities.StatusOnline
		result.Reason = "no offline indicator detected"
	}

	return result, nil
}

// indicatorRegion - returns the left 40% of the image, middle third of the
// height, where the dashboard draws the grid indicator.
func indicatorRegion(bounds image.Rectangle) image.Rectangle {
	width := bounds.Dx()
	height := bounds.Dy()

	return image.Rect(
		bounds.Min.X,
		bounds.Min.Y+height/3,
		bounds.Min.X+width*40/100,
		bounds.Min.Y+height*2/3,
	)
}

func countDominantPixels(img image.Image, region image.Rectangle) (green, red int, brightness float64) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return 0, 0, 0
	}

	var sum uint64
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			r32, g32, b32, _ := img.At(x, y).RGBA()
			r := int(r32 >> 8)
			g := int(g32 >> 8)
			b := int(b32 >> 8)

			if g > channelFloor && g > r+dominanceMargin && g > b+dominanceMargin {
				green++
			} else if r > channelFloor && r > g+dominanceMargin && r > b+dominanceMargin {
				red++
			}

			sum += uint64(r+g+b) / 3
		}
	}

	pixels := region.Dx() * region.Dy()
	return green, red, float64(sum) / float64(pixels)
}
