package imgprep

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(40 + (x*170)/w) // mid-gray band, no pure black/white
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestPreprocessOutputIsBinary(t *testing.T) {
	out := Preprocess(gradient(10, 8))

	gray, ok := out.(*image.Gray)
	require.True(t, ok)
	for _, v := range gray.Pix {
		assert.True(t, v == 0 || v == 255, "pixel %d is neither black nor white", v)
	}
}

func TestPreprocessUpscalesByFixedFactor(t *testing.T) {
	out := Preprocess(gradient(10, 8))
	b := out.Bounds()
	assert.Equal(t, 20, b.Dx())
	assert.Equal(t, 16, b.Dy())
}

func TestPreprocessDoesNotMutateSource(t *testing.T) {
	src := gradient(6, 6)
	before := append([]uint8(nil), src.Pix...)

	_ = Preprocess(src)

	assert.Equal(t, before, src.Pix)
}

func TestPreprocessOnBinarizedImageKeepsStructure(t *testing.T) {
	// A checkerboard that is already pure black/white: one pass keeps every
	// pixel binary and preserves the pattern at the new scale.
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			src.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	out := Preprocess(src)
	gray, ok := out.(*image.Gray)
	require.True(t, ok)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := uint8(0)
			if (x/2+y/2)%2 == 0 {
				want = 255
			}
			assert.Equal(t, want, gray.GrayAt(x, y).Y, "pixel (%d,%d)", x, y)
		}
	}
}

func TestPreprocessIsDeterministic(t *testing.T) {
	a := Preprocess(gradient(12, 9)).(*image.Gray)
	b := Preprocess(gradient(12, 9)).(*image.Gray)
	assert.Equal(t, a.Pix, b.Pix)
}
