// Package imgprep normalizes document images before OCR. Scanned
// scholarship documents arrive at wildly varying quality; tesseract accuracy
// on them is highly sensitive to contrast and resolution, so every image
// goes through the same fixed pipeline. No adaptive thresholding: identical
// input bytes must produce identical output.
package imgprep

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

const (
	upscaleFactor = 2
	// Luminance cut for binarization: below -> black, else -> white.
	binarizeThreshold = 160
)

// Preprocess prepares a decodable raster image for OCR: grayscale, 2x
// nearest-neighbour upscale, contrast stretch, fixed-threshold binarization.
// Pure function; the source image is never modified.
func Preprocess(src image.Image) image.Image {
	gray := imaging.Grayscale(imaging.Clone(src))
	b := gray.Bounds()
	gray = imaging.Resize(gray, b.Dx()*upscaleFactor, b.Dy()*upscaleFactor, imaging.NearestNeighbor)
	stretchContrast(gray)
	return binarize(gray)
}

// stretchContrast maps the darkest pixel to 0 and the lightest to 255 in
// place. A flat image (single luminance) is left untouched.
func stretchContrast(img *image.NRGBA) {
	lo, hi := uint8(255), uint8(0)
	// Grayscale NRGBA: R == G == B, so channel 0 is the luminance.
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return
	}
	span := int(hi) - int(lo)
	for i := 0; i < len(img.Pix); i += 4 {
		v := uint8((int(img.Pix[i]) - int(lo)) * 255 / span)
		img.Pix[i] = v
		img.Pix[i+1] = v
		img.Pix[i+2] = v
	}
}

// binarize converts the grayscale image to strict black and white.
func binarize(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := img.NRGBAAt(x, y).R
			if v < binarizeThreshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
