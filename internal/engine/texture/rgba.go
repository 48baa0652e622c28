package texture

import (
	"image"
	"image/color"
)

// ImageToRGBA converts any image.Image to *image.RGBA, the layout the GL
// upload path expects. Images that already are RGBA come back unchanged.
func ImageToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			rgba.SetRGBA(x, y, color.RGBA{
				R: uint8(r16 >> 8),
				G: uint8(g16 >> 8),
				B: uint8(b16 >> 8),
				A: uint8(a16 >> 8),
			})
		}
	}
	return rgba
}

// Checkerboard returns a 2x2 magenta/black pattern used as the stand-in
// for textures that fail to load.
func Checkerboard() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	magenta := color.RGBA{R: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}
	img.SetRGBA(0, 0, magenta)
	img.SetRGBA(1, 0, black)
	img.SetRGBA(0, 1, black)
	img.SetRGBA(1, 1, magenta)
	return img
}
