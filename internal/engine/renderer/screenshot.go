package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/hollowpine/meadowfall/internal/logger"
	"go.uber.org/zap"
)

// Screenshot reads back the current frame and saves it as a PNG.
// Call after the frame is fully drawn and before the buffer swap.
func (r *Renderer) Screenshot(path string) error {
	width, height := int32(r.config.Width), int32(r.config.Height)

	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// GL rows run bottom to top, image rows top to bottom.
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	rowLen := int(width) * 4
	for y := 0; y < int(height); y++ {
		src := (int(height) - 1 - y) * rowLen
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowLen], pixels[src:src+rowLen])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding screenshot: %w", err)
	}

	logger.Info("screenshot saved",
		zap.String("path", path),
		zap.Int32("width", width),
		zap.Int32("height", height))
	return nil
}
