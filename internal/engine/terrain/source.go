package terrain

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
	gomath "math"
	"os"
	"path/filepath"
	"strings"

	"github.com/aquilax/go-perlin"
)

// Procedural noise shape: alpha 2 (amplitude falloff), beta 2 (frequency
// step), 3 octaves. Gives rolling hills without any asset on disk.
const (
	proceduralAlpha   = 2.0
	proceduralBeta    = 2.0
	proceduralOctaves = 3
	proceduralCells   = 4.0
)

// DecodeRAW8 converts 8-bit grayscale heightmap bytes into normalized
// samples.
func DecodeRAW8(data []byte, width, height int) ([]float32, error) {
	if len(data) < width*height {
		return nil, fmt.Errorf("RAW8 data too short: %d bytes for %dx%d", len(data), width, height)
	}
	out := make([]float32, width*height)
	for i := range out {
		out[i] = float32(data[i]) / 255
	}
	return out, nil
}

// DecodeRAW16 converts 16-bit little-endian grayscale heightmap bytes into
// normalized samples.
func DecodeRAW16(data []byte, width, height int) ([]float32, error) {
	if len(data) < width*height*2 {
		return nil, fmt.Errorf("RAW16 data too short: %d bytes for %dx%d", len(data), width, height)
	}
	out := make([]float32, width*height)
	for i := range out {
		out[i] = float32(binary.LittleEndian.Uint16(data[i*2:])) / 65535
	}
	return out, nil
}

// FromImage converts a decoded image into normalized samples. 16-bit gray
// keeps its full precision; everything else reduces to the BT.709 luminance
// of the 8-bit RGB values.
func FromImage(img image.Image) ([]float32, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := make([]float32, w*h)

	if gray16, ok := img.(*image.Gray16); ok {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := gray16.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y
				out[y*w+x] = float32(v) / 65535
			}
		}
		return out, w, h
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r := float32(r16>>8) / 255
			g := float32(g16>>8) / 255
			b := float32(b16>>8) / 255
			out[y*w+x] = 0.2126*r + 0.7152*g + 0.0722*b
		}
	}
	return out, w, h
}

// DecodePNG reads a PNG heightmap.
func DecodePNG(r io.Reader) ([]float32, int, int, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding PNG heightmap: %w", err)
	}
	samples, w, h := FromImage(img)
	return samples, w, h, nil
}

// Procedural generates normalized samples from seeded Perlin noise,
// min/max remapped so the full [0, 1] range is used.
func Procedural(width, height int, seed int64) []float32 {
	p := perlin.NewPerlin(proceduralAlpha, proceduralBeta, proceduralOctaves, seed)
	out := make([]float32, width*height)

	for z := 0; z < height; z++ {
		for x := 0; x < width; x++ {
			nx := float64(x) / float64(width) * proceduralCells
			nz := float64(z) / float64(height) * proceduralCells
			out[z*width+x] = float32(p.Noise2D(nx, nz))
		}
	}

	min, max := out[0], out[0]
	for _, v := range out[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span < 1e-8 {
		span = 1
	}
	for i := range out {
		out[i] = (out[i] - min) / span
	}
	return out
}

// LoadFile reads a heightmap file, picking the decoder from the extension:
// .png, .raw/.r8 (8-bit, square), .r16 (16-bit little-endian, square).
func LoadFile(path string) ([]float32, int, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("opening heightmap: %w", err)
		}
		defer f.Close()
		return DecodePNG(f)
	case ".raw", ".r8":
		return loadSquareRAW(path, 1, DecodeRAW8)
	case ".r16":
		return loadSquareRAW(path, 2, DecodeRAW16)
	default:
		return nil, 0, 0, fmt.Errorf("unsupported heightmap format %q", filepath.Ext(path))
	}
}

// loadSquareRAW infers the side length of a headerless RAW heightmap from
// the file size.
func loadSquareRAW(path string, bytesPerSample int, decode func([]byte, int, int) ([]float32, error)) ([]float32, int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reading heightmap: %w", err)
	}
	side := isqrt(len(data) / bytesPerSample)
	if side < 2 || side*side*bytesPerSample != len(data) {
		return nil, 0, 0, fmt.Errorf("RAW heightmap %s is not square (%d bytes)", path, len(data))
	}
	samples, err := decode(data, side, side)
	if err != nil {
		return nil, 0, 0, err
	}
	return samples, side, side, nil
}

func isqrt(n int) int {
	if n < 1 {
		return 0
	}
	r := int(gomath.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
