package vegetation

import (
	gomath "math"
	"math/rand"
)

// NoiseField is seeded 2D gradient noise with fractal summation, used to
// vary the grass/rock mix across the terrain. The same seed always
// reproduces the same field.
type NoiseField struct {
	perm [512]int
}

// NewNoiseField builds the permutation table from the given seed.
func NewNoiseField(seed uint32) *NoiseField {
	n := &NoiseField{}

	table := make([]int, 256)
	for i := range table {
		table[i] = i
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	rng.Shuffle(len(table), func(i, j int) {
		table[i], table[j] = table[j], table[i]
	})

	// Duplicate so perm[X+1] and perm[A+1] never wrap.
	for i := 0; i < 256; i++ {
		n.perm[i] = table[i]
		n.perm[i+256] = table[i]
	}

	return n
}

// Noise2D returns gradient noise in roughly [-1, 1] at the given point.
func (n *NoiseField) Noise2D(x, y float32) float32 {
	xi := int(gomath.Floor(float64(x))) & 255
	yi := int(gomath.Floor(float64(y))) & 255

	x -= float32(gomath.Floor(float64(x)))
	y -= float32(gomath.Floor(float64(y)))

	u := fade(x)
	v := fade(y)

	a := n.perm[xi] + yi
	aa := n.perm[a]
	ab := n.perm[a+1]
	b := n.perm[xi+1] + yi
	ba := n.perm[b]
	bb := n.perm[b+1]

	return lerp(v,
		lerp(u, grad(n.perm[aa], x, y), grad(n.perm[ba], x-1, y)),
		lerp(u, grad(n.perm[ab], x, y-1), grad(n.perm[bb], x-1, y-1)),
	)
}

// FBM sums octaves of Noise2D with doubling frequency and amplitude scaled
// by persistence per octave, normalized by the total amplitude so the range
// stays roughly [-1, 1] regardless of octave count.
func (n *NoiseField) FBM(x, y float32, octaves int, persistence float32) float32 {
	var total, maxValue float32
	amplitude := float32(1)
	frequency := float32(1)

	for i := 0; i < octaves; i++ {
		total += n.Noise2D(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}

func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float32) float32 {
	return a + t*(b-a)
}

// grad picks one of four fixed gradient directions by the low hash bits.
func grad(hash int, x, y float32) float32 {
	h := hash & 3
	u, v := x, y
	if h >= 2 {
		u, v = y, x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		return u - 2*v
	}
	return u + 2*v
}
