package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	// ErrBadOBJ is wrapped by every parse failure so callers can test for
	// malformed input with errors.Is.
	ErrBadOBJ = errors.New("malformed OBJ data")
)

// OBJ represents a parsed Wavefront OBJ model: the raw attribute lists and
// the triangulated face list indexing into them. Materials, groups and
// smoothing statements are skipped.
type OBJ struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Faces     []OBJFace
}

// OBJFace is a single triangle. Indices are zero-based into the OBJ
// attribute lists; UV and Normal entries are -1 when the face vertex did
// not reference that attribute.
type OBJFace struct {
	Position [3]int
	UV       [3]int
	Normal   [3]int
}

// TriangleCount returns the number of triangles after fan triangulation.
func (o *OBJ) TriangleCount() int {
	return len(o.Faces)
}

// ParseOBJ parses Wavefront OBJ data. Faces with more than three vertices
// are fan-triangulated; negative (relative) indices are resolved against
// the attribute counts at the point of use.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, objError(lineNo, "vertex: %v", err)
			}
			obj.Positions = append(obj.Positions, p)
		case "vn":
			n, err := parseFloats3(fields[1:])
			if err != nil {
				return nil, objError(lineNo, "normal: %v", err)
			}
			obj.Normals = append(obj.Normals, n)
		case "vt":
			if len(fields) < 3 {
				return nil, objError(lineNo, "texcoord needs 2 components")
			}
			u, err1 := parseFloat(fields[1])
			v, err2 := parseFloat(fields[2])
			if err1 != nil || err2 != nil {
				return nil, objError(lineNo, "texcoord: bad float")
			}
			obj.UVs = append(obj.UVs, [2]float32{u, v})
		case "f":
			if err := obj.parseFace(fields[1:], lineNo); err != nil {
				return nil, err
			}
		default:
			// o, g, s, usemtl, mtllib and anything else: ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	if len(obj.Positions) == 0 || len(obj.Faces) == 0 {
		return nil, fmt.Errorf("no geometry: %w", ErrBadOBJ)
	}

	return obj, nil
}

// parseFace parses one f statement and appends fan-triangulated faces.
func (o *OBJ) parseFace(verts []string, lineNo int) error {
	if len(verts) < 3 {
		return objError(lineNo, "face needs at least 3 vertices")
	}

	type corner struct{ p, t, n int }
	corners := make([]corner, 0, len(verts))

	for _, spec := range verts {
		// Forms: p, p/t, p//n, p/t/n.
		parts := strings.Split(spec, "/")
		if len(parts) == 0 || len(parts) > 3 {
			return objError(lineNo, "bad face vertex %q", spec)
		}

		p, err := resolveIndex(parts[0], len(o.Positions))
		if err != nil {
			return objError(lineNo, "position index %q: %v", parts[0], err)
		}

		t, n := -1, -1
		if len(parts) >= 2 && parts[1] != "" {
			t, err = resolveIndex(parts[1], len(o.UVs))
			if err != nil {
				return objError(lineNo, "texcoord index %q: %v", parts[1], err)
			}
		}
		if len(parts) == 3 && parts[2] != "" {
			n, err = resolveIndex(parts[2], len(o.Normals))
			if err != nil {
				return objError(lineNo, "normal index %q: %v", parts[2], err)
			}
		}

		corners = append(corners, corner{p, t, n})
	}

	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		o.Faces = append(o.Faces, OBJFace{
			Position: [3]int{a.p, b.p, c.p},
			UV:       [3]int{a.t, b.t, c.t},
			Normal:   [3]int{a.n, b.n, c.n},
		})
	}
	return nil
}

// resolveIndex converts a 1-based OBJ index (negative = relative to the end
// of the list) into a 0-based index, validating the range.
func resolveIndex(s string, count int) (int, error) {
	raw, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("not an integer")
	}
	var idx int
	switch {
	case raw > 0:
		idx = raw - 1
	case raw < 0:
		idx = count + raw
	default:
		return 0, errors.New("index 0 is invalid")
	}
	if idx < 0 || idx >= count {
		return 0, errors.New("out of range")
	}
	return idx, nil
}

func parseFloats3(fields []string) ([3]float32, error) {
	var out [3]float32
	if len(fields) < 3 {
		return out, errors.New("needs 3 components")
	}
	for i := 0; i < 3; i++ {
		v, err := parseFloat(fields[i])
		if err != nil {
			return out, fmt.Errorf("bad float %q", fields[i])
		}
		out[i] = v
	}
	return out, nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}

func objError(lineNo int, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("line %d: %s: %w", lineNo, msg, ErrBadOBJ)
}
