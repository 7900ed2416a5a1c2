// Package objfile reads the geometry of Wavefront OBJ files.
//
// Only vertex positions ("v") and faces ("f") are read. Polygons are
// triangulated as fans around their first corner. Texture and normal
// references ("f 1/2/3") are ignored, and negative indices count back from
// the last vertex read so far.
package objfile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Load parses an OBJ stream into positions and triangle corner indices.
func Load(r io.Reader) ([]mgl64.Vec3, []uint32, error) {
	var vertices []mgl64.Vec3
	var indices []uint32

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, nil, errors.Wrapf(err, "line %d", line)
			}
			vertices = append(vertices, v)
		case "f":
			polygon, err := parseFace(fields[1:], len(vertices))
			if err != nil {
				return nil, nil, errors.Wrapf(err, "line %d", line)
			}
			for i := 1; i+1 < len(polygon); i++ {
				indices = append(indices, polygon[0], polygon[i], polygon[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "reading obj")
	}

	return vertices, indices, nil
}

// LoadFile is Load on the named file.
func LoadFile(path string) ([]mgl64.Vec3, []uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening obj")
	}
	defer f.Close()

	vertices, indices, err := Load(f)
	if err != nil {
		return nil, nil, errors.Wrap(err, path)
	}
	return vertices, indices, nil
}

func parseVertex(fields []string) (mgl64.Vec3, error) {
	// A fourth w coordinate is allowed and ignored.
	if len(fields) < 3 {
		return mgl64.Vec3{}, errors.Errorf("vertex has %d coordinates, want 3", len(fields))
	}

	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		c, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return mgl64.Vec3{}, errors.Wrapf(err, "vertex coordinate %d", i)
		}
		v[i] = c
	}
	return v, nil
}

func parseFace(fields []string, count int) ([]uint32, error) {
	if len(fields) < 3 {
		return nil, errors.Errorf("face has %d corners, want at least 3", len(fields))
	}

	polygon := make([]uint32, len(fields))
	for i, field := range fields {
		ref, _, _ := strings.Cut(field, "/")
		n, err := strconv.Atoi(ref)
		if err != nil {
			return nil, errors.Wrapf(err, "face corner %d", i)
		}

		switch {
		case n > 0 && n <= count:
			polygon[i] = uint32(n - 1)
		case n < 0 && -n <= count:
			polygon[i] = uint32(count + n)
		default:
			return nil, errors.Errorf("face corner %d references vertex %d of %d", i, n, count)
		}
	}
	return polygon, nil
}
