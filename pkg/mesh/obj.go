package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/meshburst/pkg/math"
)

// OBJ format errors.
var (
	ErrOBJSyntax     = errors.New("obj: syntax error")
	ErrOBJBadIndex   = errors.New("obj: index out of range")
	ErrOBJNoGeometry = errors.New("obj: no faces")
)

// LoadOBJ reads a Wavefront OBJ file. See ParseOBJ.
func LoadOBJ(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	src.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return src, nil
}

// ParseOBJ reads positions, texture coordinates and faces. Each usemtl
// statement opens a new submesh. Polygons are fan-triangulated. Vertices are
// shared whenever a face corner repeats the same position/uv pair.
func ParseOBJ(r io.Reader) (*Source, error) {
	var (
		positions []math.Vec3
		texcoords []math.Vec2
		src       = &Source{}
		current   = -1
		shared    = make(map[[2]int]uint32)
		hasUV     bool
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrOBJSyntax, line, err)
			}
			positions = append(positions, math.Vec3{X: v[0], Y: v[1], Z: v[2]})
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrOBJSyntax, line, err)
			}
			texcoords = append(texcoords, math.Vec2{X: v[0], Y: v[1]})
		case "usemtl":
			src.SubMeshes = append(src.SubMeshes, nil)
			current = len(src.SubMeshes) - 1
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs 3 corners", ErrOBJSyntax, line)
			}
			if current < 0 {
				src.SubMeshes = append(src.SubMeshes, nil)
				current = 0
			}

			corners := make([]uint32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				pi, ti, err := parseCorner(tok, len(positions), len(texcoords))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				key := [2]int{pi, ti}
				idx, ok := shared[key]
				if !ok {
					idx = uint32(len(src.Positions))
					src.Positions = append(src.Positions, positions[pi])
					var uv math.Vec2
					if ti >= 0 {
						uv = texcoords[ti]
						hasUV = true
					}
					src.UVs = append(src.UVs, uv)
					shared[key] = idx
				}
				corners = append(corners, idx)
			}
			for k := 1; k+1 < len(corners); k++ {
				src.SubMeshes[current] = append(src.SubMeshes[current], corners[0], corners[k], corners[k+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Drop materials that never received a face.
	subs := src.SubMeshes[:0]
	for _, sm := range src.SubMeshes {
		if len(sm) > 0 {
			subs = append(subs, sm)
		}
	}
	src.SubMeshes = subs
	if len(src.SubMeshes) == 0 {
		return nil, ErrOBJNoGeometry
	}
	if !hasUV {
		src.UVs = nil
	}
	return src, nil
}

// parseCorner decodes "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// position and texcoord indices (texcoord -1 when absent).
func parseCorner(tok string, nPos, nTex int) (int, int, error) {
	parts := strings.Split(tok, "/")
	pi, err := resolveIndex(parts[0], nPos)
	if err != nil {
		return 0, 0, err
	}
	ti := -1
	if len(parts) > 1 && parts[1] != "" {
		ti, err = resolveIndex(parts[1], nTex)
		if err != nil {
			return 0, 0, err
		}
	}
	return pi, ti, nil
}

// resolveIndex converts a one-based (or negative, relative) OBJ index.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrOBJSyntax, s)
	}
	if i < 0 {
		i = n + i
	} else {
		i--
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %s of %d", ErrOBJBadIndex, s, n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}
