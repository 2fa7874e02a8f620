package preview

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
)

// LoadTexture decodes a PNG, JPEG, BMP or TGA file into NRGBA.
func LoadTexture(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return toNRGBA(img), nil
}

// LoadTextures loads one texture per path. Empty paths stay nil so the
// matching submesh falls back to its palette color.
func LoadTextures(paths []string) ([]*image.NRGBA, error) {
	out := make([]*image.NRGBA, len(paths))
	for i, p := range paths {
		if p == "" {
			continue
		}
		tex, err := LoadTexture(p)
		if err != nil {
			return nil, err
		}
		out[i] = tex
	}
	return out, nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
