package preview

import (
	"image"
	"image/color"
	"math"
)

// screenVertex is a projected vertex: pixel coordinates, view depth and UV.
type screenVertex struct {
	x, y, z float64
	u, v    float64
}

// rasterizeTriangle fills one flat-shaded triangle with z-buffering. When tex
// is nil the triangle is painted with base.
func rasterizeTriangle(fb *FrameBuffer, a, b, c screenVertex, tex *image.NRGBA, base color.NRGBA, shade float64) {
	minX := int(math.Floor(min(a.x, b.x, c.x)))
	maxX := int(math.Ceil(max(a.x, b.x, c.x)))
	minY := int(math.Floor(min(a.y, b.y, c.y)))
	maxY := int(math.Ceil(max(a.y, b.y, c.y)))

	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (b.y-c.y)*(a.x-c.x) + (c.x-b.x)*(a.y-c.y)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := b.y - c.y
	dx21 := c.x - b.x
	dy20 := c.y - a.y
	dx02 := a.x - c.x

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - c.y
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - c.x
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			col := base
			if tex != nil {
				col = sampleTexture(tex, w0*a.u+w1*b.u+w2*c.u, w0*a.v+w1*b.v+w2*c.v)
			}
			if col.A < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(float64(col.R) * shade)
			fb.Color[pxIdx+1] = clamp255(float64(col.G) * shade)
			fb.Color[pxIdx+2] = clamp255(float64(col.B) * shade)
			fb.Color[pxIdx+3] = col.A
		}
	}
}

// sampleTexture does a wrapped nearest-neighbour lookup. V grows upward.
func sampleTexture(tex *image.NRGBA, u, v float64) color.NRGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.NRGBA{}
	}
	u -= math.Floor(u)
	v -= math.Floor(v)
	x := min(int(u*float64(w)), w-1)
	y := min(int((1-v)*float64(h)), h-1)
	i := tex.PixOffset(b.Min.X+x, b.Min.Y+y)
	return color.NRGBA{R: tex.Pix[i], G: tex.Pix[i+1], B: tex.Pix[i+2], A: tex.Pix[i+3]}
}
