package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sort"
	"time"

	"github.com/chewxy/math32"
	"github.com/golang/freetype"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms2"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/soypat/flowchamber/tess"
)

// ImageConfig configures the offline PNG render.
type ImageConfig struct {
	Width, Height int
	// Azim and Elev orbit the camera about the scene center, in radians.
	// Both zero selects the standard three-quarter view.
	Azim, Elev float64
	Background color.NRGBA
	Title      string
	// Font optionally holds TTF bytes for the title. The fixed 7x13 face
	// is used otherwise.
	Font []byte
	// Log reports render timing when set.
	Log *zap.Logger
}

const imageMargin = 40

// paintItem is one depth-sorted fill: a projected face polygon or a
// wireframe segment.
type paintItem struct {
	depth float64
	poly  []ms2.Vec
	col   color.NRGBA
	line  bool
}

// RenderPNG draws the scene with an orthographic camera and painter
// ordering and encodes it as PNG. The output is deterministic for a
// given scene and config.
func RenderPNG(s *Scene, w io.Writer, cfg ImageConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 960, 720
	}
	if cfg.Azim == 0 && cfg.Elev == 0 {
		cfg.Azim = -60 * math.Pi / 180
		cfg.Elev = 30 * math.Pi / 180
	}
	if cfg.Background == (color.NRGBA{}) {
		cfg.Background = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	frame := tess.NewFrame(viewVec(cfg.Azim, cfg.Elev))
	center := md3.Scale(0.5, md3.Add(s.bounds.Min, s.bounds.Max))
	project := func(v md3.Vec) (x, y, depth float64) {
		d := md3.Sub(v, center)
		return md3.Dot(d, frame.U), md3.Dot(d, frame.V), md3.Dot(d, frame.W)
	}

	var items []paintItem
	minx, miny := math.Inf(1), math.Inf(1)
	maxx, maxy := math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minx, maxx = math.Min(minx, x), math.Max(maxx, x)
		miny, maxy = math.Min(miny, y), math.Max(maxy, y)
	}
	for _, g := range s.Groups {
		for _, f := range g.Faces {
			verts := f.Vertices()
			it := paintItem{col: g.Color, poly: make([]ms2.Vec, len(verts))}
			for i, v := range verts {
				x, y, d := project(v)
				grow(x, y)
				it.poly[i] = ms2.Vec{X: float32(x), Y: float32(y)}
				it.depth += d
			}
			it.depth /= float64(len(verts))
			items = append(items, it)
		}
	}
	for _, e := range s.Wire {
		x0, y0, d0 := project(e[0])
		x1, y1, d1 := project(e[1])
		grow(x0, y0)
		grow(x1, y1)
		items = append(items, paintItem{
			depth: 0.5 * (d0 + d1),
			poly:  []ms2.Vec{{X: float32(x0), Y: float32(y0)}, {X: float32(x1), Y: float32(y1)}},
			col:   colorWire,
			line:  true,
		})
	}
	if !(maxx > minx) || !(maxy > miny) {
		return errors.New("degenerate scene bounds")
	}

	// Fit the projection into the image with a margin. Projected y is up,
	// pixel y is down.
	scale := math.Min(
		(float64(cfg.Width)-2*imageMargin)/(maxx-minx),
		(float64(cfg.Height)-2*imageMargin)/(maxy-miny),
	)
	toPx := func(p ms2.Vec) ms2.Vec {
		return ms2.Vec{
			X: float32(imageMargin + (float64(p.X)-minx)*scale),
			Y: float32(float64(cfg.Height) - imageMargin - (float64(p.Y)-miny)*scale),
		}
	}
	for _, it := range items {
		for i := range it.poly {
			it.poly[i] = toPx(it.poly[i])
		}
	}

	// Painter ordering: farthest first. frame.W points at the camera so
	// larger depth means closer.
	sort.SliceStable(items, func(i, j int) bool { return items[i].depth < items[j].depth })

	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(cfg.Background), image.Point{}, draw.Src)
	ras := vector.NewRasterizer(cfg.Width, cfg.Height)
	for _, it := range items {
		poly := it.poly
		if it.line {
			poly = strokeQuad(poly[0], poly[1], 1.2)
		}
		fillPoly(ras, img, poly, it.col)
	}
	if cfg.Title != "" {
		if err := drawTitle(img, cfg); err != nil {
			return err
		}
	}
	log.Debug("preview rasterized",
		zap.Int("items", len(items)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return png.Encode(w, img)
}

// viewVec is the unit direction from the scene center toward the camera
// for an azimuth/elevation pair, z up.
func viewVec(azim, elev float64) md3.Vec {
	se, ce := math.Sincos(elev)
	sa, ca := math.Sincos(azim)
	return md3.Vec{X: ca * ce, Y: sa * ce, Z: se}
}

// strokeQuad expands segment ab into a filled quad of the given width.
func strokeQuad(a, b ms2.Vec, width float32) []ms2.Vec {
	d := ms2.Sub(b, a)
	n := math32.Hypot(d.X, d.Y)
	if n == 0 {
		return nil
	}
	h := ms2.Scale(0.5*width/n, ms2.Vec{X: -d.Y, Y: d.X})
	return []ms2.Vec{ms2.Add(a, h), ms2.Add(b, h), ms2.Sub(b, h), ms2.Sub(a, h)}
}

func fillPoly(ras *vector.Rasterizer, dst *image.RGBA, poly []ms2.Vec, col color.NRGBA) {
	if len(poly) < 3 {
		return
	}
	ras.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
	ras.DrawOp = draw.Over
	ras.MoveTo(poly[0].X, poly[0].Y)
	for _, p := range poly[1:] {
		ras.LineTo(p.X, p.Y)
	}
	ras.ClosePath()
	ras.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{})
}

func drawTitle(img *image.RGBA, cfg ImageConfig) error {
	cl := color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	if len(cfg.Font) == 0 {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(cl),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(imageMargin/2, 24),
		}
		d.DrawString(cfg.Title)
		return nil
	}
	f, err := freetype.ParseFont(cfg.Font)
	if err != nil {
		return fmt.Errorf("parsing title font: %s", err)
	}
	fc := freetype.NewContext()
	fc.SetDPI(72)
	fc.SetFont(f)
	fc.SetFontSize(16)
	fc.SetClip(img.Bounds())
	fc.SetDst(img)
	fc.SetSrc(image.NewUniform(cl))
	if _, err := fc.DrawString(cfg.Title, freetype.Pt(imageMargin/2, 28)); err != nil {
		return fmt.Errorf("drawing title: %s", err)
	}
	return nil
}
