// Package ebitenhost previews a Page in a window using [Ebitengine]. Each
// element is drawn as a box; elements waiting for their reveal are drawn
// faint until they are revealed.
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/unveil"
)

// Options configures the preview window.
type Options struct {
	Title  string
	Width  int
	Height int
	// WheelSpeed is the number of pixels scrolled per wheel notch.
	WheelSpeed float64
	// ScreenshotDir receives PNG screenshots taken with the P key.
	ScreenshotDir string
	ShowStats     bool
}

func (o *Options) defaults() {
	if o.Title == "" {
		o.Title = "unveil"
	}
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.WheelSpeed == 0 {
		o.WheelSpeed = 40
	}
	if o.ScreenshotDir == "" {
		o.ScreenshotDir = "screenshots"
	}
}

// Color is an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	clearColor   = Color{R: 0.071, G: 0.078, B: 0.102, A: 1}
	palette      = []Color{{0.20, 0.24, 0.32, 1}, {0.26, 0.42, 0.62, 1}, {0.35, 0.62, 0.55, 1}, {0.78, 0.58, 0.30, 1}}
	pendingAlpha = 0.15
)

// Game implements ebiten.Game for a Page.
type Game struct {
	page *unveil.Page
	opts Options

	pixel      *ebiten.Image
	shotQueue  []string
	lastWidth  int
	lastHeight int
}

// New returns a Game for page. The page should already be mounted.
func New(page *unveil.Page, opts Options) *Game {
	opts.defaults()
	return &Game{page: page, opts: opts}
}

// Run opens a window and blocks until it is closed.
func Run(page *unveil.Page, opts Options) error {
	g := New(page, opts)
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("ebitenhost: %w", err)
	}
	return nil
}

// Update feeds wheel and cursor input into the page and advances it by one
// tick.
func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.page.Viewport().ScrollBy(-wy * g.opts.WheelSpeed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.page.ScrollTo(0, 300*time.Millisecond)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		g.page.ScrollTo(g.page.Viewport().MaxScrollY(), 300*time.Millisecond)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.Screenshot("manual")
	}

	mx, my := ebiten.CursorPosition()
	g.page.SetPointer(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), unveil.MouseButtonLeft)
	g.page.Update(dt)
	return nil
}

// Draw renders every element box in view.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.pixel == nil {
		g.pixel = ebiten.NewImage(1, 1)
		g.pixel.Fill(image.White)
	}
	screen.Fill(toRGBA(clearColor))

	vp := g.page.Viewport()
	visible := vp.VisibleBounds()
	depth := 0
	var walk func(e *unveil.Element)
	walk = func(e *unveil.Element) {
		if e.Style("display") == "none" {
			return
		}
		if e.Bounds.Area() > 0 && e.Bounds.Intersects(visible) {
			x, y := vp.PageToViewport(e.Bounds.X, e.Bounds.Y)
			c := g.boxColor(e, depth)
			g.fillRect(screen, x, y, e.Bounds.Width, e.Bounds.Height, c)
			if e.NumChildren() == 0 && c.A >= 1 {
				ebitenutil.DebugPrintAt(screen, e.TextContent(), int(x)+2, int(y)+2)
			}
		}
		depth++
		for _, c := range e.Children() {
			walk(c)
		}
		depth--
	}
	if body := g.page.Document().Body(); body != nil {
		walk(body)
	}

	if g.opts.ShowStats {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS %.1f  scroll %.0f/%.0f  pending %d",
			ebiten.ActualTPS(), vp.ScrollY, vp.MaxScrollY(), g.page.Reveals().Pending()))
	}
	g.flushScreenshots(screen)
}

// Layout follows the window size and lays the page out again on resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.lastWidth || outsideHeight != g.lastHeight {
		g.lastWidth, g.lastHeight = outsideWidth, outsideHeight
		g.page.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// boxColor picks a palette color by depth and fades elements that are
// still waiting for their reveal.
func (g *Game) boxColor(e *unveil.Element, depth int) Color {
	c := palette[depth%len(palette)]
	if g.page.AwaitingReveal(e) {
		c.A = pendingAlpha
	}
	return c
}

func (g *Game) fillRect(dst *ebiten.Image, x, y, w, h float64, c Color) {
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	a := float32(c.A)
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	dst.DrawImage(g.pixel, &op)
}

// Screenshot queues a labeled screenshot to be captured at the end of the
// next Draw.
func (g *Game) Screenshot(label string) {
	g.shotQueue = append(g.shotQueue, label)
}

// flushScreenshots writes every queued screenshot as a PNG file.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.shotQueue) == 0 {
		return
	}
	defer func() { g.shotQueue = g.shotQueue[:0] }()

	if err := os.MkdirAll(g.opts.ScreenshotDir, 0o755); err != nil {
		unveil.Logger().Error("screenshot: mkdir", "dir", g.opts.ScreenshotDir, "err", err)
		return
	}
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	for _, label := range g.shotQueue {
		path := filepath.Join(g.opts.ScreenshotDir, stamp+"_"+unveil.SafeFileName(label)+".png")
		if err := writePNG(path, img); err != nil {
			unveil.Logger().Error("screenshot", "err", err)
		}
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func toRGBA(c Color) color.RGBA {
	return color.RGBA{
		R: uint8(c.R*c.A*255 + 0.5),
		G: uint8(c.G*c.A*255 + 0.5),
		B: uint8(c.B*c.A*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}
