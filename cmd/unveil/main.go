// Command unveil tokenizes headings and plays reveal scripts against a page,
// headlessly, in a window, or in a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/unveil"
	"github.com/phanxgames/unveil/ebitenhost"
	"github.com/phanxgames/unveil/termhost"
)

const version = "0.1.0"

// CLI defines the command-line interface for unveil.
type CLI struct {
	Config  kong.ConfigFlag `help:"Load flag defaults from a JSON file" type:"existingfile"`
	Verbose bool            `short:"v" help:"Log at debug level to stderr"`

	Tokenize TokenizeCmd `cmd:"" help:"Wrap the words of heading markup in delayed spans"`
	Run      RunCmd      `cmd:"" help:"Play a script against a page headlessly"`
	Preview  PreviewCmd  `cmd:"" help:"Preview a page in a window"`
	Term     TermCmd     `cmd:"" help:"Preview a page in the terminal"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// PageFlags are shared by every command that loads a page.
type PageFlags struct {
	Page            string        `arg:"" help:"HTML page to load" type:"existingfile"`
	Width           float64       `default:"1280" help:"Viewport width in pixels"`
	Height          float64       `default:"800" help:"Viewport height in pixels"`
	ReducedMotion   bool          `help:"Reveal everything at once without animation"`
	NoVisibility    bool          `help:"Behave as a host without visibility notifications"`
	WordStride      time.Duration `default:"80ms" help:"Delay step between headline words"`
	ChildStride     time.Duration `default:"80ms" help:"Delay step between revealed children"`
	CounterDuration time.Duration `default:"1s" help:"Duration of a counter animation"`
	Debug           bool          `help:"Enable debug checks and per-frame stats"`
}

func (f *PageFlags) config() *unveil.Config {
	cfg := unveil.DefaultConfig()
	cfg.ReducedMotion = f.ReducedMotion
	cfg.VisibilitySupported = !f.NoVisibility
	cfg.WordStride = f.WordStride
	cfg.ChildStride = f.ChildStride
	cfg.CounterDuration = f.CounterDuration
	return cfg
}

// load parses the page, builds and mounts it.
func (f *PageFlags) load() (*unveil.Page, error) {
	file, err := os.Open(f.Page)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer file.Close()

	doc, err := unveil.ParseDocument(file)
	if err != nil {
		return nil, err
	}
	page, err := unveil.NewPage(doc, f.config(), f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	page.SetDebugMode(f.Debug)
	if _, err := page.Mount(); err != nil {
		return nil, err
	}
	return page, nil
}

// TokenizeCmd prints the annotated markup of a heading.
type TokenizeCmd struct {
	Markup string        `arg:"" optional:"" help:"Heading markup; read from stdin when omitted"`
	Stride time.Duration `default:"80ms" help:"Delay step between words"`
	Class  string        `default:"hero-word" help:"Class of the word spans"`
	Units  bool          `help:"List the word units instead of printing markup"`
}

func (c *TokenizeCmd) Run(ctx *kong.Context) error {
	markup := c.Markup
	if markup == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		markup = strings.TrimRight(string(b), "\n")
	}
	tok := &unveil.Tokenizer{Stride: c.Stride, WordClass: c.Class}
	res := tok.Tokenize(markup)
	if res.Unterminated {
		fmt.Fprintln(os.Stderr, "warning: markup ends inside a tag")
	}
	if !c.Units {
		fmt.Fprintln(ctx.Stdout, res.Markup)
		return nil
	}
	for _, u := range res.Units {
		fmt.Fprintf(ctx.Stdout, "%d\t%v\t%d\t%s\n", u.Index, u.Delay, u.Offset, u.Text)
	}
	return nil
}

// RunCmd plays a script headlessly and writes the final document.
type RunCmd struct {
	PageFlags

	Script      string        `short:"s" help:"JSON script to play" type:"existingfile"`
	FPS         int           `default:"60" help:"Simulated frames per second"`
	MaxFrames   int           `default:"36000" help:"Give up after this many frames"`
	Settle      time.Duration `default:"2s" help:"Time to keep running after the script ends"`
	Out         string        `short:"o" help:"Write the final HTML here instead of stdout" type:"path"`
	SnapshotDir string        `default:"snapshots" help:"Directory for snapshot steps" type:"path"`
}

func (c *RunCmd) Run(ctx *kong.Context) error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	page, err := c.load()
	if err != nil {
		return err
	}
	page.SnapshotDir = c.SnapshotDir
	dt := time.Second / time.Duration(c.FPS)

	frames := 0
	if c.Script != "" {
		data, err := os.ReadFile(c.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := unveil.LoadScript(data)
		if err != nil {
			return err
		}
		if frames, err = page.RunScript(runner, dt, c.MaxFrames); err != nil {
			return err
		}
	}
	for t := time.Duration(0); t < c.Settle && frames < c.MaxFrames; t += dt {
		page.Update(dt)
		frames++
	}
	unveil.Logger().Info("run finished", "frames", frames, "time", page.Loop().Now(), "pending", page.Reveals().Pending())

	out := ctx.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return page.Document().Render(out)
}

// PreviewCmd opens the page in a window.
type PreviewCmd struct {
	PageFlags
	Stats bool `help:"Show frame stats"`
}

func (c *PreviewCmd) Run(ctx *kong.Context) error {
	page, err := c.load()
	if err != nil {
		return err
	}
	return ebitenhost.Run(page, ebitenhost.Options{
		Title:     "unveil: " + c.Page,
		Width:     int(c.Width),
		Height:    int(c.Height),
		ShowStats: c.Stats,
	})
}

// TermCmd shows the page in the terminal.
type TermCmd struct {
	PageFlags
	FPS int `default:"30" help:"Frames per second"`
}

func (c *TermCmd) Run(ctx *kong.Context) error {
	page, err := c.load()
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	host := termhost.New(screen, page, termhost.Options{FPS: c.FPS})
	if err := host.Run(sigCtx); err != nil && sigCtx.Err() == nil {
		return err
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx *kong.Context) error {
	fmt.Fprintf(ctx.Stdout, "unveil %s\n", version)
	return nil
}

// newParser builds the kong parser for cli. Extra options are applied after
// the defaults.
func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("unveil"),
		kong.Description("Scroll-reveal engine for marketing pages"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	unveil.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	err = ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
