// Package main provides a host-side harness for the e-paper render
// pipeline: probe image dimensions or render an image into a simulated
// panel and save the result as an annotated PNG.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/user/epdimage/pkg/adapters/epdsim"
	"github.com/user/epdimage/pkg/adapters/jpegdec"
	"github.com/user/epdimage/pkg/adapters/logger"
	"github.com/user/epdimage/pkg/adapters/osfilesystem"
	"github.com/user/epdimage/pkg/adapters/osstorage"
	"github.com/user/epdimage/pkg/adapters/preview"
	"github.com/user/epdimage/pkg/config"
	"github.com/user/epdimage/pkg/memprobe"
	"github.com/user/epdimage/pkg/ports"
	"github.com/user/epdimage/pkg/render"
)

func main() {
	app := &cli.App{
		Name:  "epdimage",
		Usage: "decode images onto a simulated 4-level e-paper panel",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"C"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: "debug, info, warn, error or quiet"},
		},
		Commands: []*cli.Command{
			probeCommand(),
			renderCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the optional config file over defaults.
func loadConfig(c *cli.Context) (config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Defaults(), nil
}

func newLogger(c *cli.Context) ports.Logger {
	level := ports.ParseLogLevel(c.String("log-level"))
	if level == ports.LevelQuiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(level)
}

func newConverter(cfg config.Config, log ports.Logger) *render.Converter {
	storage := osstorage.New("")
	return render.New(
		jpegdec.NewFactory(storage),
		osfilesystem.New(),
		memprobe.NewBudget(cfg.HeapBudget),
		log,
		cfg.RenderOptions(),
	)
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     "print image dimensions without decoding pixel data",
		ArgsUsage: "<image.jpg>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("probe: image path required", 2)
			}
			if !render.SupportsFormat(filepath.Ext(path)) {
				return cli.Exit(fmt.Sprintf("probe: unsupported format %q", filepath.Ext(path)), 2)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			conv := newConverter(cfg, newLogger(c))

			dims, err := conv.ProbeDimensions(path)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %dx%d\n", path, dims.Width, dims.Height)
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "decode an image onto the simulated panel and save a PNG snapshot",
		ArgsUsage: "<image.jpg>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "panel.png", Usage: "snapshot PNG path"},
			&cli.IntFlag{Name: "x", Usage: "destination origin X"},
			&cli.IntFlag{Name: "y", Usage: "destination origin Y"},
			&cli.IntFlag{Name: "max-width", Aliases: []string{"W"}, Usage: "maximum destination width (0 = unconstrained)"},
			&cli.IntFlag{Name: "max-height", Aliases: []string{"H"}, Usage: "maximum destination height (0 = unconstrained)"},
			&cli.BoolFlag{Name: "exact", Usage: "force destination to exactly max-width x max-height"},
			&cli.BoolFlag{Name: "no-dither", Usage: "direct quantization instead of ordered dithering"},
			&cli.BoolFlag{Name: "invert", Usage: "inverted render mode"},
			&cli.StringFlag{Name: "cache", Usage: "write the render cache to this path"},
			&cli.IntFlag{Name: "zoom", Value: 1, Usage: "snapshot magnification"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("render: image path required", 2)
			}
			if !render.SupportsFormat(filepath.Ext(path)) {
				return cli.Exit(fmt.Sprintf("render: unsupported format %q", filepath.Ext(path)), 2)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			log := newLogger(c)
			conv := newConverter(cfg, log)

			surface := epdsim.New(cfg.ScreenWidth, cfg.ScreenHeight)
			if c.Bool("invert") {
				surface.SetMode(epdsim.ModeInverted)
			}

			rc := render.RenderConfig{
				X:                  c.Int("x"),
				Y:                  c.Int("y"),
				MaxWidth:           c.Int("max-width"),
				MaxHeight:          c.Int("max-height"),
				UseExactDimensions: c.Bool("exact"),
				UseDithering:       cfg.Dithering && !c.Bool("no-dither"),
				CachePath:          c.String("cache"),
			}
			if rc.MaxWidth == 0 && rc.MaxHeight == 0 {
				rc.MaxWidth = cfg.ScreenWidth
				rc.MaxHeight = cfg.ScreenHeight
			}

			start := time.Now()
			if err := conv.Render(path, surface, rc); err != nil {
				return err
			}
			elapsed := time.Since(start).Round(time.Millisecond)

			pw := preview.New(osfilesystem.New())
			pw.Zoom = c.Int("zoom")
			caption := fmt.Sprintf("%s  %dx%d panel  %s", filepath.Base(path), cfg.ScreenWidth, cfg.ScreenHeight, elapsed)
			if err := pw.Save(c.String("out"), surface.ToImage(), caption); err != nil {
				return err
			}

			log.Info("rendered %s in %s", path, elapsed)
			return nil
		},
	}
}
