package main

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ocpix/braillepic"
	"github.com/ocpix/braillepic/grid"
	"github.com/ocpix/braillepic/termscreen"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func options(c *cli.Context) braillepic.Options {
	return braillepic.Options{
		Width:       c.Int("width"),
		Height:      c.Int("height"),
		Dither:      !c.Bool("no-dither"),
		MinContrast: c.Float64("min-contrast"),
		MinDots:     c.Int("min-dots"),
		MaxColors:   c.Int("max-colors"),
	}
}

func convertFlags() []cli.Flag {
	defaults := braillepic.DefaultOptions()
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "width",
			Aliases: []string{"w"},
			Value:   defaults.Width,
			Usage:   "grid width in character cells",
		},
		&cli.IntFlag{
			Name:    "height",
			Aliases: []string{"H"},
			Value:   defaults.Height,
			Usage:   "grid height in character cells",
		},
		&cli.BoolFlag{
			Name:  "no-dither",
			Usage: "disable ordered dithering inside each cell",
		},
		&cli.Float64Flag{
			Name:  "min-contrast",
			Value: defaults.MinContrast,
			Usage: "minimum RGB distance between the two cell colors",
		},
		&cli.IntFlag{
			Name:  "min-dots",
			Value: defaults.MinDots,
			Usage: "collapse cells with fewer raised dots to a flat color",
		},
		&cli.IntFlag{
			Name:  "max-colors",
			Usage: "reduce the image to this many colors first (0 = off)",
		},
	}
}

func loadGrid(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return grid.Decode(f)
}

func main() {
	app := cli.NewApp()

	app.Name = "braillepic"
	app.Usage = "Convert images to Braille grids for OpenComputers screens"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert one image to a Braille grid file",
			ArgsUsage: "IMAGE OUTPUT",
			Flags:     convertFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.Exit(fmt.Errorf("decode %s: %w", c.Args().Get(0), err), 1)
				}

				g, err := braillepic.New(options(c), newLogger(c)).Convert(m)
				if err != nil {
					return cli.Exit(err, 1)
				}

				out, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer out.Close()

				if err := grid.Encode(out, g); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "Convert every image below a directory",
			ArgsUsage: "SRCDIR DSTDIR",
			Flags:     convertFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv := braillepic.New(options(c), newLogger(c))
				if err := conv.ConvertTree(context.Background(), c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "view",
			Usage:     "Preview a grid file in the terminal; any key exits",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "no-upscale",
					Usage: "never draw the grid larger than its native size",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g, err := loadGrid(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				scr, err := termscreen.New()
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer scr.Fini()

				r := braillepic.Renderer{AllowUpscale: !c.Bool("no-upscale")}

				draw := func() error {
					if err := r.Render(g, scr); err != nil {
						return err
					}
					scr.Show()
					return nil
				}

				if err := draw(); err != nil {
					return cli.Exit(err, 1)
				}

				var drawErr error
				scr.Wait(func() {
					drawErr = draw()
				})
				if drawErr != nil {
					return cli.Exit(drawErr, 1)
				}

				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "Print the dimensions of a grid file",
			ArgsUsage: "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer f.Close()

				w, h, err := grid.DecodeConfig(f)
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Printf("%d x %d cells (%d x %d dots)\n", w, h, w*2, h*4)
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
