// Command lux renders the scene catalog with the 2D light transport renderer.
package main

import (
	"os"

	"github.com/soypat/lux/internal/log"
	"github.com/urfave/cli"
)

var logger = log.New("lux")

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// The default version flag claims -v, which selects verbose logging here.
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}
	app := cli.NewApp()
	app.Name = "lux"
	app.Usage = "render 2D signed distance field scenes lit by emissive shapes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render the irradiance of a catalog scene",
			Description: `
Trace every pixel of the unit square by marching rays in evenly spread directions
and averaging the light they gather. Unset flags keep the scene's own settings.`,
			ArgsUsage: "scene",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "image width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "image height",
				},
				cli.IntFlag{
					Name:  "samples, s",
					Usage: "directions sampled per pixel, 0 keeps the scene default",
				},
				cli.IntFlag{
					Name:  "depth, d",
					Value: -1,
					Usage: "maximum specular bounces, negative keeps the scene default",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Usage: "amount of render goroutines, 0 uses all CPUs",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed for jittered sampling",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "radiance multiplier applied before quantisation",
				},
				cli.BoolTFlag{
					Name:  "jitter",
					Usage: "jitter sample directions, --jitter=false samples uniformly",
				},
				cli.BoolFlag{
					Name:  "annotate",
					Usage: "draw the scene name and settings over the image",
				},
				cli.BoolFlag{
					Name:  "stats",
					Usage: "print a table of render statistics",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "lux.png",
					Usage: "image filename, the extension selects png, bmp or tiff",
				},
			},
			Action: renderScene,
		},
		{
			Name:      "field",
			Usage:     "render the distance field or normals of a catalog scene",
			ArgsUsage: "scene",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "image height, the width follows the view aspect ratio",
				},
				cli.StringFlag{
					Name:  "view",
					Value: "0,0,1,1",
					Usage: "scene space rectangle as xmin,ymin,xmax,ymax",
				},
				cli.StringFlag{
					Name:  "style",
					Value: "iq",
					Usage: "distance colouring: iq or gray",
				},
				cli.BoolFlag{
					Name:  "normals",
					Usage: "render gradient directions instead of distances",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "field.png",
					Usage: "image filename, the extension selects png, bmp or tiff",
				},
			},
			Action: renderField,
		},
		{
			Name:   "scenes",
			Usage:  "list catalog scenes",
			Action: listScenes,
		},
	}
	return app
}
