// Package luxaux bundles helpers for getting images out of lux scenes quickly:
// radiance quantisation, field colouring, image encoding, captions and statistics.
// Applications with specific needs should assemble their own pipeline from
// the luxtrace and luxrender packages.
package luxaux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	math "github.com/chewxy/math32"
	"github.com/olekukonko/tablewriter"
	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/lux"
	"github.com/soypat/lux/internal/log"
	"github.com/soypat/lux/luxeval"
	"github.com/soypat/lux/luxrender"
	"github.com/soypat/lux/luxtrace"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var logger = log.New("luxaux")

// Format is an image file encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromFilename picks the encoding from the filename's extension.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case "":
		return "", fmt.Errorf("no extension in %q to pick an image format", filename)
	}
	return "", fmt.Errorf("unsupported image format %q", ext)
}

// EncodeImage writes img to w in the given format.
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// WriteImageFile encodes img into filename with the format given by its extension.
func WriteImageFile(filename string, img image.Image) error {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = EncodeImage(fp, img, format)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return fp.Sync()
}

// WriteStatsTable writes a table summarising a render's statistics to w.
func WriteStatsTable(w io.Writer, stats luxtrace.Stats, elapsed time.Duration) error {
	if w == nil {
		return errors.New("nil writer")
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Counter", "Value", "Per ray"})
	perRay := func(n uint64) string {
		return fmt.Sprintf("%.2f %%", percentUint64(n, stats.Rays))
	}
	table.AppendBulk([][]string{
		{"Samples", fmt.Sprintf("%d", stats.Samples), ""},
		{"Rays", fmt.Sprintf("%d", stats.Rays), ""},
		{"Hits", fmt.Sprintf("%d", stats.Hits), perRay(stats.Hits)},
		{"Escapes", fmt.Sprintf("%d", stats.Escapes), perRay(stats.Escapes)},
		{"March steps", fmt.Sprintf("%d", stats.MarchSteps), fmt.Sprintf("%.2f", stats.StepsPerRay())},
		{"Reflections", fmt.Sprintf("%d", stats.Reflections), perRay(stats.Reflections)},
		{"Refractions", fmt.Sprintf("%d", stats.Refractions), perRay(stats.Refractions)},
		{"Total internal reflections", fmt.Sprintf("%d", stats.TotalInternalReflections), perRay(stats.TotalInternalReflections)},
		{"Max depth", fmt.Sprintf("%d", stats.MaxDepth), ""},
	})
	rate := ""
	if secs := elapsed.Seconds(); secs > 0 {
		rate = fmt.Sprintf("%.0f rays/s", float64(stats.Rays)/secs)
	}
	table.SetFooter([]string{"Elapsed", elapsed.Round(time.Millisecond).String(), rate})
	table.Render()
	return nil
}

// RenderConfig configures [RenderFile].
type RenderConfig struct {
	Width, Height int
	// Trace configures sampling and transport. The zero value is replaced by [luxtrace.DefaultConfig].
	Trace luxtrace.Config
	// Mapping maps pixels to scene space. The zero value maps the image to the unit square.
	Mapping luxrender.PixelMapping
	Workers int
	Seed    int64
	// Exposure multiplies radiance before quantisation. Zero is taken as 1,
	// for which a radiance of 1 saturates a channel.
	Exposure float32
	// Caption lines are drawn over the top left corner of the image.
	Caption []string
	// StatsOutput receives a statistics table after rendering, if not nil.
	StatsOutput io.Writer
}

// RenderFile renders scene to an image file. The file format is chosen from the filename extension.
func RenderFile(filename string, scene lux.Node, cfg RenderConfig) (luxtrace.Stats, error) {
	if scene == nil {
		return luxtrace.Stats{}, errors.New("nil scene")
	}
	if _, err := FormatFromFilename(filename); err != nil {
		return luxtrace.Stats{}, err
	}
	img, stats, elapsed, err := renderImage(scene, cfg)
	if err != nil {
		return stats, err
	}
	if len(cfg.Caption) > 0 {
		err = Annotate(img, cfg.Caption...)
		if err != nil {
			return stats, fmt.Errorf("annotating image: %w", err)
		}
	}
	watch := stopwatch()
	err = WriteImageFile(filename, img)
	if err != nil {
		return stats, err
	}
	logger.Infof("wrote %s in %s", filename, watch())
	if cfg.StatsOutput != nil {
		err = WriteStatsTable(cfg.StatsOutput, stats, elapsed)
	}
	return stats, err
}

// RenderImage renders scene into a new RGBA image.
func RenderImage(scene lux.Node, cfg RenderConfig) (*image.RGBA, luxtrace.Stats, error) {
	img, stats, _, err := renderImage(scene, cfg)
	return img, stats, err
}

func renderImage(scene lux.Node, cfg RenderConfig) (*image.RGBA, luxtrace.Stats, time.Duration, error) {
	tcfg := cfg.Trace
	if tcfg == (luxtrace.Config{}) {
		tcfg = luxtrace.DefaultConfig()
	}
	sampler, err := luxtrace.NewSampler(scene, tcfg)
	if err != nil {
		return nil, luxtrace.Stats{}, 0, err
	}
	r, err := luxrender.NewRenderer(sampler, luxrender.RendererConfig{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Mapping: cfg.Mapping,
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
	})
	if err != nil {
		return nil, luxtrace.Stats{}, 0, err
	}
	exposure := cfg.Exposure
	if exposure == 0 {
		exposure = 1
	} else if exposure < 0 || math.IsNaN(exposure) {
		return nil, luxtrace.Stats{}, 0, fmt.Errorf("invalid exposure %g", exposure)
	}
	quantise := RadianceToRGBA(255 * exposure)
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	watch := stopwatch()
	stats, err := r.Render(func(x, y int, radiance ms3.Vec) {
		img.SetRGBA(x, y, quantise(radiance))
	})
	elapsed := watch()
	if err != nil {
		return nil, stats, elapsed, err
	}
	logger.Infof("traced %d rays for %d pixels in %s", stats.Rays, stats.Samples, elapsed)
	return img, stats, elapsed, nil
}

// RenderFieldFile renders the distance field of node over view and saves it to filename.
// The image width is sized from height to preserve the view's aspect ratio.
// A nil conversion draws the interior black and the exterior white.
func RenderFieldFile(filename string, node lux.Node, view ms2.Box, height int, conv func(float32) color.Color) error {
	width, err := fieldWidth(view, height)
	if err != nil {
		return err
	}
	ir, err := luxrender.NewImageRendererSDF2(max(256, width), conv)
	if err != nil {
		return err
	}
	return renderField(filename, node, view, width, height, ir)
}

// RenderNormalFile renders the gradient direction of node's distance field over view and saves it to filename.
func RenderNormalFile(filename string, node lux.Node, view ms2.Box, height int) error {
	width, err := fieldWidth(view, height)
	if err != nil {
		return err
	}
	ir, err := luxrender.NewNormalRendererSDF2(max(256, width))
	if err != nil {
		return err
	}
	return renderField(filename, node, view, width, height, ir)
}

func fieldWidth(view ms2.Box, height int) (int, error) {
	sz := view.Size()
	if height <= 0 {
		return 0, fmt.Errorf("invalid image height %d", height)
	} else if !(sz.X > 0 && sz.Y > 0) || math.IsInf(sz.X, 0) || math.IsInf(sz.Y, 0) {
		return 0, errors.New("view box must be finite and non-empty")
	}
	return max(1, int(float32(height)*sz.X/sz.Y)), nil
}

func renderField(filename string, node lux.Node, view ms2.Box, width, height int, ir *luxrender.ImageRendererSDF2) error {
	sdf, err := luxeval.NewCPUSDF2(node)
	if err != nil {
		return err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	watch := stopwatch()
	err = ir.Render(sdf, view, img, nil)
	if err != nil {
		return err
	}
	err = WriteImageFile(filename, img)
	if err != nil {
		return err
	}
	logger.Infof("wrote field %s in %s", filename, watch())
	return nil
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

func percentUint64(num, denom uint64) float32 {
	if denom == 0 {
		return 0
	}
	return math.Trunc(10000*float32(num)/float32(denom)) / 100
}
