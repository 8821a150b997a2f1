// Package luxrender evaluates the irradiance of every pixel of an image in
// parallel and previews distance fields as images.
package luxrender

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/lux/internal/log"
	"github.com/soypat/lux/luxtrace"
)

var logger = log.New("luxrender")

// PixelMapping is the affine transform from pixel coordinates to scene space:
// p = (x, y) * Scale + Offset.
type PixelMapping struct {
	Scale  ms2.Vec
	Offset ms2.Vec
}

// UnitSquare maps an image of the given dimensions onto the unit square.
func UnitSquare(width, height int) PixelMapping {
	return PixelMapping{Scale: ms2.Vec{X: 1 / float32(width), Y: 1 / float32(height)}}
}

// ViewBox maps an image of the given dimensions onto view.
func ViewBox(view ms2.Box, width, height int) PixelMapping {
	sz := view.Size()
	return PixelMapping{
		Scale:  ms2.Vec{X: sz.X / float32(width), Y: sz.Y / float32(height)},
		Offset: view.Min,
	}
}

// Point returns the scene space point of pixel (x, y).
func (pm PixelMapping) Point(x, y int) ms2.Vec {
	return ms2.Add(ms2.MulElem(ms2.Vec{X: float32(x), Y: float32(y)}, pm.Scale), pm.Offset)
}

// WritePixel receives the radiance of pixel (x, y). Render calls it
// concurrently from several goroutines, each with a disjoint set of pixels.
type WritePixel func(x, y int, radiance ms3.Vec)

// RendererConfig configures a [Renderer].
type RendererConfig struct {
	Width, Height int
	// Mapping maps pixels to scene space. The zero value maps the image to the unit square.
	Mapping PixelMapping
	// Workers is the amount of goroutines rendering tiles. Zero uses runtime.NumCPU.
	Workers int
	// TileSize is the side length of the square tiles assigned to workers. Zero uses 32.
	TileSize int
	// Seed is combined with the tile index to seed each tile's random source.
	Seed int64
}

// Renderer renders irradiance images. Output is reproducible for a given
// Seed regardless of the amount of workers.
type Renderer struct {
	sampler *luxtrace.Sampler
	cfg     RendererConfig
}

// NewRenderer returns a Renderer evaluating pixels with sampler.
func NewRenderer(sampler *luxtrace.Sampler, cfg RendererConfig) (*Renderer, error) {
	if sampler == nil {
		return nil, errors.New("nil sampler")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Workers < 0 || cfg.TileSize < 0 {
		return nil, errors.New("negative workers or tile size")
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.TileSize == 0 {
		cfg.TileSize = 32
	}
	if cfg.Mapping == (PixelMapping{}) {
		cfg.Mapping = UnitSquare(cfg.Width, cfg.Height)
	}
	return &Renderer{sampler: sampler, cfg: cfg}, nil
}

// Config returns the renderer's configuration with defaults filled in.
func (r *Renderer) Config() RendererConfig { return r.cfg }

// RenderPixel returns the irradiance at the scene point of pixel (x, y).
// rng and stats may be nil.
func (r *Renderer) RenderPixel(x, y int, rng luxtrace.Rand, stats *luxtrace.Stats) ms3.Vec {
	return r.sampler.Irradiance(r.cfg.Mapping.Point(x, y), rng, stats)
}

type tile struct {
	id     int
	bounds image.Rectangle
}

type tileResult struct {
	stats luxtrace.Stats
}

// Render evaluates every pixel of the image and passes its radiance to write.
// The image is split into tiles rendered by a pool of workers, each tile with
// its own random source. The merged statistics of all workers are returned.
func (r *Renderer) Render(write WritePixel) (luxtrace.Stats, error) {
	if write == nil {
		return luxtrace.Stats{}, errors.New("nil WritePixel")
	}
	start := time.Now()
	tiles := tileGrid(r.cfg.Width, r.cfg.Height, r.cfg.TileSize)
	numWorkers := min(r.cfg.Workers, len(tiles))
	logger.Debugf("rendering %dx%d with %d workers over %d tiles", r.cfg.Width, r.cfg.Height, numWorkers, len(tiles))

	taskQueue := make(chan tile, len(tiles))
	resultQueue := make(chan tileResult, len(tiles))
	for _, t := range tiles {
		taskQueue <- t
	}
	close(taskQueue)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskQueue {
				resultQueue <- r.renderTile(t, write)
			}
		}()
	}
	wg.Wait()
	close(resultQueue)

	var stats luxtrace.Stats
	for res := range resultQueue {
		stats.Merge(res.stats)
	}
	logger.Debugf("rendered %d pixels in %s", stats.Samples, time.Since(start))
	return stats, nil
}

func (r *Renderer) renderTile(t tile, write WritePixel) tileResult {
	var res tileResult
	rng := rand.New(rand.NewSource(r.cfg.Seed + int64(t.id)))
	for y := t.bounds.Min.Y; y < t.bounds.Max.Y; y++ {
		for x := t.bounds.Min.X; x < t.bounds.Max.X; x++ {
			write(x, y, r.RenderPixel(x, y, rng, &res.stats))
		}
	}
	return res
}

// tileGrid splits a width x height image into tiles of at most tileSize side length.
func tileGrid(width, height, tileSize int) []tile {
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize
	tiles := make([]tile, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, y0 := tx*tileSize, ty*tileSize
			tiles = append(tiles, tile{
				id:     len(tiles),
				bounds: image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height)),
			})
		}
	}
	return tiles
}
