package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/soypat/glgl/math/ms2"
	"github.com/soypat/lux/forge/scenes"
	"github.com/soypat/lux/luxaux"
	"github.com/urfave/cli"
)

// Render the irradiance of a scene to an image file.
func renderScene(ctx *cli.Context) error {
	setupLogging(ctx)
	sc, err := sceneArg(ctx)
	if err != nil {
		return err
	}
	trace := sc.Trace
	if s := ctx.Int("samples"); s > 0 {
		trace.Samples = s
	}
	if d := ctx.Int("depth"); d >= 0 {
		trace.MaxDepth = d
	}
	trace.Jitter = ctx.BoolT("jitter")

	cfg := luxaux.RenderConfig{
		Width:    ctx.Int("width"),
		Height:   ctx.Int("height"),
		Trace:    trace,
		Workers:  ctx.Int("workers"),
		Seed:     ctx.Int64("seed"),
		Exposure: float32(ctx.Float64("exposure")),
	}
	if ctx.Bool("annotate") {
		cfg.Caption = []string{
			sc.Name,
			fmt.Sprintf("%d samples, depth %d", trace.Samples, trace.MaxDepth),
		}
	}
	var table bytes.Buffer
	if ctx.Bool("stats") {
		cfg.StatsOutput = &table
	}
	out := ctx.String("out")
	logger.Noticef("rendering %q at %dx%d", sc.Name, cfg.Width, cfg.Height)
	_, err = luxaux.RenderFile(out, sc.Root, cfg)
	if err != nil {
		return err
	}
	if table.Len() > 0 {
		logger.Noticef("render statistics\n%s", table.String())
	}
	logger.Noticef("wrote %s", out)
	return nil
}

// Render the distance field of a scene to an image file.
func renderField(ctx *cli.Context) error {
	setupLogging(ctx)
	sc, err := sceneArg(ctx)
	if err != nil {
		return err
	}
	view, err := parseView(ctx.String("view"))
	if err != nil {
		return err
	}
	out := ctx.String("out")
	height := ctx.Int("height")
	if ctx.Bool("normals") {
		err = luxaux.RenderNormalFile(out, sc.Root, view, height)
	} else {
		sz := view.Size()
		switch style := ctx.String("style"); style {
		case "iq":
			err = luxaux.RenderFieldFile(out, sc.Root, view, height, luxaux.ColorConversionInigoQuilez(ms2.Norm(sz)/3))
		case "gray":
			err = luxaux.RenderFieldFile(out, sc.Root, view, height, luxaux.ColorConversionLinearGradient(4*sz.Y/float32(height), color.Black, color.White))
		default:
			err = fmt.Errorf("unknown field style %q", style)
		}
	}
	if err != nil {
		return err
	}
	logger.Noticef("wrote %s", out)
	return nil
}

func sceneArg(ctx *cli.Context) (scenes.Scene, error) {
	if ctx.NArg() != 1 {
		return scenes.Scene{}, errors.New("expected a single scene name argument, see the scenes command")
	}
	return scenes.Lookup(ctx.Args().First())
}

// parseView parses a rectangle formatted as xmin,ymin,xmax,ymax.
func parseView(s string) (ms2.Box, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return ms2.Box{}, fmt.Errorf("view %q needs 4 comma separated values", s)
	}
	var v [4]float32
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return ms2.Box{}, fmt.Errorf("view %q: %w", s, err)
		}
		v[i] = float32(x)
	}
	if v[2] <= v[0] || v[3] <= v[1] {
		return ms2.Box{}, fmt.Errorf("view %q is empty", s)
	}
	return ms2.NewBox(v[0], v[1], v[2], v[3]), nil
}
