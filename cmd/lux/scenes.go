package main

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/soypat/lux/forge/scenes"
	"github.com/urfave/cli"
)

// List the scene catalog along with each scene's trace settings.
func listScenes(ctx *cli.Context) error {
	setupLogging(ctx)
	all, err := scenes.Catalog()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Samples", "Depth", "Steps", "Fresnel", "Description"})
	for _, s := range all {
		table.Append([]string{
			s.Name,
			fmt.Sprintf("%d", s.Trace.Samples),
			fmt.Sprintf("%d", s.Trace.MaxDepth),
			fmt.Sprintf("%d", s.Trace.MaxSteps),
			fmt.Sprintf("%t", s.Trace.Fresnel),
			s.Description,
		})
	}
	table.Render()
	_, err = fmt.Fprint(ctx.App.Writer, buf.String())
	return err
}
