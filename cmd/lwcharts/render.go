package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/raykavin/lwcharts/internal/app"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/spf13/cobra"
)

// Render command flags
var (
	rangeFrom float64
	rangeTo   float64
	pointerAt string
	bins      int
	pan       float64
	zoom      float64
)

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out a chart from a bars file and print its axes, crosshair and statistics",
		RunE:  runRender,
	}

	renderCmd.Flags().Float64Var(&rangeFrom, "from", -1, "First visible record index")
	renderCmd.Flags().Float64Var(&rangeTo, "to", -1, "Last visible record index")
	renderCmd.Flags().Float64Var(&pan, "pan", 0, "Pan the visible range by this many records")
	renderCmd.Flags().Float64Var(&zoom, "zoom", 1, "Zoom factor around the middle of the range (>1 zooms in)")
	renderCmd.Flags().StringVar(&pointerAt, "at", "", "Crosshair position in pixels (e.g. 400,120)")
	renderCmd.Flags().IntVar(&bins, "bins", 12, "Histogram bins for visible closes")

	return renderCmd
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	records, err := loadHistory(cmd.Context(), cfg, store)
	if err != nil {
		return err
	}

	ws, err := app.Build(log, cfg, records)
	if err != nil {
		return err
	}

	c := ws.Chart
	if rangeFrom >= 0 && rangeTo >= 0 {
		c.SetVisibleRange(rangeFrom, rangeTo)
	}
	if pan != 0 {
		c.Pan(pan)
	}
	if zoom != 1 {
		c.Zoom(zoom, 0.5)
	}

	out := os.Stdout
	app.WriteLayout(out, c)
	for _, p := range c.Panes() {
		app.WriteAxis(out, p)
	}

	if pointerAt != "" {
		pos, err := parsePoint(pointerAt)
		if err != nil {
			return err
		}
		if err := app.WriteCrosshair(out, c, pos); err != nil {
			return err
		}
	}

	app.WriteDistribution(out, c, bins)
	return nil
}

func parsePoint(raw string) (render.Point, error) {
	x, y, ok := strings.Cut(raw, ",")
	if !ok {
		return render.Point{}, fmt.Errorf("invalid point %q, expected x,y", raw)
	}

	px, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return render.Point{}, fmt.Errorf("invalid point %q: %w", raw, err)
	}
	py, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return render.Point{}, fmt.Errorf("invalid point %q: %w", raw, err)
	}
	return render.Point{X: px, Y: py}, nil
}
