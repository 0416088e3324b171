package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"score-tracker/internal/app"
	"score-tracker/internal/chart"
	"score-tracker/internal/format"
	"score-tracker/internal/service"
)

var (
	chartOutput string
	chartFormat string
	chartSelect string
	chartWidth  int
	chartHeight int
)

var statsCmd = &cobra.Command{
	Use:   "stats [CATEGORY ITEM]",
	Short: "Show weighted statistics for everything or a single item",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no arguments or CATEGORY ITEM, got %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			summary := service.NewSummaryService()
			if len(args) == 0 {
				fmt.Fprintln(out, summary.Report(a.Store(), time.Now()))
				return nil
			}
			if err := a.SelectItem(args[0], args[1]); err != nil {
				return err
			}
			v, _ := a.View()
			fmt.Fprintf(out, "%s / %s\n", v.Category, v.Item)
			fmt.Fprintf(out, "  weighted mean  %s\n", format.Float(v.Summary.Mean, 2))
			fmt.Fprintf(out, "  std deviation  %s\n", format.Float(v.Summary.StdDev, 2))
			fmt.Fprintf(out, "  scores         %d\n", v.Summary.Count)
			fmt.Fprintf(out, "  decay rate     %.2f\n", v.DecayRate)
			fmt.Fprintf(out, "  plot range     %s - %s\n", format.Float(v.Range.Floor, 1), format.Float(v.Range.Ceiling, 1))
			fmt.Fprintf(out, "  updated        %s\n", format.Since(v.UpdatedAt, time.Now()))
			return nil
		})
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart CATEGORY ITEM",
	Short: "Render the weighted bar chart of an item as PNG or SVG",
	Long: `Each score is drawn as a bar whose width is its decay weight, so recent
scores take up more room. A dashed line marks the weighted mean.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(_ context.Context, a *app.App) error {
			if err := a.SelectItem(args[0], args[1]); err != nil {
				return err
			}
			if chartSelect != "" {
				index, err := parsePosition(chartSelect)
				if err != nil {
					return err
				}
				if err := a.SelectHistory(index); err != nil {
					return err
				}
			}
			v, _ := a.View()

			outPath := chartOutput
			if outPath == "" {
				outPath = fmt.Sprintf("%s_%s.%s", slug(v.Category), slug(v.Item), chartFormat)
			}
			formatName := chartFormat
			if ext := strings.TrimPrefix(filepath.Ext(outPath), "."); !cmd.Flags().Changed("format") && ext != "" {
				formatName = ext
			}

			width, height := cfg.ChartWidth, cfg.ChartHeight
			if cmd.Flags().Changed("width") {
				width = chartWidth
			}
			if cmd.Flags().Changed("height") {
				height = chartHeight
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			err = chart.Render(f, v.Layout, chart.RenderOptions{
				Title:    fmt.Sprintf("%s / %s", v.Category, v.Item),
				Width:    width,
				Height:   height,
				Format:   formatName,
				Selected: a.Selection.HistoryIndex,
				Mean:     v.Summary.Mean,
				Range:    v.Range,
			})
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(outPath)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		})
	},
}

var pickCmd = &cobra.Command{
	Use:   "pick CATEGORY ITEM X",
	Short: "Resolve a chart x position to the score drawn there",
	Long: `X is measured in weight units from the left edge of the chart (0 up to the
total weight). Positions outside the bars select nothing.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid x %q", args[2])
		}
		return withApp(cmd, func(_ context.Context, a *app.App) error {
			if err := a.SelectItem(args[0], args[1]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			index, ok := a.Click(x)
			if !ok {
				fmt.Fprintln(out, "no selection")
				return nil
			}
			v, _ := a.View()
			seg := v.Layout.Segments[index]
			fmt.Fprintf(out, "#%d  score %s  bar %.3f-%.3f\n", index+1, format.Int(seg.Score), seg.Left, seg.Right())
			return nil
		})
	},
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

func init() {
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output file (default CATEGORY_ITEM.FORMAT)")
	chartCmd.Flags().StringVar(&chartFormat, "format", "png", "image format: png or svg")
	chartCmd.Flags().StringVar(&chartSelect, "select", "", "highlight the score shown as #N")
	chartCmd.Flags().IntVar(&chartWidth, "width", 0, "image width in pixels (default from config)")
	chartCmd.Flags().IntVar(&chartHeight, "height", 0, "image height in pixels (default from config)")

	rootCmd.AddCommand(statsCmd, chartCmd, pickCmd)
}
