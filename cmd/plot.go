package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/chart"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

var (
	plotType       string
	plotColumn     string
	plotX          string
	plotY          string
	plotBy         string
	plotHue        string
	plotDate       string
	plotFreq       string
	plotBins       int
	plotOutput     string
	plotWidth      float64
	plotHeight     float64
	plotDelimiter  string
	plotSheetName  string
	plotSheetIndex int
)

var plotCmd = &cobra.Command{
	Use:   "plot <file>",
	Short: "Render a chart from a data file",
	Long:  `Plot loads a tabular data file and renders a chart image. Supported types: hist, box, scatter, corr, pair, count, time. The output format follows the file extension (.png, .svg, .pdf).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := chart.ParseKind(plotType)
		if err != nil {
			return err
		}
		load, err := loadOptions(plotDelimiter, plotSheetName, plotSheetIndex)
		if err != nil {
			return err
		}
		t, err := dataset.Load(args[0], load)
		if err != nil {
			return err
		}

		c := currentConfig()
		opt := &chart.Options{
			Column:        plotColumn,
			X:             plotX,
			Y:             plotY,
			By:            plotBy,
			Hue:           plotHue,
			Date:          plotDate,
			Freq:          plotFreq,
			Bins:          c.HistBins,
			Width:         c.ChartWidth,
			Height:        c.ChartHeight,
			Output:        plotOutput,
			TopCategories: c.TopCategories,
		}
		if cmd.Flags().Changed("bins") {
			opt.Bins = plotBins
		}
		if cmd.Flags().Changed("width") {
			opt.Width = plotWidth
		}
		if cmd.Flags().Changed("height") {
			opt.Height = plotHeight
		}
		if kind == chart.KindPair && plotColumn != "" {
			opt.Columns = splitColumns(plotColumn)
			opt.Column = ""
		}

		out, err := chart.Render(t, kind, opt)
		for _, n := range opt.Notices {
			fmt.Printf("⚠ %s\n", n)
		}
		if err != nil {
			if errors.Is(err, chart.ErrNothingToPlot) {
				fmt.Printf("⚠ %v\n", err)
				return nil
			}
			return err
		}
		fmt.Printf("✓ Saved %s chart to %s\n", kind, out)
		return nil
	},
}

func splitColumns(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringVarP(&plotType, "type", "t", "hist", "chart type: hist|box|scatter|corr|pair|count|time")
	plotCmd.Flags().StringVarP(&plotColumn, "column", "c", "", "column to chart (comma-separated list for pair)")
	plotCmd.Flags().StringVar(&plotX, "x", "", "scatter: X axis column")
	plotCmd.Flags().StringVar(&plotY, "y", "", "scatter: Y axis column")
	plotCmd.Flags().StringVar(&plotBy, "by", "", "box: grouping column")
	plotCmd.Flags().StringVar(&plotHue, "hue", "", "scatter: color points by this column")
	plotCmd.Flags().StringVar(&plotDate, "date", "", "time: date column")
	plotCmd.Flags().StringVar(&plotFreq, "freq", "", "time: mean-resample frequency: D|W|M")
	plotCmd.Flags().IntVar(&plotBins, "bins", 30, "hist: number of bins")
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "output image path (default <type>-<id>.png)")
	plotCmd.Flags().Float64Var(&plotWidth, "width", 10, "chart width in inches")
	plotCmd.Flags().Float64Var(&plotHeight, "height", 6, "chart height in inches")
	plotCmd.Flags().StringVar(&plotDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	plotCmd.Flags().StringVar(&plotSheetName, "sheet-name", "", "XLSX: sheet name to chart")
	plotCmd.Flags().IntVar(&plotSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
