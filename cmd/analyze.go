package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom-cli/internal/analysis"
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
	"github.com/KaramelBytes/dataloom-cli/internal/utils"
)

var (
	anaOutputPath string
	anaHeadRows   int
	anaMaxRows    int
	anaDelimiter  string
	anaCorrThr    float64
	anaSheetName  string
	anaSheetIndex int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Analyze data files and print a summary report",
	Long:  `Analyze loads one or more tabular data files and reports head rows, column kinds, missing values, numeric and categorical summaries, duplicate rows, and correlated column pairs.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()

		opt := analysis.DefaultOptions()
		opt.HeadRows = c.HeadRows
		opt.MaxRows = c.MaxRows
		opt.CorrThreshold = c.CorrThreshold
		if cmd.Flags().Changed("head") {
			opt.HeadRows = anaHeadRows
		}
		if cmd.Flags().Changed("max-rows") {
			opt.MaxRows = anaMaxRows
		}
		if cmd.Flags().Changed("corr-threshold") {
			opt.CorrThreshold = anaCorrThr
		}

		load, err := loadOptions(anaDelimiter, anaSheetName, anaSheetIndex)
		if err != nil {
			return err
		}

		var reports []string
		failed := 0
		for _, path := range args {
			debugf("analyzing %s", path)
			t, err := dataset.Load(path, load)
			if err != nil {
				failed++
				fmt.Printf("⚠ Skipping %s: %v\n", path, err)
				continue
			}
			rep, err := analysis.Analyze(t, opt)
			if err != nil {
				failed++
				fmt.Printf("⚠ Skipping %s: %v\n", path, err)
				continue
			}
			reports = append(reports, rep.Render())
		}
		if len(reports) == 0 {
			return fmt.Errorf("all %d files failed to analyze", failed)
		}

		combined := strings.Join(reports, "\n")
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(combined)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
		} else {
			fmt.Println(combined)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to analyze", failed, len(args))
		}
		return nil
	},
}

// loadOptions translates the shared loader flags into dataset options.
func loadOptions(delimiter, sheetName string, sheetIndex int) (dataset.Options, error) {
	opt := dataset.Options{SheetName: sheetName, SheetIndex: sheetIndex}
	switch delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'tab')", delimiter)
	}
	return opt, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().IntVarP(&anaHeadRows, "head", "n", 5, "number of leading rows to include")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 100000, "maximum rows to process (0 = unlimited)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	analyzeCmd.Flags().Float64Var(&anaCorrThr, "corr-threshold", 0.7, "minimum |r| for reported correlation pairs")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
