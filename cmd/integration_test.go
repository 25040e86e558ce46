package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores default values and clears sticky Changed state that
// persists across invocations of the shared command tree.
func resetFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().VisitAll(func(fl *pflag.Flag) {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		})
	}
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) {
	t.Helper()
	resetFlags(analyzeCmd, plotCmd)
	cfg = nil // drop config cached under a previous test HOME
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

// runCmdErr executes the root command expecting a failure.
func runCmdErr(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(analyzeCmd, plotCmd)
	cfg = nil
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		t.Fatalf("command %v should have failed", args)
	}
	return err
}

func writeSampleCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	content := strings.Join([]string{
		"day,temp,sales,region",
		"2024-01-01,8.5,120,north",
		"2024-01-02,9.1,132,north",
		"2024-01-03,7.8,118,south",
		"2024-01-04,10.2,150,south",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestCLI_AnalyzeWritesReport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	csvPath := writeSampleCSV(t)
	outPath := filepath.Join(t.TempDir(), "report.txt")

	runCmd(t, "analyze", csvPath, "-o", outPath, "-n", "2")

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	report := string(data)
	for _, want := range []string{
		"=== Head (first 2 rows) ===",
		"=== Basic info ===",
		"Rows: 4",
		"Columns: 4",
		"=== Numeric summary ===",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
}

func TestCLI_AnalyzeTwoRowFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	csvPath := filepath.Join(t.TempDir(), "tiny.csv")
	content := "value,label\n1,a\n2,b\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	outPath := filepath.Join(t.TempDir(), "report.txt")

	runCmd(t, "analyze", csvPath, "-o", outPath)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	report := string(data)
	for _, want := range []string{"Rows: 2", "=== Numeric summary ==="} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
}

func TestCLI_AnalyzeMissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	err := runCmdErr(t, "analyze", filepath.Join(t.TempDir(), "nope.csv"))
	if !strings.Contains(err.Error(), "failed to analyze") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCLI_PlotHistogram(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	csvPath := writeSampleCSV(t)
	outPath := filepath.Join(t.TempDir(), "temp.png")

	runCmd(t, "plot", csvPath, "-t", "hist", "-c", "temp", "-o", outPath)

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if len(data) < 4 || data[0] != 0x89 || data[1] != 'P' {
		t.Errorf("output is not a PNG")
	}
}

func TestCLI_PlotUnsupportedType(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	csvPath := writeSampleCSV(t)
	err := runCmdErr(t, "plot", csvPath, "-t", "pie")
	if !strings.Contains(err.Error(), "unsupported chart type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCLI_PlotUnknownColumn(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	csvPath := writeSampleCSV(t)
	err := runCmdErr(t, "plot", csvPath, "-t", "hist", "-c", "bogus")
	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCLI_AskNotAvailable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	csvPath := writeSampleCSV(t)
	err := runCmdErr(t, "ask", csvPath, "what drives sales?")
	if !strings.Contains(err.Error(), "not available yet") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCLI_ConfigShowAndSet(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	runCmd(t, "config", "show")
	runCmd(t, "config", "set", "head_rows", "8")

	cfgPath := filepath.Join(os.Getenv("HOME"), ".dataloom", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "head_rows: 8") {
		t.Errorf("config not persisted:\n%s", data)
	}
}

func TestCLI_ConfigSetRejectsBadValue(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	err := runCmdErr(t, "config", "set", "corr_threshold", "2.5")
	if !strings.Contains(err.Error(), "between 0 and 1") {
		t.Errorf("unexpected error: %v", err)
	}
}
