package main

import (
	"fmt"
	"os"
	"time"

	webfontextractor "github.com/hellenic-development/webfont-extractor"
	"github.com/hellenic-development/webfont-extractor/pkg/downloader"
	"github.com/hellenic-development/webfont-extractor/pkg/font"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = webfontextractor.Version

var (
	pageURL             string
	allFormats          bool
	download            bool
	downloadDir         string
	outputFile          string
	policyFile          string
	timeout             time.Duration
	includeInaccessible bool
	skipAccessCheck     bool
	quiet               bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "webfont-extractor",
		Short: "Extract and download the web fonts a page uses",
		Long:  "A tool that finds the web fonts a page actually renders with by analyzing its HTML and CSS, checks that they are downloadable, and saves them to disk",
		Run:   run,
	}

	rootCmd.Flags().StringVarP(&pageURL, "url", "u", "", "Page URL to extract fonts from (required)")
	rootCmd.Flags().BoolVarP(&allFormats, "all-formats", "a", false, "Keep every format variant instead of only the best one per family")
	rootCmd.Flags().BoolVarP(&download, "download", "d", false, "Download the discovered fonts")
	rootCmd.Flags().StringVar(&downloadDir, "dir", "", "Destination directory for downloads (default: the user's downloads folder)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write a markdown report to this file")
	rootCmd.Flags().StringVar(&policyFile, "policy", "", "YAML selector policy file overriding the built-in usage heuristics")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request HTTP timeout (default 30s)")
	rootCmd.Flags().BoolVar(&includeInaccessible, "include-inaccessible", false, "Also download fonts whose accessibility probe failed")
	rootCmd.Flags().BoolVar(&skipAccessCheck, "skip-access-check", false, "Skip the accessibility probes")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress messages")

	rootCmd.MarkFlagRequired("url")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("webfont-extractor version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	cyan.Println("\n🔤 Webfont Extractor")
	cyan.Println("====================")
	cyan.Println()

	opts := webfontextractor.Options{
		PageURL:                pageURL,
		AllFormats:             allFormats,
		PolicyFile:             policyFile,
		SkipAccessibilityCheck: skipAccessCheck,
		Timeout:                timeout,
		DownloadFonts:          download,
		DownloadDir:            downloadDir,
		IncludeInaccessible:    includeInaccessible,
	}
	if !quiet {
		opts.Logger = &cliLogger{}
	}
	if download {
		opts.OnProgress = func(completed, total int) {
			fmt.Printf("  [%d/%d] downloaded\n", completed, total)
		}
	}

	result, err := webfontextractor.Run(opts)
	if err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if len(result.Fonts) == 0 {
		fmt.Println("No web fonts found — this page doesn't appear to use any.")
		return
	}

	cyan.Printf("\n📊 Fonts in use (%d):\n", len(result.Fonts))
	for _, rec := range result.Fonts {
		fmt.Printf("  • %s — %s, %s%s%s\n",
			rec.Family, rec.Variant(), rec.Format, sizeNote(rec), accessNote(rec))
	}

	if download {
		reportDownloads(result.Downloads, green, red)
	}

	if outputFile != "" {
		green.Printf("\n💾 Writing report to %s... ", outputFile)
		if err := os.WriteFile(outputFile, []byte(result.Markdown), 0644); err != nil {
			red.Printf("✗\n")
			red.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		green.Println("✓")
	}
}

func reportDownloads(outcomes []downloader.Outcome, green, red *color.Color) {
	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Success() {
			succeeded++
		}
	}

	if succeeded > 0 {
		green.Printf("\n✨ Downloaded %d font(s):\n", succeeded)
		for _, outcome := range outcomes {
			if outcome.Success() {
				fmt.Printf("  %s\n", outcome.FilePath)
			}
		}
	}

	if succeeded < len(outcomes) {
		red.Printf("\n%d download(s) failed:\n", len(outcomes)-succeeded)
		for _, outcome := range outcomes {
			if !outcome.Success() {
				fmt.Printf("  %s: %v\n", outcome.Record.Family, outcome.Err)
			}
		}
	}
}

func sizeNote(rec font.Record) string {
	if rec.SizeBytes <= 0 {
		return ""
	}
	return fmt.Sprintf(", %.1f KB", float64(rec.SizeBytes)/1024)
}

func accessNote(rec font.Record) string {
	if rec.Accessible {
		return ""
	}
	return " (not accessible)"
}

// cliLogger implements webfontextractor.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
