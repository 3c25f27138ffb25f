// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"kanso/internal/ast"
	"kanso/internal/config"
	"kanso/internal/parser"
	"kanso/internal/semantic"
	"kanso/internal/unused"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	unusedMode string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "kanso [flags] <file.ka>",
	Short: "Parse and check a Kanso contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runKanso,
}

func init() {
	rootCmd.Flags().StringVar(&unusedMode, "unused", "on", `unused-value analysis: "on" or "off"`)
	rootCmd.Flags().StringVar(&configPath, "config", "kanso.yaml", "path to the project's kanso.yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runKanso(cmd *cobra.Command, args []string) error {
	path := args[0]

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	contract, parserErrs, scannerErrs := parser.ParseSource(path, string(source))
	if len(parserErrs) > 0 || len(scannerErrs) > 0 {
		reportParseErrors(string(source), parserErrs, scannerErrs)
		os.Exit(1)
	}

	fmt.Println(contract.String())

	if unusedMode != "off" {
		if err := reportUnusedValues(contract); err != nil {
			return fmt.Errorf("unused-value analysis: %w", err)
		}
	}

	color.Green("✅ Successfully processed %s", path)
	return nil
}

// reportUnusedValues loads the project's kanso.yaml (falling back to
// config.DefaultConfig when none exists) and prints every finding the
// engine reports at a non-hidden severity.
func reportUnusedValues(contract *ast.Contract) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	options := config.NewStaticOptionsProvider(cfg)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	diags, err := semantic.AnalyzeUnusedValues(context.Background(), contract, options, logger)
	if err != nil {
		return err
	}
	printUnusedDiagnostics(diags)
	return nil
}

func reportParseErrors(src string, parserErrs []parser.ParseError, scannerErrs []parser.ScanError) {
	lines := strings.Split(src, "\n")
	for _, se := range scannerErrs {
		printCaretError(lines, se.Position.Filename, se.Position.Line, se.Position.Column, se.Message)
	}
	for _, pe := range parserErrs {
		printCaretError(lines, pe.Position.Filename, pe.Position.Line, pe.Position.Column, pe.Message)
	}
}

func printCaretError(lines []string, filename string, line, column int, message string) {
	color.Red("❌ Syntax error in %s at line %d, column %d:", filename, line, column)
	if line > 0 && line <= len(lines) {
		fmt.Println(lines[line-1])
		if column > 0 {
			color.HiRed(strings.Repeat(" ", column-1) + "^")
		}
	}
	fmt.Printf("→ %s\n", message)
}

func printUnusedDiagnostics(diags []unused.Diagnostic) {
	for _, d := range diags {
		switch d.Severity {
		case unused.SeverityError:
			color.Red("error: %s (%s:%d:%d)", d.Message, d.Position.Filename, d.Position.Line, d.Position.Column)
		case unused.SeverityWarning:
			color.Yellow("warning: %s (%s:%d:%d)", d.Message, d.Position.Filename, d.Position.Line, d.Position.Column)
		default:
			fmt.Printf("suggestion: %s (%s:%d:%d)\n", d.Message, d.Position.Filename, d.Position.Line, d.Position.Column)
		}
	}
}
