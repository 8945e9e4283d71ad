package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spigell/resume-analyzer/internal/resume"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatJSON  = "json"
	formatFlat  = "flat"
	formatPlain = "plain"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Extract text and sections from a PDF resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parse(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("format", "f", formatJSON, "output format: json, flat or plain")
}

func parse(cmd *cobra.Command, path string) {
	ctx := context.Background()
	logger, config := setup()

	format, _ := cmd.Flags().GetString("format")
	if format != formatJSON && format != formatFlat && format != formatPlain {
		logger.Fatal("unsupported output format", zap.String("format", format))
	}

	data, err := readDocument(path)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	a, err := newAnalyzer(ctx, config, path, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	views, err := a.Parse(ctx, data)
	if err != nil {
		logger.Fatal("parsing the resume", zap.Error(err))
	}

	if err := writeViews(cmd.OutOrStdout(), views, format); err != nil {
		logger.Fatal("writing the result", zap.Error(err))
	}
}

func writeViews(w io.Writer, views *resume.Views, format string) error {
	switch format {
	case formatFlat:
		_, err := fmt.Fprintln(w, views.FlatText)
		return err
	case formatPlain:
		_, err := fmt.Fprintln(w, views.PlainText)
		return err
	default:
		return writeJSON(w, views)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
