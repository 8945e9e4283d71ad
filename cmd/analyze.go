package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spigell/resume-analyzer/internal/catalog"
	"github.com/spigell/resume-analyzer/internal/feedback"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptNoRole = "No target role"
	PromptBack   = "back"
)

var errNoRole = errors.New("no role selected")

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Parse a PDF resume and review it against a target role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("role", "r", "", "target role. Asked interactively when empty and the catalog has roles")
	analyzeCmd.Flags().StringP("level", "l", "", "experience level: Entry Level, Mid Level, Senior or Executive")
	analyzeCmd.Flags().String("job-description-file", "", "a file with the job description to take keywords from")
	analyzeCmd.Flags().StringSlice("skill", nil, "required skill; overrides the catalog skills of the role")
	analyzeCmd.Flags().BoolP("summary", "s", false, "print the suggestions as text instead of json")

	viper.BindPFlag("evaluation.level", analyzeCmd.Flags().Lookup("level"))
}

func analyze(cmd *cobra.Command, path string) {
	ctx := context.Background()
	logger, config := setup()

	data, err := readDocument(path)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	a, err := newAnalyzer(ctx, config, path, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	req, err := buildRequest(cmd, config, a.Catalog())
	if err != nil {
		logger.Fatal("preparing the evaluation", zap.Error(err))
	}

	logger.Info("analyzing the resume",
		zap.String("document", path),
		zap.String("target_role", req.TargetRole),
		zap.String("level", string(req.Level)),
	)

	analysis, err := a.Analyze(ctx, data, req)
	if err != nil {
		logger.Fatal("analyzing the resume", zap.Error(err))
	}

	if summary, _ := cmd.Flags().GetBool("summary"); summary {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Score: %d\nKeyword match: %d%%\nPredicted role: %s\n\n", analysis.Report.Score, analysis.Report.KeywordMatch, analysis.Report.PredictedRole)
		for _, line := range feedback.Summary(analysis.Report) {
			fmt.Fprintf(out, "- %s\n", line)
		}
		return
	}

	if err := writeJSON(cmd.OutOrStdout(), analysis); err != nil {
		logger.Fatal("writing the result", zap.Error(err))
	}
}

func buildRequest(cmd *cobra.Command, config *Config, cat *catalog.Catalog) (feedback.Request, error) {
	req := feedback.Request{}

	levelName := config.Evaluation.Level
	level, ok := feedback.ParseLevel(levelName)
	if !ok && strings.TrimSpace(levelName) != "" {
		return req, fmt.Errorf("unknown level %q", levelName)
	}
	req.Level = level

	role, _ := cmd.Flags().GetString("role")
	if strings.TrimSpace(role) == "" && cat.Len() > 0 {
		selected, err := selectRole(cat)
		if err != nil && !errors.Is(err, errNoRole) {
			return req, err
		}
		role = selected
	}
	req.TargetRole = strings.TrimSpace(role)

	req.RequiredSkills, _ = cmd.Flags().GetStringSlice("skill")

	if file, _ := cmd.Flags().GetString("job-description-file"); file != "" {
		description, err := os.ReadFile(file)
		if err != nil {
			return req, fmt.Errorf("reading job description: %w", err)
		}
		req.JobDescription = string(description)
	}

	return req, nil
}

// selectRole asks for a category and then a role within it.
func selectRole(cat *catalog.Catalog) (string, error) {
	for {
		categories := append([]string{PromptNoRole}, cat.Categories()...)
		categoryPrompt := promptui.Select{
			Label: "Select a category",
			Items: categories,
		}

		_, category, err := categoryPrompt.Run()
		if err != nil {
			return "", fmt.Errorf("selecting a category: %w", err)
		}
		if category == PromptNoRole {
			return "", errNoRole
		}

		roles := append([]string{PromptBack}, cat.RolesIn(category)...)
		rolePrompt := promptui.Select{
			Label: "Select a target role",
			Items: roles,
			Size:  10,
		}

		_, role, err := rolePrompt.Run()
		if err != nil {
			return "", fmt.Errorf("selecting a role: %w", err)
		}
		if role == PromptBack {
			continue
		}
		return role, nil
	}
}
