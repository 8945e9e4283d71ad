package cmd

import (
	"errors"
	"log"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/classifier"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-analyzer"
)

type Config struct {
	Catalog    string            `mapstructure:"catalog"`
	Classifier *classifier.Paths `mapstructure:"classifier"`
	Extraction *ExtractionConfig `mapstructure:"extraction"`
	Evaluation *EvaluationConfig `mapstructure:"evaluation"`
}

type ExtractionConfig struct {
	analyzer.ExtractionConfig `mapstructure:",squash"`

	OCR *OCRConfig `mapstructure:"ocr"`
}

type OCRConfig struct {
	Provider string        `mapstructure:"provider"`
	DPI      int           `mapstructure:"dpi"`
	Language string        `mapstructure:"language"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type EvaluationConfig struct {
	Level string `mapstructure:"level"`
	// Disable lists feedback steps to skip. Skipping "sections" also
	// withholds the completeness bonus.
	Disable []string `mapstructure:"disable"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-analyzer extracts text and structure from PDF resumes and reviews them against a target role",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("catalog", "RESUME_ANALYZER_CATALOG"); err != nil {
		log.Fatalf("binding RESUME_ANALYZER_CATALOG environment variable: %v", err)
	}
	if err := viper.BindEnv("extraction.ocr.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("extraction.ocr.provider", "tesseract")
	viper.SetDefault("evaluation.level", "Mid Level")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// Every setting has a default, so only an explicit or broken config is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	err := viper.Unmarshal(config)
	if err != nil {
		return config, err
	}

	if config.Classifier == nil {
		config.Classifier = &classifier.Paths{}
	}
	if config.Extraction == nil {
		config.Extraction = &ExtractionConfig{}
	}
	if config.Extraction.OCR == nil {
		config.Extraction.OCR = &OCRConfig{}
	}
	if config.Extraction.OCR.Gemini == nil {
		config.Extraction.OCR.Gemini = &GeminiConfig{}
	}
	if config.Evaluation == nil {
		config.Evaluation = &EvaluationConfig{}
	}

	return config, nil
}
