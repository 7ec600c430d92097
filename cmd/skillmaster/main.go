package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zen-systems/skillmaster/pkg/adapter"
	"github.com/zen-systems/skillmaster/pkg/config"
	"github.com/zen-systems/skillmaster/pkg/logger"
	"github.com/zen-systems/skillmaster/pkg/server"
	"github.com/zen-systems/skillmaster/pkg/stages"
)

// newAdapter builds the provider adapter; tests replace it with a mock.
var newAdapter = adapter.New

func main() {
	rootCmd := &cobra.Command{
		Use:   "skillmaster",
		Short: "Break a skill into distinctions, insights and practice steps",
		Long: `SkillMaster runs a three-stage LLM workflow over a skill name and a
	proficiency level: it identifies the key distinctions of the skill, turns
	them into learning insights, and proposes concrete next steps.

	Run "skillmaster serve" for the HTTP API or "skillmaster analyze" for a
	one-off analysis in the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", server.ServiceName, server.Version)
		},
	}
}

// setup loads configuration and the logger shared by every command.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func stageOptions(cfg *config.Config) (stages.Options, error) {
	shape, err := stages.ParseShape(cfg.ResponseShape)
	if err != nil {
		return stages.Options{}, &config.ConfigurationError{
			Setting: "SKILLMASTER_RESPONSE_SHAPE",
			Message: err.Error(),
		}
	}
	opts := stages.Options{
		Model:       cfg.Model,
		Temperature: stages.DefaultTemperature,
		Shape:       shape,
		StageShapes: make(map[string]stages.Shape, len(cfg.StageShapes)),
	}
	for id, raw := range cfg.StageShapes {
		stageShape, err := stages.ParseShape(raw)
		if err != nil {
			return stages.Options{}, &config.ConfigurationError{
				Setting: "SKILLMASTER_RESPONSE_SHAPE_" + strings.ToUpper(id),
				Message: err.Error(),
			}
		}
		opts.StageShapes[id] = stageShape
	}
	return opts, nil
}

// gatewayFactory resolves the credential on every call so a missing key
// surfaces per request instead of at startup.
func gatewayFactory(cfg *config.Config, log *logger.Logger) server.GatewayFactory {
	return func() (adapter.Adapter, error) {
		key, err := cfg.APIKey()
		if err != nil {
			return nil, err
		}
		a, err := newAdapter(cfg.Provider, key)
		if err != nil {
			return nil, &config.ConfigurationError{Setting: "SKILLMASTER_PROVIDER", Message: err.Error()}
		}
		return adapter.WithLogging(a, log), nil
	}
}
