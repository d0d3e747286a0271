// Package cli implements the riskradar command line.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"riskradar/config"
	"riskradar/gemini"
	"riskradar/logger"
	"riskradar/models"
	"riskradar/surveillance"
)

type rootOptions struct {
	configPath string
	model      string
	apiKey     string
	json       bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "riskradar",
		Short: "RiskRadar - borrower risk surveillance for lenders",
		Long: `RiskRadar resolves a company name to a concrete legal entity, scans
recent public reporting for credit relevant risk signals and rates the
borrower from Critical to None.

Run "riskradar serve" for the dashboard, or use resolve and analyze for
one-off scans from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default configs/config.yaml)")
	pf.StringVar(&opts.model, "model", "", "Gemini model id, overrides config")
	pf.StringVar(&opts.apiKey, "api-key", "", "Gemini API key, overrides config and environment")
	pf.BoolVar(&opts.json, "json", false, "print JSON instead of text")

	cmd.AddCommand(
		newServeCommand(opts),
		newResolveCommand(opts),
		newAnalyzeCommand(opts),
		newModelsCommand(opts),
	)
	return cmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// runtime is the wiring shared by every command that talks to the model.
type runtime struct {
	cfg     *config.Config
	zap     *zap.Logger
	log     logger.Logger
	model   models.Model
	apiKey  string
	service *surveillance.Service

	// set when --model was given; the saved dashboard choice does not apply
	modelPinned bool
}

func (o *rootOptions) load() (*runtime, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, apiKey: cfg.Gemini.APIKey}
	if o.apiKey != "" {
		rt.apiKey = strings.TrimSpace(o.apiKey)
	}
	modelID := cfg.Gemini.Model
	if o.model != "" {
		modelID = o.model
		rt.modelPinned = true
	}
	if rt.model, err = models.ParseModel(modelID); err != nil {
		return nil, err
	}

	rt.zap = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	rt.log = logger.NewZapAdapter(rt.zap)

	client := gemini.NewClient(cfg.Gemini.Timeout, rt.log, gemini.WithBaseURL(cfg.Gemini.BaseURL))
	rt.service = surveillance.NewService(client, cfg.Gemini.SearchGrounding, rt.log)
	return rt, nil
}

func (rt *runtime) callOptions() surveillance.CallOptions {
	return surveillance.CallOptions{Model: rt.model, APIKey: rt.apiKey}
}

func (rt *runtime) close() {
	if rt.zap != nil {
		_ = rt.zap.Sync()
	}
}

func newModelsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the supported Gemini models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), models.SupportedModels)
			}
			out := cmd.OutOrStdout()
			for _, m := range models.SupportedModels {
				marker := " "
				if m.ID == models.DefaultModel {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-26s %s (%s)\n", marker, m.ID, m.Label, m.Series)
			}
			return nil
		},
	}
}
