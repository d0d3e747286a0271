package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"riskradar/models"
	"riskradar/report"
)

func newResolveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <query>",
		Short: "Resolve a company name to candidate legal entities",
		Example: `  riskradar resolve "Acme"
  riskradar resolve --json Acme Holdings`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("query is empty")
			}

			rt, err := opts.load()
			if err != nil {
				return err
			}
			defer rt.close()

			candidates, err := rt.service.Resolve(cmd.Context(), query, rt.callOptions())
			if err != nil {
				return err
			}
			if opts.json {
				if candidates == nil {
					candidates = []models.CandidateEntity{}
				}
				return writeJSON(cmd.OutOrStdout(), candidates)
			}
			printCandidates(cmd.OutOrStdout(), candidates)
			return nil
		},
	}
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var name, industry string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a risk scan for one entity and print the memo",
		Example: `  riskradar analyze --name "Acme Corp" --industry Manufacturing
  riskradar analyze --name "Acme Corp" --industry Manufacturing --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return errors.New("--name is required")
			}

			rt, err := opts.load()
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.service.Analyze(cmd.Context(), name, industry, rt.callOptions())
			if err != nil {
				return err
			}

			now := time.Now()
			entity := models.CandidateEntity{Name: name, Industry: industry}
			borrower := models.NewBorrower(strconv.FormatInt(now.UnixMilli(), 10), entity, *result, now)
			entry := models.NewCacheEntry(*result)

			if opts.json {
				return writeJSON(cmd.OutOrStdout(), report.NewDetail(borrower, entry))
			}
			_, err = io.WriteString(cmd.OutOrStdout(), report.RenderMemo(borrower, entry, now))
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "legal name of the entity")
	cmd.Flags().StringVar(&industry, "industry", "", "industry of the entity")
	return cmd
}

func printCandidates(out io.Writer, candidates []models.CandidateEntity) {
	if len(candidates) == 0 {
		fmt.Fprintln(out, "No matching entities found.")
		return
	}
	for i, c := range candidates {
		fmt.Fprintf(out, "%d. %s", i+1, c.Name)
		if c.Ticker != "" {
			fmt.Fprintf(out, " [%s]", c.Ticker)
		}
		fmt.Fprintln(out)
		if c.Industry != "" {
			fmt.Fprintf(out, "   %s\n", c.Industry)
		}
		if c.Description != "" {
			fmt.Fprintf(out, "   %s\n", c.Description)
		}
	}
	// every candidate carries the same sources
	if sources := candidates[0].GroundingSources; len(sources) > 0 {
		fmt.Fprintln(out, "Sources:")
		for _, s := range sources {
			fmt.Fprintf(out, "  - %s (%s)\n", s.Title, s.URI)
		}
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
