package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/lead-intel/internal/observability"
	"github.com/jonathan/lead-intel/internal/schemas"
	"github.com/jonathan/lead-intel/internal/scoring"
	"github.com/jonathan/lead-intel/internal/types"
)

func newScoreBatchCmd(root *rootOptions) *cobra.Command {
	var (
		input       string
		concurrency int
		save        bool
	)

	cmd := &cobra.Command{
		Use:   "score-batch",
		Short: "Score a JSON file of leads concurrently",
		Long:  "Reads a JSON array of leads, scores them with bounded concurrency and prints a summary. With --save every scored lead is added to the store in file order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			leads, err := loadLeadBatch(input)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			scorer, closeScorer, err := newScorer(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer closeScorer()

			results := scorer.ScoreBatch(ctx, leads, concurrency)
			observability.NewPrinter(cmd.OutOrStdout()).PrintBatchSummary(leads, results)

			if !save {
				return nil
			}

			store, backend, err := openStore(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			for i := range leads {
				if _, err := store.SaveLead(ctx, leads[i], results[i]); err != nil {
					return fmt.Errorf("failed to save lead %d (%s): %w", i+1, leads[i].Name, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d lead(s)\n", len(leads))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to a JSON array of leads (required)")
	cmd.Flags().IntVar(&concurrency, "concurrency", scoring.DefaultBatchConcurrency, "Maximum concurrent scoring calls")
	cmd.Flags().BoolVar(&save, "save", false, "Save the scored leads")

	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}
	return cmd
}

// loadLeadBatch reads, schema-checks and validates a batch file.
func loadLeadBatch(path string) ([]types.LeadFormData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.LeadBatch, string(content)); err != nil {
		return nil, fmt.Errorf("invalid lead batch: %w", err)
	}

	var leads []types.LeadFormData
	if err := json.Unmarshal(content, &leads); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leads JSON: %w", err)
	}
	for i := range leads {
		if err := leads[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid lead %d: %w", i+1, err)
		}
	}
	return leads, nil
}
