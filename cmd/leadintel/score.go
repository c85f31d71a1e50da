package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/lead-intel/internal/observability"
	"github.com/jonathan/lead-intel/internal/types"
)

func newScoreCmd(root *rootOptions) *cobra.Command {
	var (
		data types.LeadFormData
		save bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single lead",
		Long:  "Sends one lead to the scoring model and prints the score, priority and summary. With --save the scored lead is added to the store.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := data.Validate(); err != nil {
				return fmt.Errorf("invalid lead: %w", err)
			}

			ctx := cmd.Context()
			scorer, closeScorer, err := newScorer(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer closeScorer()

			result := scorer.ScoreLead(ctx, data)
			printer := observability.NewPrinter(cmd.OutOrStdout())

			if !save {
				printer.PrintLeadScore(data, result)
				return nil
			}

			store, backend, err := openStore(ctx, root.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			lead, err := store.SaveLead(ctx, data, result)
			if err != nil {
				return fmt.Errorf("failed to save lead: %w", err)
			}
			printer.PrintLead(lead)
			return nil
		},
	}

	cmd.Flags().StringVar(&data.Name, "name", "", "Contact name (required)")
	cmd.Flags().StringVar(&data.Email, "email", "", "Contact e-mail (required)")
	cmd.Flags().StringVar(&data.Company, "company", "", "Company name")
	cmd.Flags().StringVar(&data.Budget, "budget", "", "Budget range label")
	cmd.Flags().StringVarP(&data.Message, "message", "m", "", "Project description (required)")
	cmd.Flags().BoolVar(&save, "save", false, "Save the scored lead")

	for _, name := range []string{"name", "email", "message"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	return cmd
}
