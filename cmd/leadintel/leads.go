package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/lead-intel/internal/observability"
	"github.com/jonathan/lead-intel/internal/types"
)

func newLeadsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List and manage stored leads",
	}
	cmd.AddCommand(
		newLeadsListCmd(root),
		newLeadsShowCmd(root),
		newLeadsDeleteCmd(root),
		newLeadsClearCmd(root),
		newLeadsStatsCmd(root),
	)
	return cmd
}

func newLeadsListCmd(root *rootOptions) *cobra.Command {
	var (
		priority string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored leads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, ok := types.ParsePriorityFilter(priority)
			if !ok {
				return fmt.Errorf("invalid priority %q (want ALL, HIGH, MEDIUM or LOW)", priority)
			}

			store, backend, err := openStore(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			leads := store.FilterByPriority(cmd.Context(), filter)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(leads)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintLeads(leads)
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", types.PriorityFilterAll, "Filter: ALL, HIGH, MEDIUM or LOW")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the leads as JSON")
	return cmd
}

func newLeadsShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, backend, err := openStore(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			lead, ok := store.GetLead(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("lead not found: %s", args[0])
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintLead(lead)
			return nil
		},
	}
}

func newLeadsDeleteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a lead by id (unknown ids are ignored)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, backend, err := openStore(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := store.DeleteLead(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete lead: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newLeadsClearCmd(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored lead",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear all leads without --yes")
			}

			store, backend, err := openStore(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := store.ClearLeads(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear leads: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All leads cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm clearing all leads")
	return cmd
}

func newLeadsStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lead counts by priority and the average score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, backend, err := openStore(cmd.Context(), root.cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			observability.NewPrinter(cmd.OutOrStdout()).PrintStats(store.Stats(cmd.Context()))
			return nil
		},
	}
}
