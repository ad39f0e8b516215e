package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
)

func newSeedChartCommand(a *app) *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "seed-chart",
		Short: "Create any missing system accounts for an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(_ *Backend, svc *portssvc.ServiceContainer) error {
				return seedChart(cmd.Context(), cmd, svc, orgID, a.actor)
			})
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization id (required)")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func newDedupeChartCommand(a *app) *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "dedupe-chart",
		Short: "Merge accounts that share a normalized name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(_ *Backend, svc *portssvc.ServiceContainer) error {
				result, err := svc.Chart.DeduplicateChart(cmd.Context(), orgID, a.actor)
				if err != nil {
					return fmt.Errorf("deduplicating chart: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d, deactivated %d\n", result.Removed, result.Deactivated)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization id (required)")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}
