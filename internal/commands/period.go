package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
	"github.com/onyxpm/onyx_backend/internal/dto"
)

func newCreatePeriodCommand(a *app) *cobra.Command {
	var orgID, start, end string

	cmd := &cobra.Command{
		Use:   "create-period",
		Short: "Create an accounting period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(_ *Backend, svc *portssvc.ServiceContainer) error {
				period, err := svc.Period.CreatePeriod(cmd.Context(), orgID, dto.CreatePeriodRequest{
					PeriodStart: start,
					PeriodEnd:   end,
				}, a.actor)
				if err != nil {
					return fmt.Errorf("creating period: %w", err)
				}
				printPeriod(cmd, period)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization id (required)")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD (required)")
	for _, f := range []string{"org", "start", "end"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

// newLockPeriodCommand builds lock-period or unlock-period.
func newLockPeriodCommand(a *app, lock bool) *cobra.Command {
	var orgID, periodID string

	use, short := "lock-period", "Lock a period against posting"
	if !lock {
		use, short = "unlock-period", "Reopen a locked period"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(_ *Backend, svc *portssvc.ServiceContainer) error {
				var (
					period *domain.AccountingPeriod
					err    error
				)
				if lock {
					period, err = svc.Period.LockPeriod(cmd.Context(), orgID, periodID, a.actor)
				} else {
					period, err = svc.Period.UnlockPeriod(cmd.Context(), orgID, periodID, a.actor)
				}
				if err != nil {
					return fmt.Errorf("%s: %w", use, err)
				}
				printPeriod(cmd, period)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization id (required)")
	cmd.Flags().StringVar(&periodID, "period", "", "period id (required)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func printPeriod(cmd *cobra.Command, p *domain.AccountingPeriod) {
	state := "open"
	if p.IsLocked {
		state = "locked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s..%s %s\n",
		p.PeriodID, p.PeriodStart.Format(domain.DateLayout), p.PeriodEnd.Format(domain.DateLayout), state)
}
