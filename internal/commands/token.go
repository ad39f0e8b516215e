package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/onyxpm/onyx_backend/internal/utils"
)

// newIssueTokenCommand mints bearer tokens for internal callers such as the
// payments module invoking the ledger hooks.
func newIssueTokenCommand(a *app) *cobra.Command {
	var orgID, userID string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print a signed access token for an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				userID = a.actor
			}
			token, err := utils.GenerateAccessToken(userID, orgID, a.cfg.JWTSecret, a.cfg.JWTIssuer, ttl)
			if err != nil {
				return fmt.Errorf("signing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "organization id (required)")
	_ = cmd.MarkFlagRequired("org")
	cmd.Flags().StringVar(&userID, "user", "", "subject of the token (defaults to --actor)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	return cmd
}
