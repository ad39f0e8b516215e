package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/onyxpm/onyx_backend/internal/core/domain"
	portssvc "github.com/onyxpm/onyx_backend/internal/core/ports/services"
)

func newCreateOrgCommand(a *app) *cobra.Command {
	var id, slug, name string
	var seed bool

	cmd := &cobra.Command{
		Use:   "create-org",
		Short: "Register an organization and optionally seed its chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if id == "" {
				id = uuid.NewString()
			}
			return a.withServices(cmd.Context(), func(b *Backend, svc *portssvc.ServiceContainer) error {
				if b.Organizations == nil {
					return fmt.Errorf("this backend cannot register organizations")
				}
				org, created, err := b.Organizations.EnsureOrganization(cmd.Context(), domain.Organization{
					OrganizationID: id,
					Slug:           slug,
					Name:           name,
				})
				if err != nil {
					return fmt.Errorf("creating organization: %w", err)
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "created organization %s (%s)\n", org.OrganizationID, org.Slug)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "organization %s already exists\n", org.OrganizationID)
				}
				if seed {
					return seedChart(cmd.Context(), cmd, svc, org.OrganizationID, a.actor)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "organization id (generated when empty)")
	cmd.Flags().StringVar(&slug, "slug", "", "unique slug (required)")
	_ = cmd.MarkFlagRequired("slug")
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&seed, "seed", true, "seed the default chart of accounts")

	return cmd
}

func seedChart(ctx context.Context, cmd *cobra.Command, svc *portssvc.ServiceContainer, organizationID, actor string) error {
	accounts, err := svc.Chart.SeedChart(ctx, organizationID, actor)
	if err != nil {
		return fmt.Errorf("seeding chart: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "chart has %d system accounts\n", len(accounts))
	return nil
}
