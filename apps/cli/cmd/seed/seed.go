package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	businessesservice "github.com/slotwise/slotwise-saas/domains/businesses/be/service"
	platformauth "github.com/slotwise/slotwise-saas/platform/go/auth"
	"github.com/slotwise/slotwise-saas/platform/go/persistence"
)

// Command groups seed helpers for local development environments.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed demo data (super admin, demo business)",
		Long:  "Seed a development database with the demo super admin and the demo business plus its admin account.",
	}

	cmd.AddCommand(demoCommand())
	return cmd
}

func demoCommand() *cobra.Command {
	var (
		databaseURL   string
		superUsername string
		superPassword string
		businessID    string
		businessName  string
		domain        string
		adminUsername string
		adminPassword string
	)

	c := &cobra.Command{
		Use:   "demo",
		Short: "Create the demo super admin and demo business",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if databaseURL == "" {
				_ = godotenv.Load()
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("database url is required (flag --database-url or DATABASE_URL)")
			}

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			directory, err := persistence.NewPostgresDirectory(ctx, pool)
			if err != nil {
				return fmt.Errorf("init directory: %w", err)
			}

			if err := seedSuperAdmin(ctx, cmd, directory, superUsername, superPassword); err != nil {
				return err
			}

			if err := seedDemoBusiness(ctx, cmd, directory, businessesservice.CreateInput{
				ID:            businessID,
				Name:          businessName,
				Domain:        domain,
				AdminUsername: adminUsername,
				AdminPassword: adminPassword,
			}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Seed complete.")
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
	c.Flags().StringVar(&superUsername, "super-username", "superadmin", "Username for the super admin account")
	c.Flags().StringVar(&superPassword, "super-password", "admin123", "Password for the super admin account")
	c.Flags().StringVar(&businessID, "business-id", "demo", "Identifier for the demo business")
	c.Flags().StringVar(&businessName, "business-name", "Demo Business", "Display name for the demo business")
	c.Flags().StringVar(&domain, "domain", "demo.example.com", "Domain for the demo business")
	c.Flags().StringVar(&adminUsername, "admin-username", "admin", "Username for the demo business admin")
	c.Flags().StringVar(&adminPassword, "admin-password", "business123", "Password for the demo business admin")

	return c
}

// seedSuperAdmin performs a check-or-create so reruns stay idempotent.
func seedSuperAdmin(ctx context.Context, cmd *cobra.Command, directory *persistence.PostgresDirectory, username, password string) error {
	if existing, err := directory.FindPrincipalByUsername(ctx, username); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Super admin %q already exists (id %d), skipping.\n", existing.Username, existing.ID)
		return nil
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("lookup super admin: %w", err)
	}

	hash, err := platformauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash super admin password: %w", err)
	}

	stored, err := directory.SeedPrincipal(ctx, persistence.PrincipalRecord{
		Username:     username,
		PasswordHash: hash,
		Role:         persistence.RoleSuperAdmin,
		TenantName:   "Super Admin",
	})
	if err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created super admin %q (id %d).\n", stored.Username, stored.ID)
	return nil
}

func seedDemoBusiness(ctx context.Context, cmd *cobra.Command, directory *persistence.PostgresDirectory, input businessesservice.CreateInput) error {
	svc := businessesservice.New(directory)

	res, err := svc.Create(ctx, input)
	if err != nil {
		if errors.Is(err, businessesservice.ErrDuplicateTenantID) {
			fmt.Fprintf(cmd.OutOrStdout(), "Business %q already exists, skipping.\n", input.ID)
			return nil
		}
		return fmt.Errorf("create demo business: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created business %q with admin %q (id %d).\n", res.Business.ID, res.Admin.Username, res.Admin.ID)
	return nil
}
