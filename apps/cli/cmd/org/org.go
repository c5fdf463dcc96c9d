package orgcmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlst8/rlst8/platform/go/persistence"
)

// Command groups organization onboarding helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Organization utilities (create with initial admin)",
	}

	cmd.AddCommand(createCommand())
	return cmd
}

func createCommand() *cobra.Command {
	var (
		databaseURL        string
		name               string
		registrationNumber string
		address            string
		adminAuthUID       string
		adminEmail         string
		adminFullName      string
		adminPhone         string
	)

	c := &cobra.Command{
		Use:   "create",
		Short: "Create an organization and its first company admin",
		Long:  "Creates the organization row and its initial company_admin user in a single transaction. The admin must already exist at the auth provider; pass its UID via --admin-auth-uid.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return fmt.Errorf("database url is required (flag --database-url or DATABASE_URL)")
			}
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("organization name is required")
			}
			if strings.TrimSpace(adminAuthUID) == "" || strings.TrimSpace(adminEmail) == "" || strings.TrimSpace(adminFullName) == "" {
				return fmt.Errorf("admin auth uid, email and full name are required")
			}

			ctx := context.Background()
			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			orgs, err := persistence.NewOrgStore(pool)
			if err != nil {
				return fmt.Errorf("init org store: %w", err)
			}

			org, admin, err := orgs.CreateOrgWithAdmin(ctx,
				persistence.CreateOrgParams{
					Name:               name,
					ContactEmail:       strPtrOrNil(adminEmail),
					ContactPhone:       strPtrOrNil(adminPhone),
					RegistrationNumber: strPtrOrNil(registrationNumber),
					Address:            strPtrOrNil(address),
				},
				persistence.CreateAdminParams{
					AuthUserID: adminAuthUID,
					Email:      adminEmail,
					FullName:   adminFullName,
					Phone:      strPtrOrNil(adminPhone),
					Role:       persistence.RoleCompanyAdmin,
				},
			)
			if err != nil {
				return fmt.Errorf("create organization: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Organization created: %s (%s) | Admin user: %s (%s)\n",
				org.Name, org.ID, admin.Email, admin.ID)
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
	c.Flags().StringVar(&name, "name", "", "Organization name")
	c.Flags().StringVar(&registrationNumber, "registration-number", "", "Company registration number (optional)")
	c.Flags().StringVar(&address, "address", "", "Company address (optional)")
	c.Flags().StringVar(&adminAuthUID, "admin-auth-uid", "", "Auth provider UID of the initial admin")
	c.Flags().StringVar(&adminEmail, "admin-email", "", "Initial admin email")
	c.Flags().StringVar(&adminFullName, "admin-full-name", "", "Initial admin full name")
	c.Flags().StringVar(&adminPhone, "admin-phone", "", "Initial admin phone (optional)")

	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("admin-auth-uid")
	_ = c.MarkFlagRequired("admin-email")
	_ = c.MarkFlagRequired("admin-full-name")

	return c
}

func strPtrOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
