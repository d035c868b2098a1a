package main

import (
	"fmt"
	"os"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/usecase"
	"storefront/internal/usecase/impl"

	"github.com/spf13/cobra"
)

// passwordEnv keeps the bootstrap password out of shell history.
const passwordEnv = "STOREFRONT_ADMIN_PASSWORD"

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage staff accounts",
	}

	var input usecase.CreateAdminInput
	var role string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account, typically the first super admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.Password == "" {
				input.Password = os.Getenv(passwordEnv)
			}
			if input.Password == "" {
				return errors.Errorf("--password or %s is required", passwordEnv)
			}

			parsed, ok := entity.ParseRole(role)
			if !ok || !parsed.IsStaff() {
				return errors.Errorf("role must be admin or super_admin, got %q", role)
			}
			input.Role = parsed

			return createAdmin(cmd, &input)
		},
	}
	createCmd.Flags().StringVar(&input.Email, "email", "", "e-mail of the new account")
	createCmd.Flags().StringVar(&input.Username, "username", "", "username of the new account")
	createCmd.Flags().StringVar(&input.Password, "password", "", "password, or set "+passwordEnv)
	createCmd.Flags().StringVar(&role, "role", entity.RoleSuperAdmin.String(), "admin or super_admin")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("username")

	cmd.AddCommand(createCmd)

	return cmd
}

func createAdmin(cmd *cobra.Command, input *usecase.CreateAdminInput) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	adminUC := impl.NewAdminService(impl.AdminServiceParams{
		TxManager:    postgres.NewTransactionManager(db),
		CustomerRepo: postgres.NewCustomerRepository(db),
		ProductRepo:  postgres.NewProductRepository(db),
		OrderRepo:    postgres.NewOrderRepository(db),
		Hasher:       auth.NewBcryptHasher(cfg),
		Logger:       logger,
	})

	admin, err := adminUC.CreateAdmin(cmd.Context(), input)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", admin.Role, admin.Email, admin.ID)

	return nil
}
