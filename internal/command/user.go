package command

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockroom/inventory-system/internal/core/domain"
	"github.com/stockroom/inventory-system/internal/core/service"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userCreateCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	var roleFlag string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create user",
		Long: "Creates a user with the given role. Passwords may be provided via stdin\n" +
			"or through the interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			role, err := domain.ParseRole(roleFlag)
			if err != nil {
				return fmt.Errorf("--role must be %s or %s", domain.RoleAdmin, domain.RoleEmployee)
			}

			env, err := loadEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := env.close(cmd.Context()); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			auth, err := service.NewAuthService(env.store.Users, service.NewBcryptHasher(), env.log)
			if err != nil {
				return err
			}

			passwd, err := prompt(cmd.InOrStdin(), "password: ", true)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			if _, err := auth.CreateUser(cmd.Context(), args[0], string(passwd), role); err != nil {
				if errors.Is(err, domain.ErrUserExists) {
					return fmt.Errorf("user %q already exists", args[0])
				}
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&roleFlag, "role", string(domain.RoleEmployee), "role to grant: ADMIN or EMPLOYEE")
	return cmd
}
