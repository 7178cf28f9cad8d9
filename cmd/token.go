package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/app"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/events"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/service"
)

var (
	tokenEmail    string
	tokenPassword string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed token for an existing active user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		jwtCfg, err := config.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
		if err != nil {
			return err
		}

		store, err := app.OpenStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		userService := service.NewUserService(store.Repo, jwtCfg, config.NewBcrypt(cfg.BcryptCost), cfg.Policy, events.Nop{}, nil, logger)

		token, err := userService.IssueToken(cmd.Context(), tokenEmail, tokenPassword)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "user email")
	tokenCmd.Flags().StringVar(&tokenPassword, "password", "", "user password")
	_ = tokenCmd.MarkFlagRequired("email")
	_ = tokenCmd.MarkFlagRequired("password")
}
