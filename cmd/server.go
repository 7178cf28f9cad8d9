package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/app"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the users gRPC server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		a, err := app.New(cmd.Context(), cfg, logger)
		if err != nil {
			logger.Error("failed to start users service", zap.Error(err))
			return err
		}
		defer a.Close()

		return a.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
