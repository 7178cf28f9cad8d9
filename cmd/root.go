package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "codelsoft-users",
	Short: "Identity management service for Codelsoft",
	Long:  `Identity management service for Codelsoft. Usage:

	codelsoft-users server
	codelsoft-users migrate up
	codelsoft-users seed
	codelsoft-users token --email admin@codelsoft.cl --password admin123
`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}

	return cfg, logger, nil
}
