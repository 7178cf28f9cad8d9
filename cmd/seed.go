package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/app"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/seed"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fixture users into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		var fixture io.Reader = bytes.NewReader(seed.DefaultFixture)
		if seedFile != "" {
			f, err := os.Open(seedFile)
			if err != nil {
				return err
			}
			defer f.Close()
			fixture = f
		}

		store, err := app.OpenStore(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := seed.Seed(cmd.Context(), store.Repo, config.NewBcrypt(cfg.BcryptCost), fixture, logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON fixture to load instead of the bundled one")
}
