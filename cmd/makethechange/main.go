package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davicafu/makethechange/internal/config"
	"github.com/davicafu/makethechange/pkg/logger"
)

var (
	cfg        *config.Config
	log        *zap.Logger
	logLevel   string
	apiURL     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "makethechange <command>",
	Short: "Catálogos de Make the CHANGE: API y cliente de listados",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = logLevel
		}
		if cmd.Flags().Changed("api") {
			c.APIBaseURL = apiURL
		}
		cfg = c

		logger.Init(cfg.LogLevel, cfg.Env)
		log = logger.Logger()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "nivel de log (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "URL base de la API (browse, adjust)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "salida en JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(adjustCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
