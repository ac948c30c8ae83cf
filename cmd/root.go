// Package cmd implements the command-line interface for pageserve.
// It provides the root command and subcommands for replaying and inspecting
// archived websites.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/jonesrussell/pageserve/cmd/inspect"
	"github.com/jonesrussell/pageserve/cmd/serve"
	"github.com/jonesrussell/pageserve/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the pageserve CLI.
	rootCmd = &cobra.Command{
		Use:   "pageserve",
		Short: "Replay archived websites locally",
		Long:  `Serve and inspect .page website archives from a local replay server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pageserve version %s\n", "1.0.0")
		},
	})

	// Add subcommands
	rootCmd.AddCommand(serve.Command())
	rootCmd.AddCommand(inspect.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	// Set config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Enable automatic environment variable reading BEFORE setting defaults
	// so environment variables take precedence over defaults
	viper.SetEnvPrefix("PAGESERVE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults (only used if environment variables or config file don't provide values)
	config.SetDefaults()

	// Read config file. It is optional: defaults and environment variables
	// cover every setting.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	if Debug {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}

	return nil
}
