package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/abhay-gupta-199/kmrl-backend/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	seedEmail      string
	seedDepartment string
)

var rootCmd = &cobra.Command{
	Use:   "kmrl-backend",
	Short: "KMRL Document Backend",
	Long:  `Document distribution and approval backend for departmental users.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// Container deployments carry no config file; everything comes from env.
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	// Load configuration from file (development)
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	return &cfg, nil
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "superadmin@kmrl.co.in", "email for the seeded SuperAdmin account")
	seedCmd.Flags().StringVar(&seedDepartment, "department", "Administration", "department for the seeded SuperAdmin account")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
