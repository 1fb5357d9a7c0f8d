package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bsnap/internal/app"
	"bsnap/internal/catalog"
	"bsnap/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configPath returns the --config flag value, or the default location.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	defaults, err := app.GetDefaults()
	if err != nil {
		return "", fmt.Errorf("getting defaults: %w", err)
	}
	return defaults["config_path"], nil
}

var rootCmd = &cobra.Command{
	Use:          "bsnap",
	Short:        "One-shot catalogued filesystem backup",
	SilenceUsage: true,
}

// run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Back up the configured directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		a, err := app.NewBKApp(cfg)
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		progress := newTermProgress(os.Stdout)
		if progress != nil {
			a.SetProgress(progress)
		}

		run, err := a.Run()
		if progress != nil {
			progress.Done()
		}
		if run != nil {
			app.WriteSummary(os.Stdout, run)
		}
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}
		return nil
	},
}

// show command
var showCmd = &cobra.Command{
	Use:   "show CATALOG",
	Short: "Show a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.OpenExisting(args[0])
		if err != nil {
			return err
		}
		defer c.Close()

		run, policy, err := c.ReadRun()
		if err != nil {
			return err
		}
		counts, err := c.CountOutcomes()
		if err != nil {
			return err
		}

		app.WriteSummary(os.Stdout, run)
		fmt.Printf("Excluded extensions      : %s\n", strings.Join(policy.Extensions(), ", "))
		fmt.Printf("Hash max size (excluded) : %d\n", policy.HashMaxSize())
		fmt.Printf("Hash algorithm           : %s\n", run.HashAlgorithm)
		fmt.Printf("Compression              : %s\n", run.Compression)
		fmt.Println()
		app.WriteOutcomeCounts(os.Stdout, counts)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}
		path, err := configPath(cmd)
		if err != nil {
			return err
		}

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}

		cfg := config.NewConfig(defaultName(), defaults["output_dir"], homeDir)
		cfg.LogDir = defaults["log_dir"]

		if err := config.Init(path, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		fmt.Printf("Name:       %s\n", cfg.Name)
		fmt.Printf("Input Dir:  %s\n", homeDir)
		fmt.Printf("Output Dir: %s\n", cfg.OutputDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.ReadFromFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Name:                   %s\n", cfg.Name)
		fmt.Printf("Input Dirs:             %s\n", strings.Join(cfg.InputDirs, ", "))
		fmt.Printf("Output Dir:             %s\n", cfg.OutputDir)
		fmt.Printf("Excluded Extensions:    %s\n", strings.Join(cfg.ExcludedExts, ", "))
		fmt.Printf("Hash Excluded Max Size: %d\n", cfg.HashExcludedMaxSize)
		fmt.Printf("Log Dir:                %s\n", cfg.LogDir)
		fmt.Printf("Compression:            %s\n", cfg.Archive.Compression)
		fmt.Printf("Hash Algorithm:         %s\n", cfg.Hash.Algorithm)
		if err := cfg.Validate(); err != nil {
			fmt.Printf("\nWarning: %v\n", err)
		}
		return nil
	},
}

// defaultName derives a run name from the host name.
func defaultName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "backup"
	}
	host, _, _ = strings.Cut(host, ".")
	return strings.ReplaceAll(host, string(filepath.Separator), "_")
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default $BSNAP_CONFIG_PATH or ~/.config/bsnap.toml)")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}
