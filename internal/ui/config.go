package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arveiter/blockplan/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  blockplan config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive()
		},
	}
}

func runConfigInteractive() error {
	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Println("No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Created %s\n\n", configPath)
	}

	printConfig(cfg)

	if !promptYesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	cfg.Schedule.DayStart = promptValue(reader, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(reader, "Day end", cfg.Schedule.DayEnd)
	cfg.Schedule.DefaultStepMinutes = promptInt(reader, "Default step minutes", cfg.Schedule.DefaultStepMinutes)
	cfg.Schedule.MinStepMinutes = promptInt(reader, "Minimum step minutes", cfg.Schedule.MinStepMinutes)
	cfg.Storage.DBPath = promptValue(reader, "Database path", cfg.Storage.DBPath)
	cfg.Server.Addr = promptValue(reader, "Server address", cfg.Server.Addr)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println("\nConfiguration saved!")
	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Println("Current configuration:")
	fmt.Println("──────────────────────")
	fmt.Println("[schedule]")
	fmt.Printf("  day_start            = %s\n", cfg.Schedule.DayStart)
	fmt.Printf("  day_end              = %s\n", cfg.Schedule.DayEnd)
	fmt.Printf("  default_step_minutes = %d\n", cfg.Schedule.DefaultStepMinutes)
	fmt.Printf("  min_step_minutes     = %d\n", cfg.Schedule.MinStepMinutes)
	fmt.Println("\n[storage]")
	fmt.Printf("  db_path              = %s\n", cfg.Storage.DBPath)
	fmt.Println("\n[server]")
	fmt.Printf("  addr                 = %s\n", cfg.Server.Addr)
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Printf("  %s: ", label)
	} else {
		fmt.Printf("  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
		fmt.Printf("  Invalid value %q. Enter a positive number.\n", value)
	}
}
