package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/clausula/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Clausula configuration",
	Long: `Manage Clausula configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (CLAUSULA_*)
3. Config file (~/.clausula/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after merging defaults, the config file, environment variables, and flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if file := viper.ConfigFileUsed(); file != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println(string(yamlData))

		fmt.Println("Environment:")
		fmt.Printf("  OPENAI_API_KEY     %s\n", keyStatus(os.Getenv("OPENAI_API_KEY")))
		fmt.Printf("  ANTHROPIC_API_KEY  %s\n", keyStatus(os.Getenv("ANTHROPIC_API_KEY")))
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
			fmt.Printf("  OLLAMA_BASE_URL    %s\n", base)
		} else {
			fmt.Printf("  OLLAMA_BASE_URL    (not set)\n")
		}
		fmt.Println()

		return nil
	},
}

// keyStatus reports presence without echoing the secret
func keyStatus(v string) string {
	if v == "" {
		return "(not set)"
	}
	return "set"
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.clausula/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}
		configDir := filepath.Join(home, ".clausula")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'clausula config show' to view it, or delete it first to recreate", configPath)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		var buf bytes.Buffer
		buf.WriteString("# Clausula Configuration File\n")
		buf.WriteString("# See https://github.com/ppiankov/clausula for full documentation\n")
		buf.WriteString("#\n")
		buf.WriteString("# Configuration hierarchy (highest to lowest priority):\n")
		buf.WriteString("#   1. CLI flags\n")
		buf.WriteString("#   2. Environment variables (CLAUSULA_*)\n")
		buf.WriteString("#   3. This config file\n")
		buf.WriteString("#   4. Built-in defaults\n\n")
		buf.Write(yamlData)
		buf.WriteString("\n# API keys are read from the environment, never from this file:\n")
		buf.WriteString("#   export OPENAI_API_KEY=sk-...\n")
		buf.WriteString("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
		buf.WriteString("#   export OLLAMA_BASE_URL=http://localhost:11434\n")

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
		if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("error writing config file: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  clausula config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
