package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/diwire/internal/ir"
)

// DefaultConfigFile is read from the working directory when --config is
// not given.
const DefaultConfigFile = "diwire.yaml"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	DB         string // build history database; empty disables recording
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the diwire CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "diwire",
		Short:   "diwire - priority-tagged service wiring",
		Version: ir.CompilerVersion + " (ir " + ir.IRVersion + ")",
		Long: `Compile dependency injection container specs.

Services declared in CUE or YAML are wired by priority-tagged compiler
passes: tagged services are discovered, ordered by their priority
attribute, and injected as ordered lists, locators or method calls.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, opts); err != nil {
				return WrapExitError(ExitCommandError, "loading config", err)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "config file (default: ./"+DefaultConfigFile+")")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "build history database path")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPassesCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// loadConfig resolves format, verbose and db from, in rising precedence,
// the config file, DIWIRE_* environment variables and explicit flags.
// A .env file in the working directory seeds the environment first.
func loadConfig(cmd *cobra.Command, opts *RootOptions) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("DIWIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"format", "verbose", "db"} {
		if err := v.BindPFlag(name, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
			return err
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else if _, err := os.Stat(DefaultConfigFile); err == nil {
		v.SetConfigFile(DefaultConfigFile)
	}
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("reading %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	opts.Format = v.GetString("format")
	opts.Verbose = v.GetBool("verbose")
	opts.DB = v.GetString("db")
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
