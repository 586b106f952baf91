package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/diwire/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Services int                        `json:"services"`
	Wiring   int                        `json:"wiring"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Validate a container spec without compiling it",
		Long: `Validate the container files in a directory without running any
compiler pass.

Checks service ids, parents, tags, method calls, wiring declarations and
pass moves. Faster than compile for development feedback; errors that only
show up while passes run (dangling references, missing tag attributes) are
reported by compile.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := loadSpecs(formatter, specsDir)
	if err != nil {
		return err
	}

	verrs := compiler.Validate(loaded.Spec)
	if len(verrs) > 0 {
		if err := printValidationErrors(formatter, verrs); err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(verrs)))
	}

	result := ValidationResult{
		Valid:    true,
		Services: len(loaded.Spec.Services),
		Wiring:   len(loaded.Spec.Wiring),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Spec valid: %d service(s), %d wiring declaration(s)\n", result.Services, result.Wiring)
	return nil
}

// printValidationErrors writes every validation error in the configured
// format. The caller picks the exit code.
func printValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		return formatter.WriteJSON(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		})
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return nil
}
