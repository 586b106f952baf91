package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/diwire/internal/compiler"
	"github.com/roach88/diwire/internal/ir"
	"github.com/roach88/diwire/internal/passes"
)

// PassesOptions holds flags for the passes command.
type PassesOptions struct {
	*RootOptions
	Tier string // limit output to one tier
}

// NewPassesCommand creates the passes command.
func NewPassesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PassesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "passes <specs-dir>",
		Short: "Show the compiler pass schedule",
		Long: `Print the pass schedule of a container spec after every declared move
has been applied, in execution order. No pass is run.

Examples:
  diwire passes ./specs
  diwire passes ./specs --tier after_removing`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPasses(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tier, "tier", "", "only show this tier")

	return cmd
}

func runPasses(opts *PassesOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var tier passes.Tier
	if opts.Tier != "" {
		t, err := passes.ParseTier(opts.Tier)
		if err != nil {
			return outputCompileError(formatter, ErrCodeInvalidTier, err.Error(), passes.Tiers)
		}
		tier = t
	}

	loaded, err := loadSpecs(formatter, specsDir)
	if err != nil {
		return err
	}
	if verrs := compiler.Validate(loaded.Spec); len(verrs) > 0 {
		if err := printValidationErrors(formatter, verrs); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("schedule unavailable: %d validation error(s)", len(verrs)))
	}

	cfg, err := passes.Configure(*loaded.Spec)
	if err != nil {
		return outputCompileError(formatter, compileErrorCode(err), err.Error(), nil)
	}

	schedule := cfg.Schedule()
	if tier != "" {
		schedule = cfg.TierSchedule(tier)
	}
	if schedule == nil {
		schedule = []ir.PassInfo{}
	}

	if formatter.Format == "json" {
		return formatter.WriteJSON(CLIResponse{Status: "ok", Data: schedule})
	}
	for i, p := range schedule {
		fmt.Fprintf(formatter.Writer, "%2d. %-20s %4d  %s\n", i+1, p.Tier, p.Priority, p.Name)
	}
	if len(schedule) == 0 {
		fmt.Fprintln(formatter.Writer, "No passes scheduled.")
	}
	return nil
}
