package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/diwire/internal/compiler"
	"github.com/roach88/diwire/internal/container"
	"github.com/roach88/diwire/internal/ir"
	"github.com/roach88/diwire/internal/passes"
	"github.com/roach88/diwire/internal/priority"
	"github.com/roach88/diwire/internal/store"
)

// buildIDs generates ids for recorded builds. Tests swap in a
// deterministic generator.
var buildIDs store.IDGenerator = store.UUIDv7Generator{}

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationResult is the JSON payload of a successful compile.
type CompilationResult struct {
	Container *ir.CompiledContainer   `json:"container"`
	Warnings  []compiler.CycleWarning `json:"warnings"`
	Unchanged bool                    `json:"unchanged,omitempty"` // same hash as the latest recorded build
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile a container spec",
		Long: `Compile the CUE and YAML container files in a directory.

The spec is validated, every compiler pass runs in schedule order, and the
compiled container is printed with its content hash. With --db the build is
recorded in the build history database unless its hash matches the latest
build of the same directory.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := loadSpecs(formatter, specsDir)
	if err != nil {
		return err
	}

	if verrs := compiler.Validate(loaded.Spec); len(verrs) > 0 {
		if err := printValidationErrors(formatter, verrs); err != nil {
			return err
		}
		// Invalid input stops the compile; that is a command error here.
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(verrs)))
	}

	obs := passes.ObserverFunc(func(tier passes.Tier, name string) {
		formatter.VerboseLog("Running pass %s (%s)", name, tier)
	})
	compiled, err := passes.Compile(*loaded.Spec, obs)
	if err != nil {
		return outputCompileError(formatter, compileErrorCode(err), err.Error(), nil)
	}

	result := &CompilationResult{
		Container: compiled,
		Warnings:  compiler.AnalyzeCycles(compiled.Services),
	}
	for _, w := range result.Warnings {
		formatter.VerboseLog("Warning: %s", w.Message)
	}

	if opts.Output != "" {
		if err := writeContainerToFile(compiled, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	var buildID string
	if opts.DB != "" {
		buildID, result.Unchanged, err = recordBuild(ctx, opts.DB, specsDir, compiled)
		if err != nil {
			return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
		}
		formatter.VerboseLog("Build %s recorded in %s", buildID, opts.DB)
	}

	return outputCompileSuccess(formatter, result, buildID, opts.Output)
}

// loadSpecs loads specsDir and reports a load failure in the configured
// format.
func loadSpecs(formatter *OutputFormatter, specsDir string) (*compiler.LoadResult, error) {
	loaded, err := compiler.LoadDir(specsDir)
	if err != nil {
		var loadErr *compiler.LoadError
		if errors.As(err, &loadErr) {
			if loadErr.Pos.IsValid() {
				return nil, outputCompileError(formatter, loadErr.Code, loadErr.Message, map[string]any{
					"file":   loadErr.Pos.Filename(),
					"line":   loadErr.Pos.Line(),
					"column": loadErr.Pos.Column(),
				})
			}
			return nil, outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return nil, outputCompileError(formatter, compiler.ErrCodeGeneric, err.Error(), nil)
	}
	formatter.VerboseLog("Found %d CUE file(s) and %d YAML file(s) in %s",
		len(loaded.CUEFiles), len(loaded.YAMLFiles), specsDir)
	return loaded, nil
}

// recordBuild stores compiled unless the latest build of specDir has the
// same hash. It returns the id of the stored or matching build.
func recordBuild(ctx context.Context, dbPath, specDir string, compiled *ir.CompiledContainer) (string, bool, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", false, err
	}
	defer st.Close()

	if abs, err := filepath.Abs(specDir); err == nil {
		specDir = abs
	}

	latest, err := st.LatestBuild(ctx, specDir)
	switch {
	case err == nil && latest.Container.Hash == compiled.Hash:
		return latest.ID, true, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return "", false, err
	}

	id := buildIDs.Generate()
	if _, _, err := st.WriteBuild(ctx, id, specDir, compiled); err != nil {
		return "", false, err
	}
	return id, false, nil
}

// compileErrorCode maps a pass failure to a CLI error code.
func compileErrorCode(err error) string {
	var (
		unknownSvc  *container.UnknownServiceError
		missingAttr *priority.MissingAttributeError
		unknownPass *passes.UnknownPassError
	)
	switch {
	case errors.As(err, &unknownSvc):
		return ErrCodeUnknownService
	case errors.As(err, &missingAttr):
		return ErrCodeMissingAttr
	case errors.As(err, &unknownPass):
		return ErrCodeUnknownPass
	default:
		return ErrCodePassFailed
	}
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, buildID, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.WriteJSON(CLIResponse{Status: "ok", Data: result, BuildID: buildID})
	}

	c := result.Container
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d service(s) with %d pass(es)\n", len(c.Services), len(c.Passes))
	fmt.Fprintf(formatter.Writer, "Hash: %s\n\n", c.Hash)

	fmt.Fprintln(formatter.Writer, "Passes:")
	for _, p := range c.Passes {
		fmt.Fprintf(formatter.Writer, "  %-20s %4d  %s\n", p.Tier, p.Priority, p.Name)
	}
	fmt.Fprintln(formatter.Writer)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(formatter.Writer, "Warnings:")
		for _, w := range result.Warnings {
			fmt.Fprintf(formatter.Writer, "  %s\n", w.Message)
		}
		fmt.Fprintln(formatter.Writer)
	}

	switch {
	case buildID != "" && result.Unchanged:
		fmt.Fprintf(formatter.Writer, "Unchanged since build %s\n", buildID)
	case buildID != "":
		fmt.Fprintf(formatter.Writer, "Recorded build %s\n", buildID)
	}
	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote compiled container to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// writeContainerToFile writes the compiled container as indented JSON.
// Canonical JSON without indentation is used only for hashing.
func writeContainerToFile(c *ir.CompiledContainer, filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling container: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
