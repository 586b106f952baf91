package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/diwire/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Build string // show one build instead of the list
}

// BuildSummary is one row of the history listing.
type BuildSummary struct {
	Seq      int64  `json:"seq"`
	ID       string `json:"id"`
	SpecDir  string `json:"spec_dir"`
	Hash     string `json:"hash"`
	Services int    `json:"services"`
	Passes   int    `json:"passes"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded builds",
		Long: `List the builds recorded by compile --db, oldest first, or show one
build in full with --build.

Examples:
  diwire history --db builds.db
  diwire history --db builds.db --build 0190f5e4-7b2a-7c3d-9e8f-0123456789ab --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Build, "build", "", "build id to show")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.DB == "" {
		return outputCompileError(formatter, ErrCodeStore, "--db is required", nil)
	}
	// Opening creates the file; reading history should not.
	if _, err := os.Stat(opts.DB); err != nil {
		return outputCompileError(formatter, ErrCodeStore, fmt.Sprintf("database not found: %s", opts.DB), nil)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}
	defer st.Close()

	if opts.Build != "" {
		return showBuild(ctx, formatter, st, opts.Build)
	}

	builds, err := st.ListBuilds(ctx)
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}
	summaries := make([]BuildSummary, len(builds))
	for i, b := range builds {
		summaries[i] = summarize(b)
	}

	if formatter.Format == "json" {
		return formatter.WriteJSON(CLIResponse{Status: "ok", Data: summaries})
	}
	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No builds recorded.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %s  %d service(s)  %s\n",
			s.Seq, s.ID, shortHash(s.Hash), s.Services, s.SpecDir)
	}
	return nil
}

func showBuild(ctx context.Context, formatter *OutputFormatter, st *store.Store, id string) error {
	b, err := st.ReadBuild(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return outputCompileError(formatter, ErrCodeBuildNotFound, fmt.Sprintf("build not found: %s", id), nil)
	}
	if err != nil {
		return outputCompileError(formatter, ErrCodeStore, err.Error(), nil)
	}

	if formatter.Format == "json" {
		return formatter.WriteJSON(CLIResponse{Status: "ok", Data: b.Container, BuildID: b.ID})
	}

	s := summarize(b)
	fmt.Fprintf(formatter.Writer, "Build %s (#%d)\n", s.ID, s.Seq)
	fmt.Fprintf(formatter.Writer, "Specs: %s\n", s.SpecDir)
	fmt.Fprintf(formatter.Writer, "Hash:  %s\n\n", s.Hash)
	fmt.Fprintln(formatter.Writer, "Services:")
	for _, def := range b.Container.Services {
		fmt.Fprintf(formatter.Writer, "  %s  %s\n", def.ID, def.Class)
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintln(formatter.Writer, "Passes:")
	for _, p := range b.Container.Passes {
		fmt.Fprintf(formatter.Writer, "  %-20s %4d  %s\n", p.Tier, p.Priority, p.Name)
	}
	return nil
}

func summarize(b store.Build) BuildSummary {
	return BuildSummary{
		Seq:      b.Seq,
		ID:       b.ID,
		SpecDir:  b.SpecDir,
		Hash:     b.Container.Hash,
		Services: len(b.Container.Services),
		Passes:   len(b.Container.Passes),
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
