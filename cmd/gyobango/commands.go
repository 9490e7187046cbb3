package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/gyobango/internal/app"
	"github.com/dshills/gyobango/internal/scratch"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gyobango",
		Short: "Keep a scratch document of sequential line identifiers",
		Long: "gyobango appends zero-padded sequential identifiers (00001, 00002, ...) to a\n" +
			"scratch document so it always holds enough of them for a source document.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to configuration file (TOML or YAML)")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("gyobango %s\nCommit: %s\nBuilt: %s\n", version, commit, date))

	root.AddCommand(newNumberCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newRunCmd())
	return root
}

// newApp builds the application from the global flags and an optional
// scratch path argument.
func newApp(cmd *cobra.Command, args []string) (*app.Application, error) {
	var opts app.Options
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	opts.LogOutput = cmd.ErrOrStderr()
	if len(args) > 0 {
		opts.ScratchPath = args[0]
	}

	if f := cmd.Flags().Lookup("headroom"); f != nil && f.Changed {
		headroom, _ := cmd.Flags().GetInt("headroom")
		opts.Headroom = &headroom
	}

	return app.New(opts)
}

func newNumberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "number [scratch]",
		Short: "Append identifiers for a source cursor line",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNumber,
	}

	cmd.Flags().IntP("line", "l", 0, "Zero-based cursor line in the source document")
	cmd.Flags().Int("headroom", 0, "Identifiers to keep beyond the cursor line")
	cmd.Flags().Bool("dry-run", false, "Print the identifiers without saving")
	return cmd
}

func runNumber(cmd *cobra.Command, args []string) error {
	line, _ := cmd.Flags().GetInt("line")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if line < 0 {
		return fmt.Errorf("--line must not be negative")
	}

	application, err := newApp(cmd, args)
	if err != nil {
		return err
	}
	if limit := application.Session().Allocator().MaxCount(); line > limit {
		return fmt.Errorf("--line must not exceed %d", limit)
	}

	out, err := application.Number(cmd.Context(), line, dryRun)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if dryRun {
		for _, l := range out.Result.Lines() {
			fmt.Fprintln(w, l)
		}
		return nil
	}
	printOutcome(w, application.Session().Path(), out)
	return nil
}

func printOutcome(w io.Writer, path string, out scratch.Outcome) {
	res := out.Result
	if res.Empty() {
		fmt.Fprintf(w, "%s: nothing to add\n", path)
		return
	}
	fmt.Fprintf(w, "%s: added %d identifiers %s..%s at line %d; cursor to line %d of %d\n",
		path, len(res.Tokens), res.Tokens[0].Text, res.Tokens[len(res.Tokens)-1].Text,
		res.InsertAt, out.CursorTarget, out.LineCount)
	if res.Terminal {
		fmt.Fprintf(w, "%s: warning: identifiers exceed the configured width and will not be recognized again\n", path)
	}
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [scratch]",
		Short: "Summarize the identifiers in a scratch document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := newApp(cmd, args)
			if err != nil {
				return err
			}

			ledger := application.Scan()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "document:  %s\n", application.Session().Path())
			fmt.Fprintf(w, "count:     %d\n", ledger.Len())
			fmt.Fprintf(w, "last:      %d\n", ledger.LastValue())
			fmt.Fprintf(w, "last line: %d\n", ledger.LastLine)
			fmt.Fprintf(w, "oversized: %d\n", ledger.Oversized)
			fmt.Fprintf(w, "terminal:  %t\n", ledger.Oversized > 0)
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch --source FILE [scratch]",
		Short: "Keep the scratch document ahead of a source document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")

			application, err := newApp(cmd, args)
			if err != nil {
				return err
			}
			return application.Watch(cmd.Context(), source)
		},
	}

	cmd.Flags().StringP("source", "s", "", "Source document to track")
	cmd.Flags().Int("headroom", 0, "Identifiers to keep beyond the source's last line")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [script.lua] [scratch]",
		Short: "Run a Lua script against the scratch document",
		Long: "run executes a sandboxed Lua script with the gyo module bound to the\n" +
			"scratch document, then saves the document if the script changed it.\n" +
			"Without a script argument, script.path from the configuration is used.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var script string
			if len(args) > 0 {
				script, args = args[0], args[1:]
			}

			application, err := newApp(cmd, args)
			if err != nil {
				return err
			}
			return application.RunScript(cmd.Context(), script)
		},
	}
}
