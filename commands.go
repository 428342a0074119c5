package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/atomicstack/shell-sync/internal/app"
	"github.com/atomicstack/shell-sync/internal/config"
	"github.com/atomicstack/shell-sync/internal/format/table"
	"github.com/atomicstack/shell-sync/internal/logging"
	"github.com/atomicstack/shell-sync/internal/menu"
	"github.com/atomicstack/shell-sync/internal/validate"
)

// usageError marks bad invocations, which exit with status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var usage usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

// cli carries the resolved configuration from the root's pre-run hook to
// the subcommands.
type cli struct {
	environ []string
	cfg     config.Config
}

func newRootCommand(environ []string) *cobra.Command {
	c := &cli{environ: environ}
	root := &cobra.Command{
		Use:           "shell-sync",
		Short:         "Console shell that keeps menu, tray and dock in step with your servers",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromFlags(cmd.Flags(), c.environ)
			if err != nil {
				return usageError{err}
			}
			if err := config.Validate(cfg); err != nil {
				return usageError{err}
			}
			cfg.Args = args
			c.cfg = cfg
			logging.Configure(cfg.Logging.FilePath)
			logging.SetTraceEnabled(cfg.Logging.Trace)
			traceStartup(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(c.cfg.App)
		},
	}
	config.BindFlags(root.PersistentFlags())
	root.AddCommand(
		c.validateCommand(),
		c.snapshotCommand(),
		c.toggleCommand(),
		c.serversCommand(),
		c.execCommand(),
	)
	return root
}

func (c *cli) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate HOST",
		Short: "Resolve HOST to a reachable server URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.ValidateHost(cmd.Context(), c.cfg.App, args[0])
			if err != nil {
				var failure *validate.Failure
				if errors.As(err, &failure) {
					return fmt.Errorf("%s (last tried %s after %d attempts)", failure.Kind, failure.Candidate, failure.Attempts)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.URL)
			return nil
		},
	}
}

func (c *cli) snapshotCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the menu, tray and dock state for the configured servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := app.Build(c.cfg.App)
			if err != nil {
				return err
			}
			defer stack.Close()
			return writeSnapshot(cmd.OutOrStdout(), stack.Snapshot(), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json or toml)")
	return cmd
}

func writeSnapshot(w io.Writer, snap app.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "toml":
		return toml.NewEncoder(w).Encode(snap)
	}
	return usageError{fmt.Errorf("unknown format %q", format)}
}

func (c *cli) toggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "toggle OPTION",
		Short:     "Flip a persisted display preference",
		Args:      cobra.ExactArgs(1),
		ValidArgs: optionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			option := menu.Option(args[0])
			if !option.Valid() {
				return usageError{fmt.Errorf("unknown option %q (want one of %s)", args[0], strings.Join(optionNames(), ", "))}
			}
			stack, err := app.Build(c.cfg.App)
			if err != nil {
				return err
			}
			defer stack.Close()
			if _, err := stack.Exec([]menu.Command{menu.Toggle(option)}); err != nil {
				return err
			}
			menuState := stack.Snapshot().Menu
			values := map[menu.Option]bool{
				menu.OptionShowTrayIcon:              menuState.ShowTrayIcon,
				menu.OptionShowFullScreen:            menuState.ShowFullScreen,
				menu.OptionShowWindowOnUnreadChanged: menuState.ShowWindowOnUnreadChanged,
				menu.OptionShowMenuBar:               menuState.ShowMenuBar,
				menu.OptionShowServerList:            menuState.ShowServerList,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%t\n", option, values[option])
			return nil
		},
	}
}

func optionNames() []string {
	options := menu.Options()
	names := make([]string, len(options))
	for i, option := range options {
		names[i] = string(option)
	}
	return names
}

func (c *cli) serversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List the configured servers in menu order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stack, err := app.Build(c.cfg.App)
			if err != nil {
				return err
			}
			defer stack.Close()
			snap := stack.Snapshot()
			rows := make([][]string, 0, len(snap.Menu.Servers))
			for _, server := range snap.Menu.Servers {
				marker := " "
				if server.URL == snap.Menu.CurrentServerURL {
					marker = "*"
				}
				rows = append(rows, []string{marker, server.Title, server.URL})
			}
			for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft}) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func (c *cli) execCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec",
		Short: "Run menu commands read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			cmds, err := menu.ParseScript(string(input))
			if err != nil {
				return usageError{err}
			}
			stack, err := app.Build(c.cfg.App)
			if err != nil {
				return err
			}
			defer stack.Close()
			results, err := stack.Exec(cmds)
			for i, res := range results {
				fmt.Fprintln(cmd.OutOrStdout(), describeResult(cmds[i], res))
			}
			return err
		},
	}
}

func describeResult(cmd menu.Command, res menu.Result) string {
	switch {
	case res.Err != nil:
		return cmd.Label() + ": " + res.Err.Error()
	case res.Noop:
		return cmd.Label() + ": nothing to do"
	case res.Info != "":
		return cmd.Label() + ": " + res.Info
	}
	return cmd.Label() + ": ok"
}
