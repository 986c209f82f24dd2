package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"roomdir/internal/app"
	"roomdir/internal/httpapi"
	"roomdir/internal/view"
)

var browseHistory string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the room directory interactively in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := httpapi.NewConsoleLogger(os.Stderr, cfg.LogLevel)
		ctx := cmd.Context()

		d, err := newDeps(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer d.Close()
		d.startPoller(ctx)

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "roomdir> ",
			HistoryFile:     browseHistory,
			AutoComplete:    completer(),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("initializing readline: %w", err)
		}
		defer rl.Close()

		doc, err := view.NewPage(d.floorplan)
		if err != nil {
			return err
		}
		shell := &Shell{out: rl.Stdout()}
		ctrl, err := app.New(logger, doc, app.Options{
			Fetcher:  d.client,
			Signal:   d.signal,
			Notifier: shell,
		})
		if err != nil {
			return err
		}
		shell.ctrl = ctrl

		if err := ctrl.Start(ctx, d.client); err != nil {
			fmt.Fprintln(shell.out, "could not load rooms; the directory is empty")
		}
		_ = shell.Exec(ctx, "list")

		for {
			line, err := rl.Readline()
			if err != nil {
				if errors.Is(err, readline.ErrInterrupt) {
					if strings.TrimSpace(line) == "" {
						fmt.Fprintln(shell.out, "Use 'exit' or 'quit' to exit.")
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}

			if err := shell.Exec(ctx, line); err != nil {
				if errors.Is(err, errExit) {
					return nil
				}
				fmt.Fprintln(shell.out, "Error:", err)
			}
		}
	},
}

func completer() *readline.PrefixCompleter {
	keys := []readline.PrefixCompleterInterface{
		readline.PcItem("down"), readline.PcItem("up"), readline.PcItem("enter"), readline.PcItem("esc"),
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("search"),
		readline.PcItem("key", keys...),
		readline.PcItem("pick"),
		readline.PcItem("blur"),
		readline.PcItem("select"),
		readline.PcItem("open"),
		readline.PcItem("back"),
		readline.PcItem("building", readline.PcItem("all")),
		readline.PcItem("floor", readline.PcItem("all")),
		readline.PcItem("feature"),
		readline.PcItem("filters"),
		readline.PcItem("facets"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func init() {
	browseCmd.Flags().StringVar(&browseHistory, "history", "", "history file (empty disables history)")
	rootCmd.AddCommand(browseCmd)
}
