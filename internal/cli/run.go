package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/theapemachine/qstore"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Metrics bool
	Watch   bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Execute a script of calls against a fresh store",
		Long: `Execute a script of calls against a fresh store.

Each non-blank line is a method name followed by its arguments. Arguments
containing spaces can be quoted. Lines starting with # are ignored. When no
script is given, calls are read from stdin.

Example:
  create-quantum-state "superposition"
  perform-measurement 0
  get-measurement 0`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "open script", err)
				}
				defer file.Close()
				in = file
			}
			return runScript(opts, in, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print call metrics after the script")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "print store events as they happen")

	return cmd
}

func runScript(opts *RunOptions, in io.Reader, cmd *cobra.Command) error {
	cfg := opts.Config()
	formatter := &OutputFormatter{
		Format:    cfg.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   cfg.Verbose,
	}

	space := qstore.NewSpace(cfg)
	defer space.Close()
	dispatcher := qstore.NewDispatcher(space)

	var events <-chan qstore.Event
	if opts.Watch {
		events = space.Events.Subscribe("cli", watchBuffer)
	}

	failed := 0
	scanner := bufio.NewScanner(in)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		words, err := shellquote.Split(text)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("line %d", line), err)
		}
		if len(words) == 0 {
			continue
		}

		args := make([]any, len(words)-1)
		for i, word := range words[1:] {
			args[i] = word
		}

		formatter.VerboseLog("line %d: %s %v", line, words[0], words[1:])

		result := dispatcher.Call(words[0], args...)
		if !result.Success() {
			failed++
		}

		if err := formatter.Result(line, words[0], result); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}

		if err := drainEvents(formatter, events); err != nil {
			return WrapExitError(ExitCommandError, "write events", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "read script", err)
	}

	if opts.Metrics {
		if err := writeMetrics(formatter, space.Metrics.ExportMetrics()); err != nil {
			return WrapExitError(ExitCommandError, "write metrics", err)
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d call(s) failed", failed))
	}
	return nil
}

// watchBuffer covers the events one call can publish.
const watchBuffer = 16

// drainEvents writes whatever is already queued on events without waiting.
func drainEvents(formatter *OutputFormatter, events <-chan qstore.Event) error {
	if events == nil {
		return nil
	}

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := formatter.Event(event); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func writeMetrics(formatter *OutputFormatter, metrics map[string]interface{}) error {
	w := formatter.ErrWriter
	if w == nil {
		w = formatter.Writer
	}

	keys := make([]string, 0, len(metrics))
	for key := range metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "%s=%v\n", key, metrics[key]); err != nil {
			return err
		}
	}
	return nil
}
