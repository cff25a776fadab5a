package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
)

// nudger is a backend that can simulate a change made outside the enforcer.
type nudger interface {
	Nudge(stream domain.Stream, value int)
}

// drift is set while the shell hosts a backend that can be nudged.
var drift nudger

func newShellCmd() *cobra.Command {
	var (
		prompt string
		remote bool
	)
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell running subcommands against an in-process enforcer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				return runInteractiveShell(prompt)
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- a.run(ctx, false) }()

			local = a.panel
			drift, _ = a.audio.(nudger)
			defer func() {
				local, drift = nil, nil
				cancel()
				if err := <-done; err != nil {
					logging.Warnf("shell enforcer: %v", err)
				}
			}()
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "volumelockr> ", "shell prompt")
	cmd.Flags().BoolVar(&remote, "remote", false, "send commands to the running daemon instead")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "volumelockr-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	fmt.Println("Interactive shell. 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case "log":
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		case "shell", "serve", "daemon":
			fmt.Printf("%s is not available inside the shell.\n", tokens[0])
			continue
		}

		verbosity = sessionVerbosity
		if err := executeArgs(tokens); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		sessionVerbosity = verbosity
	}
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	// Registering flags resets the package vars; carry the session's over.
	path, v := cfgPath, verbosity
	root := NewRootCmd()
	cfgPath, verbosity = path, v
	root.SetArgs(args)
	root.SilenceErrors = true
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "error|warn|info|debug|trace")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func handleShellNudge(args []string, n nudger) error {
	if n == nil {
		return errors.New("only the in-process memory backend can be nudged")
	}
	if len(args) != 2 {
		return errors.New("usage: nudge <stream> <value>")
	}
	stream, err := domain.ParseStream(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad value %q", args[1])
	}
	n.Nudge(stream, value)
	fmt.Printf("%s moved to %d outside the enforcer\n", stream, value)
	return nil
}

func printShellHelp() {
	fmt.Println(`Examples:
  status                          # list streams, locks and enforcer state
  lock media --lower 5 --upper 10 # lock media to [5, 10]
  lock ring --from 0.2 --to 0.6   # lock ring to a fraction of its max
  unlock media                    # release the media lock
  set media --value 12            # set a volume (reconciled with its lock)
  mode silent                     # change the ringer mode
  protect on                      # disable the controls
  nudge media 15                  # simulate another app changing a volume (memory backend)
  log -vv                         # more verbose logging
  log --show                      # show the current log level
  exit / quit                     # leave the shell`)
}
