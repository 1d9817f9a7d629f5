package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/macroscope/internal/cli/output"
	"github.com/leapstack-labs/macroscope/internal/resolve"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "macroscope> "
	replContPrompt = "       ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Build a document interactively and expand it",
		Long: `Start an interactive session. Lines you type are appended to a document;
dot-commands expand it, list its definitions or show its syntax tree.

Type .help inside the session for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}

	return cmd
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	session := newREPLSession(cmdCtx.Resolver, cmdCtx.Renderer, cmdCtx.Cfg.Recursive)

	// Setup history file (project-local)
	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "repl_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newDotCommandCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// Print welcome message
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "macroscope REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type source lines to build a document, .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if session.Handle(line) {
			break
		}
		if session.Len() > 0 {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}

	return nil
}

// replSession is the state of one REPL: the document typed so far and the
// recursion setting used by .expand.
type replSession struct {
	resolver  *resolve.Resolver
	r         *output.Renderer
	recursive bool
	lines     []string
}

func newREPLSession(resolver *resolve.Resolver, r *output.Renderer, recursive bool) *replSession {
	return &replSession{resolver: resolver, r: r, recursive: recursive}
}

// Len returns the number of lines in the document.
func (s *replSession) Len() int { return len(s.lines) }

// Document returns the document typed so far.
func (s *replSession) Document() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}

// Handle processes one input line and reports whether the session should end.
func (s *replSession) Handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ".") {
		if trimmed != "" || len(s.lines) > 0 {
			s.lines = append(s.lines, line)
		}
		return false
	}
	return s.handleDotCommand(trimmed)
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		s.r.Println(replHelp)

	case ".expand":
		s.run(func(res *resolve.Result) error {
			return s.r.Report(res, output.ReportOptions{Explain: true})
		})

	case ".rules":
		s.run(s.r.Rules)

	case ".dump":
		s.run(s.r.Dump)

	case ".show":
		if len(s.lines) == 0 {
			s.r.Muted("(empty document)")
			return false
		}
		s.r.Printf("%s", s.Document())

	case ".recursive":
		if len(parts) < 2 {
			s.r.Println(fmt.Sprintf("recursive is %s", onOff(s.recursive)))
			return false
		}
		switch strings.ToLower(parts[1]) {
		case "on", "true", "1":
			s.recursive = true
		case "off", "false", "0":
			s.recursive = false
		default:
			s.r.Error("Usage: .recursive on|off")
			return false
		}
		s.r.Success("recursive " + onOff(s.recursive))

	case ".reset":
		s.lines = nil
		s.r.Success("document cleared")

	default:
		s.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (s *replSession) run(render func(*resolve.Result) error) {
	res, err := s.resolver.Resolve(s.Document(), s.recursive)
	if err == nil {
		err = render(res)
	}
	if err != nil {
		s.r.Error(err.Error())
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

const replHelp = `
Commands:
  .help               Show this help message
  .expand             Expand the document and show the report
  .rules              List the macro_rules! definitions of the document
  .dump               Show the syntax tree of the document
  .show               Print the document
  .recursive [on|off] Show or set recursive expansion
  .reset              Clear the document
  .quit / .exit       Exit the REPL

Tips:
  - Any line not starting with '.' is appended to the document
  - Use arrow keys to navigate history
  - Tab completion works for dot-commands`

// newDotCommandCompleter creates a readline completer for dot-commands.
func newDotCommandCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".expand"),
		readline.PcItem(".rules"),
		readline.PcItem(".dump"),
		readline.PcItem(".show"),
		readline.PcItem(".recursive",
			readline.PcItem("on"),
			readline.PcItem("off"),
		),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
