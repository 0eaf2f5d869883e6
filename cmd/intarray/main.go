package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/nativearray/heap"
	"github.com/wippyai/nativearray/intarray"
)

func main() {
	var (
		backend     = flag.String("backend", "linear", "Memory backend: linear (wazero memory) or mapped (mmap)")
		capacity    = flag.Uint("cap", 0, "Initial capacity in slots (0 for the default block)")
		pages       = flag.Uint("pages", 0, "Memory limit in 64KiB pages (0 for the backend default)")
		verbose     = flag.Bool("v", false, "Log allocator and block events")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		repl        = flag.Bool("repl", false, "Line-oriented shell with history")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: intarray [flags] [command ...]")
		fmt.Fprintln(os.Stderr, "       intarray -i     (interactive mode)")
		fmt.Fprintln(os.Stderr, "       intarray -repl  (shell mode)")
		fmt.Fprintln(os.Stderr, "Each positional argument is one command, e.g. intarray \"append 1 2 3\" dump")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if uint64(*capacity) > math.MaxUint32 || uint64(*pages) > math.MaxUint32 {
		fmt.Fprintln(os.Stderr, "Error: -cap and -pages must fit in 32 bits")
		os.Exit(1)
	}

	// The TUI owns the terminal, so go to the shell only when asked or when
	// stdin is a terminal and there is no script.
	tui := *interactive
	if !tui && !*repl && flag.NArg() == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		tui = true
	}

	if *verbose {
		if err := setupLogging(tui); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	s, err := newSession(ctx, *backend, uint32(*pages), uint32(*capacity))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case tui:
		err = runInteractive(s)
	case *repl:
		err = runREPL(s)
	case flag.NArg() > 0:
		err = runScript(s, flag.Args(), os.Stdout)
	default:
		err = runLines(s, os.Stdin, os.Stdout)
	}

	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging installs development loggers. In TUI mode they write to a
// file in the temp dir so the screen is not disturbed.
func setupLogging(tui bool) error {
	cfg := zap.NewDevelopmentConfig()
	if tui {
		path := filepath.Join(os.TempDir(), "intarray.log")
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	heap.SetLogger(logger.Named("heap"))
	intarray.SetLogger(logger.Named("intarray"))
	return nil
}

// runScript executes each argument as a command and stops at the first error.
func runScript(s *session, cmds []string, w io.Writer) error {
	for _, line := range cmds {
		out, err := s.exec(line)
		if stderrors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", line, err)
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
	return nil
}

// runLines executes commands read from r, one per line.
// Errors are reported inline and do not stop the run.
func runLines(s *session, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out, err := s.exec(sc.Text())
		if stderrors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(w, out)
		}
	}
	return sc.Err()
}
