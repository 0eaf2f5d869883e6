package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

// Command completer for readline
var completer = readline.NewPrefixCompleter(
	readline.PcItem("new"),
	readline.PcItem("append"),
	readline.PcItem("set"),
	readline.PcItem("get"),
	readline.PcItem("dump"),
	readline.PcItem("info"),
	readline.PcItem("events"),
	readline.PcItem("release"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

func runREPL(s *session) error {
	fmt.Println("intarray shell. Enter help for usage hints.")

	historyFile := filepath.Join(os.TempDir(), ".intarray_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "intarray> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	for {
		if s.arr != nil {
			rl.SetPrompt(fmt.Sprintf("intarray:%s[%d/%d]> ", s.arr.Handle(), s.arr.Len(), s.arr.Cap()))
		} else {
			rl.SetPrompt("intarray> ")
		}

		line, readErr := rl.Readline()
		if readErr != nil {
			if readErr == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if readErr == io.EOF {
				fmt.Println("Goodbye!")
				return nil
			}
			return fmt.Errorf("read input: %w", readErr)
		}

		out, err := s.exec(line)
		if stderrors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}
