package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/valdisz/PyToJs/pkg/frontend"
)

const (
	historyFile = ".pytojs_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Translate Python interactively",
		Long: "Read Python statements and print their JavaScript translation.\n" +
			"Blocks continue until a blank line. Type :quit or press Ctrl-D to exit.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl(cmd)
		},
	}
}

func (a *app) repl(cmd *cobra.Command) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	for {
		src, ok := readStatement(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" {
			return nil
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		res, err := a.pipeline.Translate(cmd.Context(), stdinName, []byte(src+"\n"))
		if err != nil {
			a.stderr.Error("", err)
			continue
		}
		a.stderr.Diagnostics("", res.Diagnostics)
		if res.OK {
			fmt.Fprint(out, res.Output)
		}
	}
}

// readStatement prompts until the buffered input is a complete Python
// statement. It returns false on EOF.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if frontend.IsComplete(b.String()) {
			return b.String(), true
		}
	}
}
