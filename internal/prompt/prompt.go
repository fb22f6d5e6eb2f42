// Package prompt provides interactive confirmation prompts.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Interactive reports whether stdin is a terminal. Non-interactive runs
// (pipes, CI) must not block on a prompt.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks a yes/no question on the user's terminal. Defaults to no.
func Confirm(question string) (bool, error) {
	return confirm(os.Stdin, os.Stderr, question)
}

func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprint(w, question+" [y/N]: ")

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
