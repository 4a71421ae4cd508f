package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var errNoInput = errors.New("no input")

// GetSimpleText prints a prompt to w and reads one trimmed line from scanner.
func GetSimpleText(scanner *bufio.Scanner, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// GetPassword reads a password from the terminal fd without echo. The caller
// should wipe the result.
func GetPassword(fd int, prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// parseYesNo accepts y/yes/n/no in any case; empty input gives def.
func parseYesNo(s string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("answer y or n, got %q", s)
}

// parsePosition converts a 1-based list position to a 0-based index.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("not a list position: %q", s)
	}
	return n - 1, nil
}

// password reads without echo on a terminal and as a plain line otherwise.
func (a *App) password(prompt string) ([]byte, error) {
	if a.ttyFd >= 0 {
		return getPassword(a.ttyFd, prompt, a.out)
	}
	s, err := a.ask(prompt)
	return []byte(s), err
}

func (a *App) askYesNo(prompt string, def bool) (bool, error) {
	answer, err := a.ask(prompt + " (y/n)")
	if err != nil {
		return false, err
	}
	return parseYesNo(answer, def)
}

// argOrAsk returns args[0] when present, otherwise prompts for it.
func (a *App) argOrAsk(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return a.ask(prompt)
}
