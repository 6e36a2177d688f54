package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

func isTerminal() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// readPasswordSecure prompts on stderr and reads a password from stdin
// without echo when stdin is a terminal, or as a plain line otherwise
// (scripts piping a password in).
func readPasswordSecure(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	if !isTerminal() {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading password: %w", err)
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return pw, nil
}

// readPasswordInteractive prompts twice when confirm is set (password,
// then confirmation, which must match), or once otherwise.
func readPasswordInteractive(confirm bool) ([]byte, error) {
	password, err := readPasswordSecure("Password: ")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, jczerrors.ErrInvalidPassword
	}

	if confirm {
		again, err := readPasswordSecure("Confirm password: ")
		if err != nil {
			return nil, err
		}
		if string(again) != string(password) {
			return nil, jczerrors.NewValidationError("password", "passwords do not match")
		}
	}
	return password, nil
}
