package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword читает пароль из stdin (--password-stdin) или
// интерактивно из терминала без эха.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password or --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimRight(string(pwBytes), "\r\n")
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

// passwordFromFlags возвращает пароль из --password, иначе читает его через ReadPassword.
func passwordFromFlags(cmd *cobra.Command, password string, fromStdin bool) (string, error) {
	if password != "" {
		if fromStdin {
			return "", errors.New("--password and --password-stdin are mutually exclusive")
		}
		return password, nil
	}
	return ReadPassword(cmd, fromStdin)
}
