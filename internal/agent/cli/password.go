package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword читает пароль из stdin (--password-stdin) или спрашивает его
// в терминале без эха.
//
// Пароль не триммится: пробелы по краям считаются его частью.
// Убирается только завершающий перевод строки.
func readPassword(cmd *cobra.Command, fromStdin bool, prompt string) (string, error) {
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

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if len(pwBytes) == 0 {
		return "", errors.New("empty password")
	}
	return string(pwBytes), nil
}

// passwordFromFlags возвращает пароль из флага или читает его через ReadPassword.
func passwordFromFlags(cmd *cobra.Command, flagValue string, fromStdin bool, prompt string) (string, error) {
	if flagValue != "" && fromStdin {
		return "", errors.New("use either --password or --password-stdin")
	}
	if flagValue != "" {
		return flagValue, nil
	}
	return ReadPassword(cmd, fromStdin, prompt)
}
