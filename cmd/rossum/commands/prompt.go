package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/rossum/internal/constants"
)

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		cmd:    cmd,
		reader: bufio.NewReader(cmd.InOrStdin()),
		out:    cmd.OutOrStdout(),
	}
}

// line asks for a value, returning fallback for an empty answer.
func (p *prompter) line(label, fallback string) (string, error) {
	if fallback != "" {
		_, _ = fmt.Fprintf(p.out, "%s [%s]: ", label, fallback)
	} else {
		_, _ = fmt.Fprintf(p.out, "%s: ", label)
	}

	answer, err := p.reader.ReadString('\n')
	if err != nil && answer == "" {
		if errors.Is(err, io.EOF) {
			return fallback, nil
		}

		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fallback, nil
	}

	return answer, nil
}

// secret asks for a value without echoing it on a terminal.
func (p *prompter) secret(label string) (string, error) {
	file, ok := stdinFile(p.cmd)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return p.line(label, "")
	}

	_, _ = fmt.Fprintf(p.out, "%s: ", label)

	value, err := term.ReadPassword(int(file.Fd()))

	_, _ = fmt.Fprintln(p.out)

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}

	return string(value), nil
}

// newPassword asks for a password twice and checks both entries match.
func (p *prompter) newPassword() (string, error) {
	password, err := p.secret("Password")
	if err != nil {
		return "", err
	}

	if password == "" {
		return "", constants.ErrEmptyPassword
	}

	repeated, err := p.secret("Repeat for confirmation")
	if err != nil {
		return "", err
	}

	if password != repeated {
		return "", constants.ErrPasswordsDoNotMatch
	}

	return password, nil
}
