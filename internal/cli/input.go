package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo; tests swap it out.
var readPassword = term.ReadPassword

// ReadLine asks a question on w and returns the trimmed answer from reader.
// A final answer without a newline before EOF still counts.
func ReadLine(reader *bufio.Reader, question string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s\n> ", question)

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret asks for a passcode on w and reads it from stdin with echo
// off. The caller owns the returned bytes and should wipe them.
func ReadSecret(w io.Writer, label string) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", label)
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return secret, nil
}
