package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single trimmed line from
// reader. A final line without newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a password from the terminal without echo.
// The caller should clear the returned slice when done.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetOptionalInt reads an integer; an empty answer yields nil.
func GetOptionalInt(reader *bufio.Reader, prompt string, w io.Writer) (*int64, error) {
	s, err := GetSimpleText(reader, prompt+" (optional)", w)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &v, nil
}

// GetOptionalText reads a line; an empty answer yields nil.
func GetOptionalText(reader *bufio.Reader, prompt string, w io.Writer) (*string, error) {
	s, err := GetSimpleText(reader, prompt+" (optional)", w)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}
