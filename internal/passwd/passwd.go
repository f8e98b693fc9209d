// Package passwd implements the fitkeeper-passwd operator tool: it reads a
// password without echo and prints its bcrypt hash, ready to be written
// into the users table.
package passwd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/fitkeeper/internal/server/auth"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

var (
	ErrEmptyPassword = errors.New("password is empty")
	ErrMismatch      = errors.New("passwords do not match")
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// Run parses args, reads the password and writes the hash to stdout.
// Prompts go to stderr so the hash can be piped. When stdin is not a
// terminal the first line of stdin is used and no confirmation is asked.
func Run(args []string, stdin *os.File, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("fitkeeper-passwd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cost := fs.Int("b", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		pw  string
		err error
	)
	if isTerminal(int(stdin.Fd())) {
		pw, err = promptTwice(int(stdin.Fd()), stderr)
	} else {
		pw, err = readLine(stdin)
	}
	if err != nil {
		return err
	}

	hash, err := auth.NewBcryptHasher(*cost).Hash(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = fmt.Fprintln(stdout, hash)
	return err
}

func promptTwice(fd int, w io.Writer) (string, error) {
	first, err := prompt(fd, w, "Password: ")
	if err != nil {
		return "", err
	}
	second, err := prompt(fd, w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrMismatch
	}
	return first, nil
}

func prompt(fd int, w io.Writer, text string) (string, error) {
	fmt.Fprint(w, text)
	b, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", ErrEmptyPassword
	}
	return string(b), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", ErrEmptyPassword
	}
	return line, nil
}
