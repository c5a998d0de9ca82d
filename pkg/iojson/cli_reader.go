package iojson

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned when neither a file nor piped stdin is available.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f flag or pipe input")

// Input is a command input that comes from a --file flag or from stdin.
type Input struct {
	path  string
	stdin *os.File
}

// Flag returns the --file flag bound to the input.
func (in *Input) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to read input from (reads from stdin if not provided)",
		Destination: &in.path,
	}
}

// Open returns the input stream. Reading from an interactive terminal is
// refused.
func (in *Input) Open() (io.ReadCloser, error) {
	if in.path != "" {
		f, err := os.Open(in.path)
		if err != nil {
			return nil, fmt.Errorf("open file: %w", err)
		}
		return f, nil
	}

	stdin := in.stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return nil, ErrNoInput
	}
	return io.NopCloser(stdin), nil
}

// ReadJSON decodes a single JSON value from the input.
func ReadJSON[T any](in *Input) (T, error) {
	var out T

	r, err := in.Open()
	if err != nil {
		return out, err
	}
	defer func() { _ = r.Close() }()

	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, fmt.Errorf("decode JSON: %w", err)
	}
	return out, nil
}

// ReadLines returns every line of the input without line terminators.
func ReadLines(in *Input) ([]string, error) {
	r, err := in.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
