// Package document reads and rewrites text documents line by line. It is the
// host side of the task tracker: tasks are parsed from, and formatted back
// into, single lines of a document.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrLineOutOfRange is returned when a line number does not exist.
var ErrLineOutOfRange = errors.New("line out of range")

// Document is an in-memory copy of a text file split into lines. Line
// numbers are 1-based. The line ending style and the presence of a final
// newline are preserved on Save.
type Document struct {
	path            string
	perm            fs.FileMode
	lines           []string
	newline         string
	trailingNewline bool
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	d := FromBytes(data)
	d.path = path
	d.perm = info.Mode().Perm()
	return d, nil
}

// FromBytes builds a document that is not backed by a file.
func FromBytes(data []byte) *Document {
	content := string(data)

	d := &Document{newline: "\n", perm: 0o644}
	if strings.Contains(content, "\r\n") {
		d.newline = "\r\n"
	}

	if content == "" {
		return d
	}

	if strings.HasSuffix(content, d.newline) {
		d.trailingNewline = true
		content = strings.TrimSuffix(content, d.newline)
	}
	d.lines = strings.Split(content, d.newline)
	return d
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Lines returns a copy of all lines.
func (d *Document) Lines() []string {
	out := make([]string, len(d.lines))
	copy(out, d.lines)
	return out
}

// Line returns line n.
func (d *Document) Line(n int) (string, error) {
	if err := d.check(n); err != nil {
		return "", err
	}
	return d.lines[n-1], nil
}

// SetLine replaces line n.
func (d *Document) SetLine(n int, text string) error {
	if err := d.check(n); err != nil {
		return err
	}
	d.lines[n-1] = text
	return nil
}

// InsertAfter inserts text as a new line directly below line n.
func (d *Document) InsertAfter(n int, text string) error {
	if err := d.check(n); err != nil {
		return err
	}
	d.lines = append(d.lines, "")
	copy(d.lines[n+1:], d.lines[n:])
	d.lines[n] = text
	return nil
}

func (d *Document) check(n int) error {
	if n < 1 || n > len(d.lines) {
		return fmt.Errorf("%w: %d (document has %d lines)", ErrLineOutOfRange, n, len(d.lines))
	}
	return nil
}

// Bytes renders the document with its original line endings.
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(d.lines, d.newline))
	if d.trailingNewline {
		buf.WriteString(d.newline)
	}
	return buf.Bytes()
}

// Save writes the document back to its file.
func (d *Document) Save() error {
	if d.path == "" {
		return errors.New("document has no path")
	}
	return atomicWriteFile(d.path, d.Bytes(), d.perm)
}

// atomicWriteFile writes to a temporary file in the same directory and
// renames it over path.
func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d", filepath.Base(path), time.Now().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
