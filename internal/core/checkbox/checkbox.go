// Package checkbox splits a markdown task line into its structural parts
// without interpreting the status symbol or the body.
package checkbox

import "regexp"

// lineRegex matches, in order: indentation, list marker, the gap before the
// checkbox, the status symbol, the gap after the checkbox and the body.
var lineRegex = regexp.MustCompile(
	`^([ \t]*)` + // indentation
		`([-*+]|[0-9]+[.)])` + // list marker (bullet or numbered)
		`( +)` +
		`\[(.)\]` + // status symbol
		`( *)` +
		`(.*)$`, // body
)

// Parts holds the pieces of a checkbox line. Concatenating them with the
// checkbox brackets reproduces the original line.
type Parts struct {
	Indentation  string
	ListMarker   string
	MarkerGap    string
	StatusSymbol string
	BodyGap      string
	Body         string
}

// Split decomposes line into its parts. ok is false when the line is not a
// checkbox task, which callers should treat as a normal outcome.
func Split(line string) (parts Parts, ok bool) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return Parts{}, false
	}

	return Parts{
		Indentation:  m[1],
		ListMarker:   m[2],
		MarkerGap:    m[3],
		StatusSymbol: m[4],
		BodyGap:      m[5],
		Body:         m[6],
	}, true
}

// IsTask reports whether line is a checkbox task line.
func IsTask(line string) bool {
	return lineRegex.MatchString(line)
}

// String joins the parts back into a line.
func (p Parts) String() string {
	return p.Indentation + p.ListMarker + p.MarkerGap + "[" + p.StatusSymbol + "]" + p.BodyGap + p.Body
}

// IsNested reports whether the line is indented under another list item.
func (p Parts) IsNested() bool {
	return p.Indentation != ""
}
