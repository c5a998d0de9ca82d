// Package timefmt compiles moment-style date/time patterns such as "HH:mm"
// and "YYYY-MM-DD" into strict parsers and formatters.
//
// Supported tokens:
//
//	YYYY YY        year
//	MMMM MMM MM M  month (name, abbreviation, padded, unpadded)
//	DD D           day of month
//	dddd ddd       weekday name and abbreviation
//	HH H           hour, 24h clock
//	hh h           hour, 12h clock
//	mm m           minute
//	ss s           second
//	A a            AM/PM, am/pm
//
// Text inside square brackets is copied literally, as is any non-letter.
package timefmt

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrInvalidDateTimeFormat is returned when a value does not strictly
	// match its pattern.
	ErrInvalidDateTimeFormat = errors.New("invalid date/time format")
	// ErrInvalidPattern is returned when a pattern cannot be compiled.
	ErrInvalidPattern = errors.New("invalid date/time pattern")
)

// FormatError describes a value that failed strict parsing.
type FormatError struct {
	Value   string
	Pattern string
	Reason  string
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("invalid date/time %q: expected format %q", e.Value, e.Pattern)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidDateTimeFormat
}

type kind int

const (
	kindLiteral kind = iota
	kindYear4
	kindYear2
	kindMonthName
	kindMonthAbbr
	kindMonth2
	kindMonth
	kindDay2
	kindDay
	kindWeekdayName
	kindWeekdayAbbr
	kindHour24Pad
	kindHour24
	kindHour12Pad
	kindHour12
	kindMinute2
	kindMinute
	kindSecond2
	kindSecond
	kindMeridiemUpper
	kindMeridiemLower
)

// tokenTable is ordered so that longer tokens win over their prefixes.
var tokenTable = []struct {
	text   string
	kind   kind
	strict string
	loose  string
}{
	{"YYYY", kindYear4, `\d{4}`, `\d+`},
	{"YY", kindYear2, `\d{2}`, `\d+`},
	{"MMMM", kindMonthName, `\p{L}+`, `\p{L}+`},
	{"MMM", kindMonthAbbr, `\p{L}{3}`, `\p{L}+`},
	{"MM", kindMonth2, `\d{2}`, `\d+`},
	{"M", kindMonth, `\d{1,2}`, `\d+`},
	{"DD", kindDay2, `\d{2}`, `\d+`},
	{"D", kindDay, `\d{1,2}`, `\d+`},
	{"dddd", kindWeekdayName, `\p{L}+`, `\p{L}+`},
	{"ddd", kindWeekdayAbbr, `\p{L}{3}`, `\p{L}+`},
	{"HH", kindHour24Pad, `\d{2}`, `\d+`},
	{"H", kindHour24, `\d{1,2}`, `\d+`},
	{"hh", kindHour12Pad, `\d{2}`, `\d+`},
	{"h", kindHour12, `\d{1,2}`, `\d+`},
	{"mm", kindMinute2, `\d{2}`, `\d+`},
	{"m", kindMinute, `\d{1,2}`, `\d+`},
	{"ss", kindSecond2, `\d{2}`, `\d+`},
	{"s", kindSecond, `\d{1,2}`, `\d+`},
	{"A", kindMeridiemUpper, `AM|PM`, `[AaPp][Mm]`},
	{"a", kindMeridiemLower, `am|pm`, `[AaPp][Mm]`},
}

type token struct {
	kind    kind
	literal string
	strict  string
	loose   string
}

// Layout is a compiled pattern. It is immutable and safe for concurrent use.
type Layout struct {
	pattern string
	tokens  []token
	strict  *regexp.Regexp
	syntax  string
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Layout {
	l, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return l
}

// Compile parses a moment-style pattern.
func Compile(pattern string) (*Layout, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: pattern is empty", ErrInvalidPattern)
	}

	tokens, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}

	var strict, syntax strings.Builder
	strict.WriteString("^")
	for _, tok := range tokens {
		if tok.kind == kindLiteral {
			quoted := regexp.QuoteMeta(tok.literal)
			strict.WriteString(quoted)
			syntax.WriteString(quoted)
			continue
		}
		strict.WriteString("(" + tok.strict + ")")
		syntax.WriteString("(?:" + tok.loose + ")")
	}
	strict.WriteString("$")

	return &Layout{
		pattern: pattern,
		tokens:  tokens,
		strict:  regexp.MustCompile(strict.String()),
		syntax:  syntax.String(),
	}, nil
}

func tokenize(pattern string) ([]token, error) {
	var tokens []token
	appendLiteral := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].kind == kindLiteral {
			tokens[n-1].literal += s
			return
		}
		tokens = append(tokens, token{kind: kindLiteral, literal: s})
	}

	rest := pattern
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated literal in %q", ErrInvalidPattern, pattern)
			}
			if end > 1 {
				appendLiteral(rest[1:end])
			}
			rest = rest[end+1:]
			continue
		}

		matched := false
		for _, entry := range tokenTable {
			if strings.HasPrefix(rest, entry.text) {
				tokens = append(tokens, token{kind: entry.kind, strict: entry.strict, loose: entry.loose})
				rest = rest[len(entry.text):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		r := []rune(rest)[0]
		if unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: unsupported token %q in %q", ErrInvalidPattern, string(r), pattern)
		}
		appendLiteral(string(r))
		rest = rest[len(string(r)):]
	}

	return tokens, nil
}

// Pattern returns the source pattern.
func (l *Layout) Pattern() string {
	return l.pattern
}

// Syntax returns a regular expression fragment, without capture groups or
// anchors, that matches values shaped like the pattern. It is looser than
// Parse so that malformed values can be reported as format errors.
func (l *Layout) Syntax() string {
	return l.syntax
}

// HasDate reports whether the pattern contains any calendar date token.
func (l *Layout) HasDate() bool {
	for _, tok := range l.tokens {
		switch tok.kind {
		case kindYear4, kindYear2, kindMonthName, kindMonthAbbr, kindMonth2, kindMonth, kindDay2, kindDay:
			return true
		}
	}
	return false
}

// Format renders t using the pattern.
func (l *Layout) Format(t time.Time) string {
	var b strings.Builder
	for _, tok := range l.tokens {
		switch tok.kind {
		case kindLiteral:
			b.WriteString(tok.literal)
		case kindYear4:
			fmt.Fprintf(&b, "%04d", t.Year())
		case kindYear2:
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case kindMonthName:
			b.WriteString(t.Month().String())
		case kindMonthAbbr:
			b.WriteString(t.Month().String()[:3])
		case kindMonth2:
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case kindMonth:
			b.WriteString(strconv.Itoa(int(t.Month())))
		case kindDay2:
			fmt.Fprintf(&b, "%02d", t.Day())
		case kindDay:
			b.WriteString(strconv.Itoa(t.Day()))
		case kindWeekdayName:
			b.WriteString(t.Weekday().String())
		case kindWeekdayAbbr:
			b.WriteString(t.Weekday().String()[:3])
		case kindHour24Pad:
			fmt.Fprintf(&b, "%02d", t.Hour())
		case kindHour24:
			b.WriteString(strconv.Itoa(t.Hour()))
		case kindHour12Pad:
			fmt.Fprintf(&b, "%02d", hour12(t.Hour()))
		case kindHour12:
			b.WriteString(strconv.Itoa(hour12(t.Hour())))
		case kindMinute2:
			fmt.Fprintf(&b, "%02d", t.Minute())
		case kindMinute:
			b.WriteString(strconv.Itoa(t.Minute()))
		case kindSecond2:
			fmt.Fprintf(&b, "%02d", t.Second())
		case kindSecond:
			b.WriteString(strconv.Itoa(t.Second()))
		case kindMeridiemUpper:
			b.WriteString(meridiem(t.Hour()))
		case kindMeridiemLower:
			b.WriteString(strings.ToLower(meridiem(t.Hour())))
		}
	}
	return b.String()
}

// Parse strictly parses value. Date fields absent from the pattern are taken
// from ref, absent time fields are zero, and the result is in ref's location.
func (l *Layout) Parse(value string, ref time.Time) (time.Time, error) {
	m := l.strict.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, &FormatError{Value: value, Pattern: l.pattern}
	}

	var (
		year, month, day     = ref.Year(), int(ref.Month()), ref.Day()
		hour, minute, second int
		hour12Value          = -1
		pm                   *bool
		weekday              = -1
	)

	fail := func(reason string) (time.Time, error) {
		return time.Time{}, &FormatError{Value: value, Pattern: l.pattern, Reason: reason}
	}

	group := 1
	for _, tok := range l.tokens {
		if tok.kind == kindLiteral {
			continue
		}
		raw := m[group]
		group++

		switch tok.kind {
		case kindYear4:
			year = atoi(raw)
		case kindYear2:
			year = expandYear(atoi(raw))
		case kindMonthName, kindMonthAbbr:
			mo, ok := lookupMonth(raw, tok.kind == kindMonthAbbr)
			if !ok {
				return fail("unknown month " + raw)
			}
			month = mo
		case kindMonth2, kindMonth:
			month = atoi(raw)
		case kindDay2, kindDay:
			day = atoi(raw)
		case kindWeekdayName, kindWeekdayAbbr:
			wd, ok := lookupWeekday(raw, tok.kind == kindWeekdayAbbr)
			if !ok {
				return fail("unknown weekday " + raw)
			}
			weekday = wd
		case kindHour24Pad, kindHour24:
			hour = atoi(raw)
			if hour > 23 {
				return fail("hour out of range")
			}
		case kindHour12Pad, kindHour12:
			hour12Value = atoi(raw)
			if hour12Value < 1 || hour12Value > 12 {
				return fail("hour out of range")
			}
		case kindMinute2, kindMinute:
			minute = atoi(raw)
			if minute > 59 {
				return fail("minute out of range")
			}
		case kindSecond2, kindSecond:
			second = atoi(raw)
			if second > 59 {
				return fail("second out of range")
			}
		case kindMeridiemUpper, kindMeridiemLower:
			isPM := strings.EqualFold(raw, "pm")
			pm = &isPM
		}
	}

	if hour12Value >= 0 {
		hour = hour12Value % 12
		if pm != nil && *pm {
			hour += 12
		}
	}

	if month < 1 || month > 12 {
		return fail("month out of range")
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return fail("day out of range")
	}

	loc := ref.Location()
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	if weekday >= 0 && int(t.Weekday()) != weekday {
		return fail("weekday does not match date")
	}

	return t, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// expandYear follows the common two-digit convention: 69-99 are 1900s.
func expandYear(yy int) int {
	if yy > 68 {
		return 1900 + yy
	}
	return 2000 + yy
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func meridiem(h int) string {
	if h < 12 {
		return "AM"
	}
	return "PM"
}

func lookupMonth(s string, abbr bool) (int, bool) {
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if abbr {
			name = name[:3]
		}
		if strings.EqualFold(name, s) {
			return int(m), true
		}
	}
	return 0, false
}

func lookupWeekday(s string, abbr bool) (int, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if abbr {
			name = name[:3]
		}
		if strings.EqualFold(name, s) {
			return int(d), true
		}
	}
	return 0, false
}
