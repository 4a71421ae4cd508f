// Package flatfile holds the line codec shared by the flat-file backends:
// one record per line, fields joined by common.FieldDelimiter.
package flatfile

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"github.com/dmitrijs2005/cloudvault/internal/filex"
)

// DateLayout is the textual timestamp layout of file records.
const DateLayout = time.DateTime

// Join encodes fields as one line without the trailing newline.
func Join(fields ...string) string {
	return strings.Join(fields, common.FieldDelimiter)
}

// Split decodes a line and checks it has exactly want fields.
func Split(line string, want int) ([]string, error) {
	fields := strings.Split(line, common.FieldDelimiter)
	if len(fields) != want {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", common.ErrCorrupt, want, len(fields))
	}
	return fields, nil
}

func FormatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func ParseBool(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: bad flag %q", common.ErrCorrupt, s)
}

// FormatFloat uses the shortest representation that parses back exactly.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", common.ErrCorrupt, s)
	}
	return f, nil
}

func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: bad integer %q", common.ErrCorrupt, s)
	}
	return n, nil
}

// FormatEpoch writes t as unix seconds; the zero time is written as 0.
func FormatEpoch(t time.Time) string {
	return strconv.FormatInt(ToEpoch(t), 10)
}

func ParseEpoch(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad timestamp %q", common.ErrCorrupt, s)
	}
	return FromEpoch(n), nil
}

// ToEpoch and FromEpoch are the epoch mapping also used by the SQL backends.
func ToEpoch(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func FromEpoch(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", common.ErrCorrupt, s)
	}
	return t, nil
}

// ReadLines returns the non-empty lines of path. A missing file yields no
// lines and no error.
func ReadLines(path string) ([]string, error) {
	data, ok, err := filex.ReadFileIfExists(path)
	if err != nil || !ok {
		return nil, err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		l = strings.TrimSuffix(l, "\r")
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// WriteLines atomically replaces path with lines, one per line.
func WriteLines(path string, lines []string) error {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return filex.WriteFileAtomic(path, buf.Bytes(), 0o600)
}
