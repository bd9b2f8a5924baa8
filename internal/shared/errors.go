package shared

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Error string

// Implement the error interface
func (e Error) Error() string { return string(e) }

//------------
// Definitions
//------------

// repository errors
const ErrUserNotFound = Error("user not found")
const ErrFolderNotFound = Error("folder not found")
const ErrVideoNotFound = Error("video not found")
const ErrInvalidSortType = Error("invalid sort type")

// ErrorKind classifies a failure crossing the command boundary.
// The wire contract is still a bare "<Title>: <Description>" string, so the
// kind only exists internally; rendering happens at the boundary.
type ErrorKind string

const (
	KindNotFound    ErrorKind = "NotFound"
	KindUnreachable ErrorKind = "Unreachable"
	KindInvalid     ErrorKind = "Invalid"
	KindUnknown     ErrorKind = "Unknown"
)

// CommandError is the tagged form of every failure a command can produce.
// Title carries the legacy wire title (e.g. "OsFolders Not Found") so clients
// that sniff message prefixes keep working.
type CommandError struct {
	Kind   ErrorKind
	Title  string
	Detail string
	err    error
}

func NewCommandError(kind ErrorKind, title, detail string) *CommandError {
	return &CommandError{Kind: kind, Title: title, Detail: detail}
}

// WrapCommandError attaches a kind and wire title to an underlying error.
func WrapCommandError(kind ErrorKind, title string, err error) *CommandError {
	return &CommandError{Kind: kind, Title: title, Detail: err.Error(), err: err}
}

func (e *CommandError) Error() string {
	if e.Title == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *CommandError) Unwrap() error { return e.err }

// KindOf reports the ErrorKind of err, defaulting to Unknown.
func KindOf(err error) ErrorKind {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrFolderNotFound) || errors.Is(err, ErrVideoNotFound) {
		return KindNotFound
	}
	if errors.Is(err, ErrInvalidSortType) {
		return KindInvalid
	}
	return KindUnknown
}

// drivePathRe matches a Windows-style drive prefix ("C:\" or "C:/").
var drivePathRe = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// SplitErrorString splits a "<Title>: <Description>" wire error into its two
// halves. Titles that are Windows paths contain colons themselves, so the
// drive-prefix case splits on the last ": " instead of the first colon.
func SplitErrorString(s string) (title, desc string) {
	if drivePathRe.MatchString(s) {
		if i := strings.LastIndex(s, ": "); i >= 0 {
			return s[:i], strings.TrimSpace(s[i+1:])
		}
		return s, ""
	}
	if i := strings.Index(s, ":"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// ParseErrorString is the inverse of CommandError.Error for wire strings
// received from the backend. The kind is recovered from well-known titles.
func ParseErrorString(s string) *CommandError {
	title, desc := SplitErrorString(s)
	kind := KindUnknown
	switch {
	case strings.HasSuffix(title, "Not Found"):
		kind = KindNotFound
	case strings.Contains(title, "was not found"):
		kind = KindUnreachable
	case strings.Contains(title, "Invalid"):
		kind = KindInvalid
	case strings.Contains(title, "Unreachable"):
		kind = KindUnreachable
	}
	return &CommandError{Kind: kind, Title: title, Detail: desc}
}
