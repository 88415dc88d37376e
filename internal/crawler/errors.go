package crawler

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyURL is returned when the seed URL is blank.
	ErrEmptyURL = errors.New("the given URL is empty")
	// ErrInvalidURL is returned when the seed URL does not look like a URL.
	ErrInvalidURL = errors.New("the given URL is not valid")
	// ErrUnreachable is returned when the seed does not answer with 200 OK.
	ErrUnreachable = errors.New("the given URL is unreachable")
	// ErrNotHTML is returned by fetchers for responses that are not HTML.
	ErrNotHTML = errors.New("response is not an HTML document")
)

// ErrorKind classifies fatal pre-traversal failures.
type ErrorKind string

// Kinds of CrawlError.
const (
	KindValidation  ErrorKind = "validation"
	KindUnreachable ErrorKind = "unreachable"
)

// CrawlError aborts a scan before any page is traversed.
type CrawlError struct {
	Kind ErrorKind
	URL  string
	Err  error
}

func (e *CrawlError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error for %q: %v", e.Kind, e.URL, e.Err)
}

func (e *CrawlError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a CrawlError of KindValidation.
func IsValidation(err error) bool {
	var cerr *CrawlError
	return errors.As(err, &cerr) && cerr.Kind == KindValidation
}

// IsUnreachable reports whether err is a CrawlError of KindUnreachable.
func IsUnreachable(err error) bool {
	var cerr *CrawlError
	return errors.As(err, &cerr) && cerr.Kind == KindUnreachable
}
