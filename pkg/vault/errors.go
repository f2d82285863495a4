package vault

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/benpeter/obsidian-mcp-server-sub001/pkg/obsidian"
)

// Kind is the closed set of failure classes the resolution and retrieval
// layer reports. Callers dispatch on Kind, never on raw backend payloads.
type Kind string

const (
	// KindNotFound means the resource is absent: neither the exact path
	// nor (after fallback) any case-insensitive variant exists.
	KindNotFound Kind = "not_found"

	// KindConflict means a case-insensitive resolution was ambiguous.
	// Matches lists the competing paths.
	KindConflict Kind = "conflict"

	// KindUnavailable means the backend could not be reached or failed
	// while processing the request.
	KindUnavailable Kind = "service_unavailable"
)

// Error is a classified backend failure.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Matches []string // competing paths, set for KindConflict
	Err     error    // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsNotFound reports whether err is classified as KindNotFound.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsConflict reports whether err is classified as KindConflict.
func IsConflict(err error) bool { return hasKind(err, KindConflict) }

// IsUnavailable reports whether err is classified as KindUnavailable.
func IsUnavailable(err error) bool { return hasKind(err, KindUnavailable) }

func hasKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// notFoundMarkers are substrings that identify a not-found response in
// an opaque backend message. Message-format dependent; used only when no
// tagged error is available.
var notFoundMarkers = []string{"not found", "does not exist", "404"}

// Classify maps a raw backend failure onto the closed Kind set. A tagged
// API error classifies by status code; anything opaque falls back to
// substring matching on the message, and everything unrecognized counts
// as a communication fault. Already-classified errors pass through
// unchanged.
func Classify(op string, err error) *Error {
	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}

	var apiErr *obsidian.ErrorResponse
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode == http.StatusNotFound || looksNotFound(apiErr.Message) {
			return &Error{Kind: KindNotFound, Op: op, Message: apiErr.Message, Err: err}
		}
		return &Error{Kind: KindUnavailable, Op: op, Message: apiErr.Message, Err: err}
	}

	if looksNotFound(err.Error()) {
		return &Error{Kind: KindNotFound, Op: op, Message: err.Error(), Err: err}
	}
	return &Error{Kind: KindUnavailable, Op: op, Message: err.Error(), Err: err}
}

func looksNotFound(msg string) bool {
	msg = strings.ToLower(msg)
	for _, m := range notFoundMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
