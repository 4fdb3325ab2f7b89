package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/psmak4/reprint-ui/internal/httpx"
)

// Kind classifies a failed call. Views branch on the kind, never on
// status codes or error strings.
type Kind int

const (
	// KindNetwork covers transport failures, timeouts and 429/5xx
	// answers. The only retryable kind.
	KindNetwork Kind = iota
	// KindValidation is a rejected input; Details carries the
	// field-level messages verbatim.
	KindValidation
	// KindAuth is a missing, expired or insufficient credential.
	KindAuth
	// KindNotFound is a missing entity.
	KindNotFound
	// KindConflict is a state conflict, e.g. a moderation decision on a
	// review that already left pending.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details []httpx.ErrorDetail
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same call can succeed.
func (e *Error) Retryable() bool { return e.Kind == KindNetwork }

func netError(message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Message: message, Err: cause}
}

func kindOf(err error) (Kind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}

func IsNetwork(err error) bool { k, ok := kindOf(err); return ok && k == KindNetwork }

func IsValidation(err error) bool { k, ok := kindOf(err); return ok && k == KindValidation }

func IsAuth(err error) bool { k, ok := kindOf(err); return ok && k == KindAuth }

func IsNotFound(err error) bool { k, ok := kindOf(err); return ok && k == KindNotFound }

func IsConflict(err error) bool { k, ok := kindOf(err); return ok && k == KindConflict }

func Retryable(err error) bool { return IsNetwork(err) }

func kindForStatus(statusCode int) Kind {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindNetwork
	}
}
