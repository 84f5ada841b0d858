package provider

import "fmt"

// ErrorKind classifies provider-integration failures so callers can decide
// whether an operation is retryable without string matching.
type ErrorKind int

const (
	// KindTransport covers network failures and timeouts. The whole
	// operation may be retried by the caller.
	KindTransport ErrorKind = iota
	// KindAuth means the access token was rejected. The client retries
	// once internally with a forced refresh; a surfaced KindAuth is
	// terminal for that call.
	KindAuth
	// KindProvider is a business-level rejection (bad credentials,
	// unsupported organization). Never retried automatically.
	KindProvider
	// KindEmpty means the provider returned an empty body.
	KindEmpty
	// KindMalformed means the body could not be interpreted as JSON even
	// after percent-decoding.
	KindMalformed
	// KindEncryption is a local failure preparing a request. Nothing was
	// sent.
	KindEncryption
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindProvider:
		return "provider"
	case KindEmpty:
		return "empty_response"
	case KindMalformed:
		return "malformed_response"
	case KindEncryption:
		return "encryption"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by every provider operation. Code is
// the provider's result code when one was present (e.g. "CF-12100").
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider %s error [%s]: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("provider %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err is a provider *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	pe, ok := err.(*Error)
	return ok && pe.Kind == kind
}
