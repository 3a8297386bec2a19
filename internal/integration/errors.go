package integration

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies integration failures for the HTTP layer.
type Kind int

const (
	KindInfrastructure Kind = iota
	KindProviderDenied
	KindStateMismatch
	KindTokenExchangeFailed
	KindCredentialsNotFound
	KindItemFetchFailed
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindProviderDenied:
		return "ProviderDenied"
	case KindStateMismatch:
		return "StateMismatch"
	case KindTokenExchangeFailed:
		return "TokenExchangeFailed"
	case KindCredentialsNotFound:
		return "CredentialsNotFound"
	case KindItemFetchFailed:
		return "ItemFetchFailed"
	case KindInvalidRequest:
		return "InvalidRequest"
	default:
		return "Infrastructure"
	}
}

// Sentinels for errors.Is; any *Error of the same kind matches.
var (
	ErrProviderDenied      = &Error{Kind: KindProviderDenied}
	ErrStateMismatch       = &Error{Kind: KindStateMismatch}
	ErrTokenExchangeFailed = &Error{Kind: KindTokenExchangeFailed}
	ErrCredentialsNotFound = &Error{Kind: KindCredentialsNotFound}
	ErrItemFetchFailed     = &Error{Kind: KindItemFetchFailed}
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrInfrastructure      = &Error{Kind: KindInfrastructure}
)

// Error is a classified integration failure.
type Error struct {
	Kind     Kind
	Provider string
	// Status is the upstream HTTP status when the provider answered.
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// HTTPStatus is the status code returned to the caller.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindProviderDenied, KindStateMismatch, KindCredentialsNotFound, KindInvalidRequest:
		return http.StatusBadRequest
	case KindTokenExchangeFailed, KindItemFetchFailed:
		if e.Status >= 400 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to show the caller.
func (e *Error) PublicMessage() string {
	switch e.Kind {
	case KindStateMismatch:
		return "State does not match."
	case KindTokenExchangeFailed:
		return "Failed to exchange code for token"
	case KindCredentialsNotFound:
		return "No credentials found."
	case KindItemFetchFailed:
		return fmt.Sprintf("Failed to fetch %s items", e.Provider)
	case KindInfrastructure:
		return "Internal server error"
	default:
		return e.Message
	}
}

// AsError extracts an *Error from err. Unclassified errors are reported as
// infrastructure failures.
func AsError(err error) *Error {
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	return &Error{Kind: KindInfrastructure, Err: err}
}

func ProviderDenied(provider, message string) *Error {
	return &Error{Kind: KindProviderDenied, Provider: provider, Message: message}
}

func StateMismatch(provider string, err error) *Error {
	return &Error{Kind: KindStateMismatch, Provider: provider, Message: "State does not match.", Err: err}
}

func TokenExchangeFailed(provider string, status int, err error) *Error {
	return &Error{Kind: KindTokenExchangeFailed, Provider: provider, Status: status, Message: "Failed to exchange code for token", Err: err}
}

func CredentialsNotFound(provider string) *Error {
	return &Error{Kind: KindCredentialsNotFound, Provider: provider, Message: "No credentials found."}
}

func ItemFetchFailed(provider string, status int, err error) *Error {
	return &Error{Kind: KindItemFetchFailed, Provider: provider, Status: status, Message: fmt.Sprintf("Failed to fetch %s items", provider), Err: err}
}

func InvalidRequest(provider, message string) *Error {
	return &Error{Kind: KindInvalidRequest, Provider: provider, Message: message}
}

func Infrastructure(provider string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Provider: provider, Message: "Internal server error", Err: err}
}

// FetchError classifies err as ItemFetchFailed unless it already carries a kind.
func FetchError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var ie *Error
	if errors.As(err, &ie) {
		return err
	}
	return ItemFetchFailed(provider, 0, err)
}
