package infra

import (
	"errors"
	"fmt"
)

var (
	ErrTimeout           = errors.New("timeout error")
	ErrNetwork           = errors.New("network error")
	ErrUnexpectedStatus  = errors.New("unexpected status")
	ErrMalformedResponse = errors.New("malformed response")
)

func NewTimeoutError(details string) error {
	return fmt.Errorf("%w: %s", ErrTimeout, details)
}

func NewNetworkError(details string) error {
	return fmt.Errorf("%w: %s", ErrNetwork, details)
}

func NewUnexpectedStatusError(status int, details string) error {
	return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, status, details)
}

func NewMalformedResponseError(details string) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, details)
}

// IsTransient reports whether err is a timeout or a network/5xx failure, as opposed
// to the inventory answering with something the client does not understand.
func IsTransient(err error) bool {
	return err != nil && (errors.Is(err, ErrTimeout) || errors.Is(err, ErrNetwork))
}
