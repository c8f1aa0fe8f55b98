package analytics

import (
	"errors"
	"fmt"
)

// Kind classifies a failed fetch.
type Kind int

const (
	// TransportFailure means the provider call did not complete
	// (network, auth, quota, provider-side error).
	TransportFailure Kind = iota + 1
	// MalformedResponse means the call completed but the payload did not
	// satisfy the report schema.
	MalformedResponse
)

func (k Kind) String() string {
	switch k {
	case TransportFailure:
		return "transport failure"
	case MalformedResponse:
		return "malformed response"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ProviderError is the only error FetchReport returns.
type ProviderError struct {
	Kind Kind
	Err  error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return "analytics: " + e.Kind.String()
	}
	return fmt.Sprintf("analytics: %s: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// KindOf reports the failure kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}

func IsTransport(err error) bool {
	k, ok := KindOf(err)
	return ok && k == TransportFailure
}

func IsMalformed(err error) bool {
	k, ok := KindOf(err)
	return ok && k == MalformedResponse
}
