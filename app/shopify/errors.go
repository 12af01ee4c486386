package shopify

import (
	"errors"
	"fmt"
	"strings"
)

// TransportError is a network failure or a non-2xx HTTP response. The call
// never reached a well-formed API result.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	return fmt.Sprintf("transport error: HTTP %d: %s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a transport-successful response that carried top-level
// GraphQL errors instead of data.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s", strings.Join(e.Messages, "; "))
}

// UserError is one structured validation error attached to a mutation
// result, reported verbatim by the platform.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrorsError is a mutation that succeeded at the transport level but
// was rejected by the platform's validation rules.
type UserErrorsError struct {
	Errors []UserError
}

func (e *UserErrorsError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
		} else {
			msgs = append(msgs, ue.Message)
		}
	}
	return fmt.Sprintf("user errors: %s", strings.Join(msgs, "; "))
}

// IsBenignDuplicate reports whether err is a validation failure caused by
// the entity already existing under a unique constraint. Such failures are
// tolerable: the desired state is already in place.
func IsBenignDuplicate(err error) bool {
	var ue *UserErrorsError
	if !errors.As(err, &ue) {
		return false
	}

	for _, e := range ue.Errors {
		msg := strings.ToLower(e.Message)
		if strings.Contains(msg, "already exists") || strings.Contains(msg, "taken") {
			return true
		}
	}
	return false
}
