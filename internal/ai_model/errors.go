package ai_model

import (
	"errors"
	"fmt"
)

var ErrInvalidHistory = errors.New("invalid history")

type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindEmpty     ErrorKind = "empty"
	KindTimeout   ErrorKind = "timeout"
)

// UpstreamError is returned for every failed completion call. No retry is
// attempted by the client.
type UpstreamError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upstream status %d: %v", e.Status, e.Err)
	case KindEmpty:
		return "upstream returned no text"
	case KindTimeout:
		return fmt.Sprintf("upstream timeout: %v", e.Err)
	default:
		return fmt.Sprintf("upstream %s: %v", e.Kind, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries an UpstreamError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Kind == kind
}
