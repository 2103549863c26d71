package traccar

import (
	"fmt"

	"github.com/awantoch/traccarproxy/constants"
)

// StatusError reports a non-2xx response from Traccar. The response body is
// not retained.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(constants.ResponseUpstreamStatus, e.StatusCode)
}

// DecodeError reports a 2xx response whose body is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
