package vcenter

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is wrapped by RemoteCallError for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// RemoteCallError describes a failed vCenter REST call.
type RemoteCallError struct {
	Operation  string
	URL        string
	StatusCode int    // zero when no response was received
	Body       string // truncated response body, if any
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("vCenter API request failed: %s %s: status %d: %v", e.Operation, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("vCenter API request failed: %s %s: %v", e.Operation, e.URL, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}
