package protocol

import "fmt"

// ResponseLengthError reports a response buffer of the wrong size.
type ResponseLengthError struct {
	// Operation is the read that produced the response
	Operation string

	// Want is the expected length (minimum length for header reads)
	Want int

	// Got is the actual length
	Got int
}

func (e *ResponseLengthError) Error() string {
	return fmt.Sprintf("%s: invalid response length: got %d bytes, expected %d", e.Operation, e.Got, e.Want)
}

// IsResponseLengthError returns true if the error is a ResponseLengthError.
func IsResponseLengthError(err error) bool {
	_, ok := err.(*ResponseLengthError)
	return ok
}
