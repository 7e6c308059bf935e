package internaltypes

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// transport
	ErrTransport        = errors.New("transport error")
	ErrTransportTimeout = errors.New("transport timeout")

	// roster response
	ErrAPIFailure        = errors.New("API response success: false")
	ErrMalformedResponse = errors.New("malformed response")
	ErrMalformedRecord   = errors.New("malformed shift record")

	// delivery
	ErrSink = errors.New("sink error")
)
