package feed

import "errors"

var (
	// ErrInvalidURL means the source/article URL failed format or scheme validation.
	ErrInvalidURL = errors.New("feed: invalid url")
	// ErrPrivateIP means the URL resolves to a private/loopback/link-local address.
	ErrPrivateIP = errors.New("feed: url resolves to private ip")
	// ErrTooManyRedirects means a content fetch exceeded the configured redirect limit.
	ErrTooManyRedirects = errors.New("feed: too many redirects")
	// ErrBodyTooLarge means a content fetch response exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("feed: response body too large")
	// ErrTimeout means a fetch exceeded its configured timeout.
	ErrTimeout = errors.New("feed: request timeout")
	// ErrReadabilityFailed means article extraction found no usable text.
	ErrReadabilityFailed = errors.New("feed: readability extraction failed")
)
