// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates internal server error.
var ErrInternal = errors.New("internal")

// ErrTimeout indicates that the store could not commit within the deadline.
// No partial state persists; the attempt is equivalent to an abort.
var ErrTimeout = errors.New("store timeout")

// ErrStoreUnavailable indicates that the store connection is down.
var ErrStoreUnavailable = errors.New("store unavailable")
