package realtime

import "github.com/snapserve/snapserve/pkg/errors"

// ErrRetriesExhausted is returned by Run when MaxRetries consecutive
// connection attempts fail without an intervening healthy session.
var ErrRetriesExhausted = errors.New("connection retries exhausted")
