package errors

import "errors"

// ErrOptimisticLock the row was changed by someone else since it was read
var ErrOptimisticLock = errors.New("record was modified concurrently, reload and retry")
