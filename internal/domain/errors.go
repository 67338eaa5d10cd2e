package domain

import "errors"

// ErrDuplicate is returned by repositories when an insert violates a unique
// constraint. Usecases map it to their own conflict errors; it exists so the
// check-then-insert race on registration is still classified correctly.
var ErrDuplicate = errors.New("duplicate record")
