package blocks

import "errors"

var (
	ErrNavigationRootMissing = errors.New("blocks: navigation root block is missing")
	ErrClientIDRequired      = errors.New("blocks: client id is required")
	ErrDuplicateClientID     = errors.New("blocks: duplicate client id")
	ErrUnknownOrder          = errors.New("blocks: unknown traversal order")
	ErrStopWalk              = errors.New("blocks: stop walk")
)
