package query

import "errors"

var (
	ErrIssueNotFound        = errors.New("issue not found")
	ErrDuplicateIssue       = errors.New("duplicate issue id")
	ErrConflict             = errors.New("issue was modified concurrently")
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrUnknownPolicy        = errors.New("unknown transition policy")
)
