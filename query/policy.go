package query

import (
	"fmt"
	"slices"

	"civicsync-dashboard/models"
)

// Policy decides which status changes and assignments are legal. It is a
// plain table so the rules can be read, printed and tested directly.
type Policy struct {
	Name string
	// Next lists the statuses reachable from each status. A status missing
	// from the map may move anywhere.
	Next map[models.IssueStatus][]models.IssueStatus
	// AssignFrom lists the statuses an issue may be assigned from. Nil
	// means any.
	AssignFrom []models.IssueStatus
}

// Permissive lets any status move to any other and allows assignment at
// any time, matching how the dashboard has always behaved.
func Permissive() Policy {
	return Policy{Name: "permissive"}
}

// Workflow enforces the intake -> assignment -> work -> resolution order.
// Closed issues may only be reopened as new, and assignment is refused
// once work has started.
func Workflow() Policy {
	return Policy{
		Name: "workflow",
		Next: map[models.IssueStatus][]models.IssueStatus{
			models.StatusNew:        {models.StatusAssigned, models.StatusInProgress, models.StatusClosed},
			models.StatusAssigned:   {models.StatusNew, models.StatusInProgress, models.StatusClosed},
			models.StatusInProgress: {models.StatusAssigned, models.StatusResolved},
			models.StatusResolved:   {models.StatusInProgress, models.StatusClosed},
			models.StatusClosed:     {models.StatusNew},
		},
		AssignFrom: []models.IssueStatus{models.StatusNew, models.StatusAssigned},
	}
}

// ParsePolicy resolves a policy by name.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "permissive":
		return Permissive(), nil
	case "workflow":
		return Workflow(), nil
	default:
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// CheckStatus returns ErrTransitionNotAllowed if from -> to is not in the
// table. Staying in the same status is always allowed.
func (p Policy) CheckStatus(from, to models.IssueStatus) error {
	if from == to {
		return nil
	}
	next, ok := p.Next[from]
	if !ok || slices.Contains(next, to) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s under %s policy", ErrTransitionNotAllowed, from, to, p.Name)
}

// CheckAssign returns ErrTransitionNotAllowed if an issue in status from
// may not be assigned.
func (p Policy) CheckAssign(from models.IssueStatus) error {
	if p.AssignFrom == nil || slices.Contains(p.AssignFrom, from) {
		return nil
	}
	return fmt.Errorf("%w: cannot assign a %s issue under %s policy", ErrTransitionNotAllowed, from, p.Name)
}
