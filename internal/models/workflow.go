package models

// ReviewStatus is the lifecycle shared by teaching assignments and suggestions.
// pending is the only non-terminal state.
type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s ReviewStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s ReviewStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}
