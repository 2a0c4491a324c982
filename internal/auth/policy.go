package auth

import "github.com/spec-kit/quote-service/internal/domain"

// Action is what the caller wants to do with a resource.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

// Resource describes ownership and visibility of a protected object.
type Resource struct {
	OwnerID    string
	Visibility domain.Visibility
}

// CanAccess decides whether requesterID may perform action on resource. An empty requesterID
// means the caller is anonymous.
func CanAccess(requesterID string, requesterIsAdmin bool, resource Resource, action Action) bool {
	if resource.Visibility == domain.VisibilityPublic && action == ActionRead {
		return true
	}
	if requesterID == "" {
		return false
	}
	if resource.OwnerID != "" && requesterID == resource.OwnerID {
		return true
	}
	return requesterIsAdmin
}
