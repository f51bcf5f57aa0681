package model

// AdminPriority is the priority level that grants administrator rights.
const AdminPriority = 1

// Actor is the acting principal, resolved by the identity collaborator
// upstream and passed in on every guarded operation.
type Actor struct {
	UserID   string
	Priority int
}

func (a Actor) IsAdmin() bool {
	return a.Priority == AdminPriority
}

// CanManage reports whether the actor may mutate a resource owned by ownerID:
// owners and administrators only.
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}
