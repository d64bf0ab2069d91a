package service

// Ownable is a resource with a recorded owner.
type Ownable interface {
	OwnerID() string
}

// canMutate is the single authorization predicate applied before every
// mutating post/comment operation: only the recorded owner may mutate.
func canMutate(actorID string, resource Ownable) bool {
	if resource == nil || actorID == "" {
		return false
	}
	return resource.OwnerID() == actorID
}
