package promise

import "strings"

// JoinSetId identifies a dynamic group of promises awaitable together. It
// wraps a PromiseId purely for type safety — a JoinSetId is never used where
// a bare PromiseId is expected, and vice versa.
type JoinSetId struct {
	id PromiseId
}

// NewJoinSetId wraps a PromiseId as a JoinSetId.
func NewJoinSetId(id PromiseId) JoinSetId {
	return JoinSetId{id: id}
}

// PromiseId returns the wrapped identifier.
func (j JoinSetId) PromiseId() PromiseId {
	return j.id
}

// Equal reports whether j and other identify the same join set.
func (j JoinSetId) Equal(other JoinSetId) bool {
	return j.id.Equal(other.id)
}

// Key returns a canonical, comparable string suitable for use as a map key.
func (j JoinSetId) Key() string {
	var sb strings.Builder
	sb.WriteString("js:")
	sb.WriteString(j.id.Key())
	return sb.String()
}

// String renders the display form "js(<promise display form>)".
func (j JoinSetId) String() string {
	return "js(" + j.id.String() + ")"
}
