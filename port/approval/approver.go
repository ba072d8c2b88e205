// Package approval defines the port interface for external approval of
// destructive operations.
package approval

// Approver answers an approval request for a destructive operation.
// The call blocks until the external collaborator (a human operator, a UI
// callback, a feedback provider) answers. There is no built-in timeout;
// callers needing one must wrap the approver themselves.
type Approver interface {
	Approve(description string) bool
}

// Func adapts an ordinary function to the Approver interface.
type Func func(description string) bool

// Approve implements Approver.
func (f Func) Approve(description string) bool { return f(description) }
