// Package policy defines the HITL (human-in-the-loop) policy layer.
// A profile names the operation kinds considered destructive; the gate built
// from it answers the pure classification question. Approval itself is never
// decided here; it is supplied by an external approver (a human operator or
// a UI callback) through the approval port.
package policy

// OperationKind names a category of side-effecting operation submitted to
// the gate, e.g. "file_write" or "file_delete".
type OperationKind string

const (
	OpFileWrite  OperationKind = "file_write"
	OpFileDelete OperationKind = "file_delete"
)

// Profile is the static configuration for a gate.
type Profile struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Destructive []OperationKind `json:"destructive" yaml:"destructive"`
}

// Gate classifies operation kinds as destructive or not.
// It holds no approval logic.
type Gate struct {
	name        string
	destructive map[OperationKind]bool
}

// NewGate builds a gate from a profile.
func NewGate(p Profile) *Gate {
	g := &Gate{
		name:        p.Name,
		destructive: make(map[OperationKind]bool, len(p.Destructive)),
	}
	for _, kind := range p.Destructive {
		g.destructive[kind] = true
	}
	return g
}

// Name returns the profile name the gate was built from.
func (g *Gate) Name() string { return g.name }

// IsDestructive reports whether the operation kind is classified destructive.
// Pure lookup; unknown kinds are non-destructive.
func (g *Gate) IsDestructive(kind OperationKind) bool {
	return g.destructive[kind]
}

// PresetCheckpointGuard returns the default profile for checkpoint
// management: both writes and deletes of an existing checkpoint require
// approval.
func PresetCheckpointGuard() Profile {
	return Profile{
		Name:        "checkpoint-guard",
		Description: "Require approval before overwriting or deleting checkpoint state.",
		Destructive: []OperationKind{OpFileWrite, OpFileDelete},
	}
}
