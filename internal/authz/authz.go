// Package authz decides whether a principal may perform an operation on a
// project-scoped resource. Decisions are computed only from the principal's
// membership on the owning project and, for issues and comments, from the
// resource's owner. The package does no I/O.
package authz

import "github.com/Marga-Ghale/softdesk-backend/internal/types"

type Operation string

const (
	Read   Operation = "read"
	Write  Operation = "write" // create or update
	Delete Operation = "delete"
)

type Kind string

const (
	KindProject     Kind = "project"
	KindContributor Kind = "contributor"
	KindIssue       Kind = "issue"
	KindComment     Kind = "comment"
)

// Membership is the principal's entry in a project's membership registry.
type Membership struct {
	Permission string
	Role       string
}

// IsFull reports whether the membership carries complete permission.
func (m *Membership) IsFull() bool {
	return m != nil && m.Permission == types.PermissionComplete
}

// Resource is the context a decision is made against.
type Resource struct {
	Kind Kind

	// Membership of the principal on the owning project, nil when not a member.
	Membership *Membership

	// OwnerID is the issue's current assignee or the comment's author.
	// Empty means the resource is being created.
	OwnerID string
}

type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

func (d Decision) Allowed() bool {
	return bool(d)
}

func (d Decision) String() string {
	if d {
		return "allow"
	}
	return "deny"
}

// Decide returns Allow or Deny. Unknown kinds or operations deny.
func Decide(principalID string, op Operation, res Resource) Decision {
	if principalID == "" {
		return Deny
	}
	member := res.Membership != nil

	switch res.Kind {
	case KindProject, KindContributor:
		switch op {
		case Read:
			return Decision(member)
		case Write, Delete:
			// A project without a complete member denies every mutation.
			return Decision(res.Membership.IsFull())
		}

	case KindIssue, KindComment:
		switch op {
		case Read:
			return Decision(member)
		case Write:
			if res.OwnerID == "" {
				return Decision(member)
			}
			return Decision(res.OwnerID == principalID)
		case Delete:
			return Decision(res.OwnerID != "" && res.OwnerID == principalID)
		}
	}

	return Deny
}
