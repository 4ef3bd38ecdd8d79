// Package identity models the requester of an upload: either an anonymous
// visitor or an authenticated account. The quota gate consumes both shapes
// uniformly.
package identity

import "github.com/google/uuid"

type Kind string

const (
	KindVisitor Kind = "visitor"
	KindAccount Kind = "account"
)

// Identity is a tagged variant: Visitor{id} | Account{id}.
type Identity struct {
	Kind Kind
	ID   uuid.UUID
}

func Visitor(id uuid.UUID) Identity {
	return Identity{Kind: KindVisitor, ID: id}
}

func Account(id uuid.UUID) Identity {
	return Identity{Kind: KindAccount, ID: id}
}

func (i Identity) IsAccount() bool { return i.Kind == KindAccount }

// Key returns a stable string usable as a cache key.
func (i Identity) Key() string {
	return string(i.Kind) + ":" + i.ID.String()
}
