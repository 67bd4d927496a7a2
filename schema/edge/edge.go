package edge

import (
	"fmt"
	"strings"
)

// Kind is the cardinality of a relation between two tables.
type Kind int

// Relation kinds.
const (
	Unknown    Kind = iota // Unknown.
	OneToMany              // One to many / has many.
	ManyToOne              // Many to one (inverse perspective for OneToMany).
	OneToOne               // One to one / has one.
	ManyToMany             // Many to many, materialized through a junction table.
)

var kindNames = [...]string{
	Unknown:    "Unknown",
	OneToMany:  "OneToMany",
	ManyToOne:  "ManyToOne",
	OneToOne:   "OneToOne",
	ManyToMany: "ManyToMany",
}

// Kinds lists the valid relation kinds in declaration order.
var Kinds = []Kind{OneToMany, ManyToOne, OneToOne, ManyToMany}

// String returns the relation name as it appears in schema documents.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// Valid reports if k is one of the declared relation kinds.
func (k Kind) Valid() bool {
	return k > Unknown && int(k) < len(kindNames)
}

// Reverse returns the kind of the relation as seen from the target table.
// ManyToOne has no synthesized reverse: its OneToMany counterpart is always
// declared by the user.
func (k Kind) Reverse() (Kind, bool) {
	switch k {
	case OneToMany:
		return ManyToOne, true
	case OneToOne:
		return OneToOne, true
	case ManyToMany:
		return ManyToMany, true
	}
	return Unknown, false
}

// HoldsForeignKey reports if a relation of this kind is stored as a
// "<target>_id" column on the declaring table.
func (k Kind) HoldsForeignKey() bool {
	return k == ManyToOne || k == OneToOne
}

// ParseKind parses a relation name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(k.String(), s) {
			return k, nil
		}
	}
	return Unknown, fmt.Errorf("edge: unknown relation type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized names
// decode to Unknown so that the validator can report them with context.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		*k = Unknown
		return nil
	}
	*k = parsed
	return nil
}

// Descriptor is a relation as declared on a table in a schema document.
type Descriptor struct {
	Type     Kind   `json:"type" yaml:"type" msgpack:"type"`
	Entity   string `json:"entity" yaml:"entity" msgpack:"entity"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty" msgpack:"required,omitempty"`
	// IsOwner is mandatory for OneToOne and optional for ManyToMany.
	IsOwner *bool `json:"isOwner,omitempty" yaml:"isOwner,omitempty" msgpack:"isOwner,omitempty"`
}

// Owner reports the declared ownership and whether it was set at all.
func (d Descriptor) Owner() (owner, ok bool) {
	if d.IsOwner == nil {
		return false, false
	}
	return *d.IsOwner, true
}

// Clone returns a deep copy of the descriptor.
func (d *Descriptor) Clone() *Descriptor {
	if d == nil {
		return nil
	}
	c := *d
	if d.IsOwner != nil {
		c.IsOwner = Bool(*d.IsOwner)
	}
	return &c
}

// Bool returns a pointer to b. It is a helper for the IsOwner field.
func Bool(b bool) *bool { return &b }
