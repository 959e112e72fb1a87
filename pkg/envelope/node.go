package envelope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Addressing errors.
var (
	ErrInvalidNode     = errors.New("invalid node")
	ErrInvalidIdentity = errors.New("invalid identity")
)

// Identity is an authenticated principal: name@domain.
type Identity struct {
	Name   string
	Domain string
}

// ParseIdentity parses name@domain.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "/") {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	name, domain, _ := strings.Cut(s, "@")
	if name == "" && domain == "" {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	return Identity{Name: name, Domain: domain}, nil
}

// String returns name@domain, or just the part that is set.
func (i Identity) String() string {
	switch {
	case i.Name == "":
		return i.Domain
	case i.Domain == "":
		return i.Name
	default:
		return i.Name + "@" + i.Domain
	}
}

// IsZero reports whether the identity is empty.
func (i Identity) IsZero() bool {
	return i.Name == "" && i.Domain == ""
}

// Node returns the identity bound to an instance.
func (i Identity) Node(instance string) Node {
	return Node{Name: i.Name, Domain: i.Domain, Instance: instance}
}

// Node is an addressable endpoint: name@domain/instance.
type Node struct {
	Name     string
	Domain   string
	Instance string
}

// ParseNode parses name@domain/instance. Both the domain and the instance
// parts are optional.
func ParseNode(s string) (Node, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Node{}, nil
	}
	rest, instance, _ := strings.Cut(s, "/")
	name, domain, _ := strings.Cut(rest, "@")
	if name == "" && domain == "" {
		return Node{}, fmt.Errorf("%w: %q", ErrInvalidNode, s)
	}
	return Node{Name: name, Domain: domain, Instance: instance}, nil
}

// MustParseNode is like ParseNode but panics on error.
func MustParseNode(s string) Node {
	n, err := ParseNode(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the node in name@domain/instance form.
func (n Node) String() string {
	s := n.Identity().String()
	if n.Instance != "" {
		s += "/" + n.Instance
	}
	return s
}

// Identity strips the instance from the node.
func (n Node) Identity() Identity {
	return Identity{Name: n.Name, Domain: n.Domain}
}

// IsZero reports whether the node is empty.
func (n Node) IsZero() bool {
	return n == Node{}
}

// MarshalCBOR encodes the node as its string form.
func (n Node) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(n.String())
}

// UnmarshalCBOR decodes a node from its string form.
func (n *Node) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseNode(s)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
