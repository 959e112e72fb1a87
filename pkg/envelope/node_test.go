package envelope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNode(t *testing.T) {
	tests := []struct {
		in   string
		want Node
	}{
		{"alice@hub.example/phone", Node{Name: "alice", Domain: "hub.example", Instance: "phone"}},
		{"alice@hub.example", Node{Name: "alice", Domain: "hub.example"}},
		{"postmaster@hub.example/*", Node{Name: "postmaster", Domain: "hub.example", Instance: "*"}},
		{"hub.example", Node{Name: "hub.example"}},
		{"", Node{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}

	_, err := ParseNode("@/x")
	assert.True(t, errors.Is(err, ErrInvalidNode))
}

func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity("bot@hub.example")
	require.NoError(t, err)
	assert.Equal(t, Identity{Name: "bot", Domain: "hub.example"}, id)
	assert.Equal(t, "bot@hub.example/default", id.Node("default").String())

	_, err = ParseIdentity("bot@hub.example/instance")
	assert.True(t, errors.Is(err, ErrInvalidIdentity))

	_, err = ParseIdentity("  ")
	assert.True(t, errors.Is(err, ErrInvalidIdentity))
}

func TestNodeIdentity(t *testing.T) {
	n := MustParseNode("alice@hub.example/phone")
	assert.Equal(t, "alice@hub.example", n.Identity().String())
	assert.False(t, n.IsZero())
	assert.True(t, Node{}.IsZero())
}
