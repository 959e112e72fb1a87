package envelope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	from := MustParseNode("bot@hub.example/home")
	to := MustParseNode("alice@hub.example")

	tests := []struct {
		name string
		env  Envelope
	}{
		{
			name: "Message",
			env: &Message{
				ID:      "m-1",
				From:    from,
				To:      to,
				Type:    MediaTypeTextPlain,
				Content: []byte("hello"),
			},
		},
		{
			name: "CommandRequest",
			env: &Command{
				ID:     "c-1",
				From:   from,
				Method: MethodGet,
				URI:    "/presence",
			},
		},
		{
			name: "CommandResponse",
			env: &Command{
				ID:     "c-1",
				To:     from,
				Method: MethodGet,
				Status: CommandFailure,
				Reason: &Reason{Code: 67, Description: "resource not found"},
			},
		},
		{
			name: "Notification",
			env: &Notification{
				ID:    "m-1",
				From:  to,
				Event: EventReceived,
			},
		},
		{
			name: "Session",
			env: &Session{
				ID:            "s-1",
				State:         SessionAuthenticating,
				SchemeOptions: []AuthenticationScheme{SchemeGuest, SchemePlain},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.env)
			require.NoError(t, err)

			kind, err := PeekKind(data)
			require.NoError(t, err)
			assert.Equal(t, tt.env.Kind(), kind)

			got, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.env, got)
		})
	}
}

func TestEncodeValidates(t *testing.T) {
	_, err := Encode(&Message{ID: "m-1"})
	assert.True(t, errors.Is(err, ErrMissingMediaType))

	_, err = Encode(&Command{Method: "patch", URI: "/x"})
	assert.True(t, errors.Is(err, ErrMissingMethod))

	_, err = Encode(&Command{Method: MethodSet})
	assert.True(t, errors.Is(err, ErrMissingURI))

	_, err = Encode(&Notification{ID: "m-1"})
	assert.True(t, errors.Is(err, ErrMissingEvent))

	_, err = Encode(nil)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestDecodeUnknownKind(t *testing.T) {
	data, err := Marshal(frame{Kind: 42, Body: []byte{0xa0}})
	require.NoError(t, err)

	_, err = Decode(data)
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte{0xff, 0x00})
	assert.Error(t, err)
}
