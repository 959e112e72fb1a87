package envelope

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ErrUnknownKind is returned when a frame carries an unsupported kind tag.
var ErrUnknownKind = errors.New("unknown envelope kind")

// encMode is the CBOR encoder mode for envelopes.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for envelopes.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient for forward compatibility with newer hubs.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// frame is the outer wire structure of every envelope.
type frame struct {
	Kind Kind            `cbor:"1,keyasint"`
	Body cbor.RawMessage `cbor:"2,keyasint"`
}

// Marshal encodes a value to CBOR bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR bytes into a value.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

type validator interface {
	Validate() error
}

// Encode validates env and encodes it as a kind-tagged frame.
func Encode(env Envelope) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrUnknownKind)
	}
	if v, ok := env.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", env.Kind(), err)
		}
	}
	body, err := Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", env.Kind(), err)
	}
	return Marshal(frame{Kind: env.Kind(), Body: body})
}

// Decode decodes a kind-tagged frame into the matching envelope type.
func Decode(data []byte) (Envelope, error) {
	var f frame
	if err := Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	var env Envelope
	switch f.Kind {
	case KindMessage:
		env = &Message{}
	case KindCommand:
		env = &Command{}
	case KindNotification:
		env = &Notification{}
	case KindSession:
		env = &Session{}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, f.Kind)
	}

	if err := Unmarshal(f.Body, env); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.Kind, err)
	}
	return env, nil
}

// PeekKind returns the kind tag of a frame without decoding the body.
func PeekKind(data []byte) (Kind, error) {
	var f struct {
		Kind Kind `cbor:"1,keyasint"`
	}
	if err := Unmarshal(data, &f); err != nil {
		return KindUnknown, fmt.Errorf("failed to peek frame: %w", err)
	}
	return f.Kind, nil
}
