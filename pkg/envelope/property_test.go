package envelope_test

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/msghub/hubclient-go/pkg/envelope"
)

func TestNodeStringParseProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("ParseNode inverts String", prop.ForAll(
		func(name, domain, instance string) bool {
			n := envelope.Node{Name: name, Domain: domain, Instance: instance}
			parsed, err := envelope.ParseNode(n.String())
			return err == nil && parsed == n
		},
		gen.Identifier(),
		gen.OneGenOf(gen.Const(""), gen.Identifier()),
		gen.OneGenOf(gen.Const(""), gen.Identifier()),
	))

	properties.Property("Identity drops only the instance", prop.ForAll(
		func(name, domain, instance string) bool {
			n := envelope.Node{Name: name, Domain: domain, Instance: instance}
			return n.Identity().Node(instance) == n
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestMessageCodecProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("messages survive encode and decode", prop.ForAll(
		func(from, to string, content []byte) bool {
			msg := &envelope.Message{
				ID:      envelope.NewID(),
				From:    envelope.Node{Name: from, Domain: "hub.test"},
				To:      envelope.Node{Name: to, Domain: "hub.test", Instance: "home"},
				Type:    envelope.MediaTypeTextPlain,
				Content: content,
			}
			data, err := envelope.Encode(msg)
			if err != nil {
				return false
			}
			decoded, err := envelope.Decode(data)
			if err != nil {
				return false
			}
			got, ok := decoded.(*envelope.Message)
			return ok &&
				got.ID == msg.ID &&
				got.From == msg.From &&
				got.To == msg.To &&
				got.Type == msg.Type &&
				bytes.Equal(got.Content, msg.Content)
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("arbitrary input never panics the decoder", prop.ForAll(
		func(data []byte) bool {
			_, _ = envelope.Decode(data)
			_, _ = envelope.PeekKind(data)
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
