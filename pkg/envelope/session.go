package envelope

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// SessionState is the lifecycle state of a session.
type SessionState uint8

const (
	SessionNew SessionState = iota
	SessionNegotiating
	SessionAuthenticating
	SessionEstablished
	SessionFinishing
	SessionFinished
	SessionFailed
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionNew:
		return "NEW"
	case SessionNegotiating:
		return "NEGOTIATING"
	case SessionAuthenticating:
		return "AUTHENTICATING"
	case SessionEstablished:
		return "ESTABLISHED"
	case SessionFinishing:
		return "FINISHING"
	case SessionFinished:
		return "FINISHED"
	case SessionFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether no further transitions can happen.
func (s SessionState) IsTerminal() bool {
	return s == SessionFinished || s == SessionFailed
}

// AuthenticationScheme names how a client proves its identity.
type AuthenticationScheme string

// Authentication schemes.
const (
	SchemeGuest AuthenticationScheme = "guest"
	SchemePlain AuthenticationScheme = "plain"
	SchemeKey   AuthenticationScheme = "key"
)

// ErrUnknownScheme is returned when a session carries an unsupported scheme.
var ErrUnknownScheme = errors.New("unknown authentication scheme")

// Credentials is the scheme-specific authentication payload. Secrets are
// base64 encoded on the wire.
type Credentials struct {
	Password string `cbor:"1,keyasint,omitempty"`
	Key      string `cbor:"2,keyasint,omitempty"`
}

// Authentication is implemented by each supported scheme.
type Authentication interface {
	Scheme() AuthenticationScheme
	Credentials() Credentials
}

// GuestAuthentication authenticates without credentials.
type GuestAuthentication struct{}

func (GuestAuthentication) Scheme() AuthenticationScheme { return SchemeGuest }
func (GuestAuthentication) Credentials() Credentials     { return Credentials{} }

// PlainAuthentication authenticates with a password.
type PlainAuthentication struct {
	Password string
}

func (a PlainAuthentication) Scheme() AuthenticationScheme { return SchemePlain }

func (a PlainAuthentication) Credentials() Credentials {
	return Credentials{Password: base64.StdEncoding.EncodeToString([]byte(a.Password))}
}

// KeyAuthentication authenticates with an access key.
type KeyAuthentication struct {
	Key string
}

func (a KeyAuthentication) Scheme() AuthenticationScheme { return SchemeKey }

func (a KeyAuthentication) Credentials() Credentials {
	return Credentials{Key: base64.StdEncoding.EncodeToString([]byte(a.Key))}
}

// Session negotiates and authenticates the session.
//
// CBOR encoding:
//
//	{
//	  1: id,              // string, assigned by the hub
//	  2: from,            // node string
//	  3: to,              // node string
//	  4: state,           // uint8
//	  5: schemeOptions,   // []string, offered by the hub
//	  6: scheme,          // string, chosen by the client
//	  7: credentials,     // map
//	  8: reason           // map, set when failed
//	}
type Session struct {
	ID            string                 `cbor:"1,keyasint,omitempty"`
	From          Node                   `cbor:"2,keyasint"`
	To            Node                   `cbor:"3,keyasint"`
	State         SessionState           `cbor:"4,keyasint"`
	SchemeOptions []AuthenticationScheme `cbor:"5,keyasint,omitempty"`
	Scheme        AuthenticationScheme   `cbor:"6,keyasint,omitempty"`
	Credentials   *Credentials           `cbor:"7,keyasint,omitempty"`
	Reason        *Reason                `cbor:"8,keyasint,omitempty"`
}

func (s *Session) EnvelopeID() string { return s.ID }
func (s *Session) Kind() Kind         { return KindSession }
func (s *Session) Sender() Node       { return s.From }
func (s *Session) Recipient() Node    { return s.To }

// SetAuthentication stores the scheme and credentials of auth.
func (s *Session) SetAuthentication(auth Authentication) {
	creds := auth.Credentials()
	s.Scheme = auth.Scheme()
	s.Credentials = &creds
}

// Authentication decodes the scheme and credentials carried by the session.
func (s *Session) Authentication() (Authentication, error) {
	var creds Credentials
	if s.Credentials != nil {
		creds = *s.Credentials
	}
	switch s.Scheme {
	case SchemeGuest:
		return GuestAuthentication{}, nil
	case SchemePlain:
		pw, err := base64.StdEncoding.DecodeString(creds.Password)
		if err != nil {
			return nil, fmt.Errorf("decode password: %w", err)
		}
		return PlainAuthentication{Password: string(pw)}, nil
	case SchemeKey:
		key, err := base64.StdEncoding.DecodeString(creds.Key)
		if err != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
		return KeyAuthentication{Key: string(key)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, s.Scheme)
	}
}

// OffersScheme reports whether the hub offered scheme.
func (s *Session) OffersScheme(scheme AuthenticationScheme) bool {
	if len(s.SchemeOptions) == 0 {
		return true
	}
	for _, opt := range s.SchemeOptions {
		if opt == scheme {
			return true
		}
	}
	return false
}
