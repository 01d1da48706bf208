package notify

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"
	"slices"
)

// ErrUnencryptedRelay is returned when the relay did not negotiate TLS
// before authentication and insecure auth is not allowed.
var ErrUnencryptedRelay = errors.New("relay connection is not encrypted, refusing to authenticate")

// relayAuth authenticates with PLAIN or LOGIN, whichever the relay offers,
// and only over an encrypted connection unless allowInsecure is set.
type relayAuth struct {
	username      string
	password      string
	host          string
	allowInsecure bool

	mech smtp.Auth
}

func newRelayAuth(username, password, host string, allowInsecure bool) *relayAuth {
	return &relayAuth{
		username:      username,
		password:      password,
		host:          host,
		allowInsecure: allowInsecure,
	}
}

// Start is called by the SMTP client before any AUTH command is written
func (a *relayAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS && !a.allowInsecure {
		return "", nil, ErrUnencryptedRelay
	}

	if !slices.Contains(server.Auth, "PLAIN") && slices.Contains(server.Auth, "LOGIN") {
		a.mech = &loginAuth{username: a.username, password: a.password}
		return a.mech.Start(server)
	}

	a.mech = smtp.PlainAuth("", a.username, a.password, a.host)

	// PlainAuth repeats the TLS check; past this point the connection was accepted
	info := *server
	info.TLS = true
	return a.mech.Start(&info)
}

func (a *relayAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	return a.mech.Next(fromServer, more)
}

// loginAuth implements the LOGIN mechanism
type loginAuth struct {
	username string
	password string
}

func (a *loginAuth) Start(_ *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}

	switch {
	case bytes.EqualFold(fromServer, []byte("Username:")):
		return []byte(a.username), nil
	case bytes.EqualFold(fromServer, []byte("Password:")):
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected LOGIN challenge: %s", fromServer)
	}
}
