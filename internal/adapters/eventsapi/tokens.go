package eventsapi

import (
	"errors"
	"strings"

	"golang.org/x/oauth2"

	"github.com/target/saarevents/internal/ports"
)

var errNoCredential = errors.New("no session credential")

// sessionTokenSource adapts ports.TokenSource to oauth2.TokenSource. The token
// never expires client-side; the server decides when it is no longer valid.
type sessionTokenSource struct {
	tokens ports.TokenSource
}

func (s sessionTokenSource) Token() (*oauth2.Token, error) {
	if s.tokens == nil {
		return nil, errNoCredential
	}
	tok := strings.TrimSpace(s.tokens.Token())
	if tok == "" {
		return nil, errNoCredential
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}
