package spotify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var ErrAuth = errors.New("spotify: authentication failed")

// Session owns the client-credential token for one Spotify client. The token
// is reused until its expiry passes and is then exchanged again.
type Session struct {
	config *clientcredentials.Config
	mutex  sync.Mutex
	token  *oauth2.Token
	now    func() time.Time
}

// compile-time interface assertion
var _ oauth2.TokenSource = (*Session)(nil)

func NewSession(clientID, clientSecret, tokenURL string) *Session {
	return &Session{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		now: time.Now,
	}
}

// Token returns the cached token while it is unexpired, otherwise runs the
// client-credential exchange.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.valid() {
		return s.token, nil
	}

	log.Trace("requesting new Spotify access token")
	token, err := s.config.Token(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuth, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrAuth)
	}

	log.Debugf("obtained Spotify access token, expires %s", token.Expiry.Format(time.RFC3339))
	s.token = token
	return token, nil
}

// Invalidate drops the cached token so the next request re-authenticates.
func (s *Session) Invalidate() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.token = nil
}

func (s *Session) valid() bool {
	return s.token != nil && s.token.AccessToken != "" && s.now().Before(s.token.Expiry)
}
