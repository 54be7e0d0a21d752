package devserver

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/colonyops/aula/internal/core/toast"
)

const sessionCookie = "sessionid"

type flash struct {
	Kind    toast.Kind
	Message string
}

type session struct {
	bookDownloaded bool
	flashes        []flash
}

// sessions is a cookie-keyed in-memory session store.
type sessions struct {
	mu    sync.Mutex
	byKey map[string]*session
}

func newSessions() *sessions {
	return &sessions{byKey: make(map[string]*session)}
}

// get returns the request's session, issuing a cookie for a new one.
func (s *sessions) get(w http.ResponseWriter, r *http.Request) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.byKey[c.Value]; ok {
			return sess
		}
	}

	key := uuid.NewString()
	sess := &session{}
	s.byKey[key] = sess
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

func (s *sessions) addFlash(w http.ResponseWriter, r *http.Request, kind toast.Kind, msg string) {
	sess := s.get(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.flashes = append(sess.flashes, flash{Kind: kind, Message: msg})
}

// takeFlashes returns and clears the pending flash messages.
func (s *sessions) takeFlashes(w http.ResponseWriter, r *http.Request) []flash {
	sess := s.get(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := sess.flashes
	sess.flashes = nil
	return out
}

func (s *sessions) markDownloaded(w http.ResponseWriter, r *http.Request) {
	sess := s.get(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.bookDownloaded = true
}

func (s *sessions) downloaded(w http.ResponseWriter, r *http.Request) bool {
	sess := s.get(w, r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sess.bookDownloaded
}
