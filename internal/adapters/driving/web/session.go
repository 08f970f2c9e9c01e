package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie.
const CookieName = "fiches_session"

// sessionID returns the request's session, issuing a new cookie when the
// request has none. The cookie is not Secure so the form works over plain
// HTTP on localhost.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := s.newID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(s.ttl / time.Second),
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// existingSession returns the request's session without issuing one.
func existingSession(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
