package session

import (
	"net/http"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// CookieStore persists the signed token in the session cookie of the current
// request-response exchange. The cookie is HttpOnly, SameSite-restricted and,
// in production, limited to encrypted transport - those attributes are part
// of the session contract, not tuning knobs.
type CookieStore struct {
	codec  *Codec
	secure bool // Secure flag, enabled in production
}

func NewCookieStore(codec *Codec, secure bool) *CookieStore {
	return &CookieStore{codec: codec, secure: secure}
}

// Read returns the raw token from the inbound request, or "" when absent.
func (cs *CookieStore) Read(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Persist writes the token to the outbound response with an expiry matching
// the token's embedded lifetime.
func (cs *CookieStore) Persist(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cs.codec.TTL().Seconds()),
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Refresh re-issues the inbound session with the same identity and a renewed
// expiry, overwriting the stored cookie. When no valid session is present it
// does nothing; an anonymous request stays anonymous.
func (cs *CookieStore) Refresh(w http.ResponseWriter, r *http.Request) {
	current := cs.codec.Verify(cs.Read(r))
	if current == nil {
		return
	}

	token, err := cs.codec.Issue(current.SubjectID, current.Role)
	if err != nil {
		return
	}
	cs.Persist(w, token)
}

// Clear removes the session cookie. Clearing an already-absent session is
// not an error; the operation is idempotent.
func (cs *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cs.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
