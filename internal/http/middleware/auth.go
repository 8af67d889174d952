package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// TokenVerifier validates a session token. *auth.Sessions satisfies it.
type TokenVerifier interface {
	Verify(token string, now time.Time) error
}

// RequireSession rejects requests without a valid session token with 401.
// The token is read from the named cookie first, then from an
// "Authorization: Bearer" header so CLI clients can authenticate too.
//
// On success a short fingerprint of the token is stored for logging and
// rate-limit keying (see SessionFrom).
func RequireSession(v TokenVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := TokenFromRequest(c, cookieName)
		if tok == "" {
			sessionRejects.WithLabelValues("missing").Inc()
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		if err := v.Verify(tok, time.Now()); err != nil {
			sessionRejects.WithLabelValues("invalid").Inc()
			LoggerFrom(c).Debug().Err(err).Msg("session rejected")
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "invalid or expired session")
			return
		}
		c.Set(sessionKey, fingerprint(tok))
		c.Next()
	}
}

// TokenFromRequest returns the session token carried by the request, or "".
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck != "" {
		return ck
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// SessionFrom returns the session fingerprint set by RequireSession, or "".
func SessionFrom(c *gin.Context) string {
	v, _ := c.Get(sessionKey)
	return asString(v)
}

func fingerprint(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:6])
}
