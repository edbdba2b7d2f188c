package web

import (
	"net/http"

	"github.com/KirkDiggler/tenzies/internal/common/uuid"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gin-gonic/gin"
)

// getOrCreateSession returns the player ID stored in the session cookie,
// issuing a new one when the cookie is missing or forged.
func (h *Handler) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || !uuid.IsValid(sessionID) {
		sessionID = h.uuidGenerator.NewUUID()
		h.setCookie(c, SessionCookieName, sessionID)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getOrCreatePlayerName returns the display name for the session, giving
// new players a generated one like "brave-otter".
func (h *Handler) getOrCreatePlayerName(c *gin.Context) string {
	if name, err := c.Cookie(NameCookieName); err == nil && name != "" {
		return name
	}

	name := petname.Generate(2, "-")
	h.setCookie(c, NameCookieName, name)
	return name
}

func (h *Handler) setCookie(c *gin.Context, name, value string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(h.cookieMaxAge.Seconds()), "/", "", h.isProduction, true)
}
