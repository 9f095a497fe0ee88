package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// trackActivity counts the request toward the user's inactivity window.
func (h HandlerSet) trackActivity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := currentUser(c); ok {
			h.sessions.Touch(user.ID)
		}
		c.Next()
	}
}

func (h HandlerSet) SessionState(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	state, _ := h.sessions.State(user.ID)
	c.JSON(http.StatusOK, gin.H{"state": state.String()})
}

// ExtendSession is the "stay signed in" action: it clears a shown
// warning and restarts the inactivity window.
func (h HandlerSet) ExtendSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	h.sessions.StaySignedIn(user.ID)
	h.sessions.Touch(user.ID)
	state, _ := h.sessions.State(user.ID)
	c.JSON(http.StatusOK, gin.H{"state": state.String()})
}
