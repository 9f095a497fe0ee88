package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Gateway enforces coarse route-class access ahead of any handler. It
// maintains three disjoint route classes: protected (authenticated
// users), auth-only (login/signup pages, defined but not redirected),
// and admin (back-office pages).
//
// For admin-class paths the gate checks only that the admin session
// cookie is PRESENT, then lets the request through; full signature and
// principal verification happens later in AdminAuth on the API routes.
// This is a coarse gate, not the security boundary.
type Gateway struct {
	adminLoginPath string
	protected      []string
	authOnly       []string
	admin          []string
}

func NewGateway(adminLoginPath string) *Gateway {
	return &Gateway{
		adminLoginPath: adminLoginPath,
		protected:      []string{"/account", "/orders", "/wishlist", "/checkout"},
		authOnly:       []string{"/login", "/signup", "/verify-email", "/forgot-password"},
		admin:          []string{"/admin"},
	}
}

func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if !g.isAdminPath(path) || path == g.adminLoginPath {
			c.Next()
			return
		}

		// Bare /admin always bounces to the login page.
		if path == "/admin" || path == "/admin/" {
			c.Redirect(http.StatusSeeOther, g.adminLoginPath)
			c.Abort()
			return
		}

		if _, err := c.Cookie(AdminCookieName); err != nil {
			c.Redirect(http.StatusSeeOther, g.adminLoginPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (g *Gateway) isAdminPath(path string) bool {
	return matchesClass(path, g.admin)
}

// IsProtected reports whether the path requires an authenticated user.
func (g *Gateway) IsProtected(path string) bool {
	return matchesClass(path, g.protected)
}

// IsAuthOnly reports whether the path is meant only for signed-out
// visitors. No redirect is enforced for this class.
func (g *Gateway) IsAuthOnly(path string) bool {
	return matchesClass(path, g.authOnly)
}

func matchesClass(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
