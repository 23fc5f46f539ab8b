package adminapi

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// Scope names the two privilege levels the admin surface distinguishes:
// reading claims/abstentions versus triggering engine work (the regression
// runner). An operator dashboard can hold a read token that cannot kick
// off scorer runs.
type Scope string

const (
	ScopeRead    Scope = "read"
	ScopeOperate Scope = "operate"
)

// tokenSet maps the configured bearer tokens to the scopes they grant.
// ADMIN_API_TOKEN grants every scope; ADMIN_API_READ_TOKEN grants read
// only.
type tokenSet struct {
	full string
	read string
}

func loadTokens() tokenSet {
	ts := tokenSet{
		full: os.Getenv("ADMIN_API_TOKEN"),
		read: os.Getenv("ADMIN_API_READ_TOKEN"),
	}
	if ts.full == "" && ts.read == "" && os.Getenv("GIN_MODE") == "release" {
		log.Println("[SECURITY WARNING] No admin API tokens are set in release mode. " +
			"All admin API endpoints are publicly accessible. " +
			"Set ADMIN_API_TOKEN (and optionally ADMIN_API_READ_TOKEN) to enforce authentication.")
	}
	return ts
}

// configured reports whether any token is set at all. With none set, the
// surface runs open (dev mode).
func (ts tokenSet) configured() bool {
	return ts.full != "" || ts.read != ""
}

func (ts tokenSet) grants(token string, scope Scope) bool {
	if tokenEqual(token, ts.full) {
		return true
	}
	return scope == ScopeRead && tokenEqual(token, ts.read)
}

func tokenEqual(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// RequireScope returns a middleware enforcing that the request's bearer
// token grants scope.
func RequireScope(scope Scope) gin.HandlerFunc {
	tokens := loadTokens()

	return func(c *gin.Context) {
		if !tokens.configured() {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
				"hint":  "Use: Authorization: Bearer <token>",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid Authorization header format"})
			c.Abort()
			return
		}

		if !tokens.grants(parts[1], scope) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token does not grant " + string(scope) + " access"})
			c.Abort()
			return
		}

		c.Next()
	}
}
