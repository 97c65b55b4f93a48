package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// wildcardOrigin is a parsed single-level wildcard pattern like
// "https://*.crosscoach-app.pages.dev". Only the leftmost label may vary.
type wildcardOrigin struct {
	scheme string
	suffix string
}

// parseWildcardOrigin parses an allowed-origin pattern containing a
// wildcard. Returns nil when the pattern is not a valid wildcard: the
// wildcard must sit directly after the scheme, there must be exactly one,
// and the remaining domain needs at least two labels.
func parseWildcardOrigin(pattern string) *wildcardOrigin {
	var scheme string
	switch {
	case strings.HasPrefix(pattern, "https://"):
		scheme = "https://"
	case strings.HasPrefix(pattern, "http://"):
		scheme = "http://"
	default:
		return nil
	}

	rest := pattern[len(scheme):]
	if !strings.HasPrefix(rest, "*.") {
		return nil
	}

	suffix := rest[1:] // keep the leading dot
	if strings.Contains(suffix, "*") {
		return nil
	}
	// ".com" alone is too broad; require at least two labels
	if strings.Count(suffix, ".") < 2 {
		return nil
	}

	return &wildcardOrigin{scheme: scheme, suffix: suffix}
}

// matches reports whether the request origin fits the pattern. Only a
// single subdomain label may occupy the wildcard position, so
// "https://a.b.example.com" never matches "https://*.example.com".
func (w *wildcardOrigin) matches(origin string) bool {
	if !strings.HasPrefix(origin, w.scheme) {
		return false
	}
	host := origin[len(w.scheme):]
	if !strings.HasSuffix(host, w.suffix) {
		return false
	}
	label := host[:len(host)-len(w.suffix)]
	if label == "" || strings.ContainsAny(label, "./") {
		return false
	}
	return true
}

// CORS middleware to handle cross-origin requests
// Reads CORS_ALLOWED_ORIGINS environment variable to restrict origins.
// Entries may be exact origins or single-level wildcards like
// "https://*.crosscoach-app.pages.dev". If unset, all origins are allowed.
func CORS() gin.HandlerFunc {
	allowedOriginsStr := os.Getenv("CORS_ALLOWED_ORIGINS")
	allowAll := allowedOriginsStr == ""

	var exactOrigins []string
	var wildcardOrigins []*wildcardOrigin
	if !allowAll {
		for _, entry := range strings.Split(allowedOriginsStr, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			if wc := parseWildcardOrigin(entry); wc != nil {
				wildcardOrigins = append(wildcardOrigins, wc)
			} else {
				exactOrigins = append(exactOrigins, entry)
			}
		}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			allowed := false
			for _, exact := range exactOrigins {
				if origin == exact {
					allowed = true
					break
				}
			}
			if !allowed {
				for _, wc := range wildcardOrigins {
					if wc.matches(origin) {
						allowed = true
						break
					}
				}
			}

			if allowed {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			} else if c.Request.Method == "OPTIONS" {
				// Origin not allowed; refuse the preflight outright
				c.AbortWithStatus(403)
				return
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
