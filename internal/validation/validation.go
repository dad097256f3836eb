// Package validation provides input validation for the scoring API.
package validation

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// MaxRequestSize is the maximum request body size (1MB).
const MaxRequestSize = 1 << 20

// MaxUserIDLength bounds the user identifier.
const MaxUserIDLength = 100

// MaxCategoryLength bounds location/device strings.
const MaxCategoryLength = 100

// userIDRegex permits the identifier alphabet the profile store indexes on.
var userIDRegex = regexp.MustCompile(`^[A-Za-z0-9._\-]+$`)

// RequestSizeMiddleware limits request body size.
func RequestSizeMiddleware(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}

// IsValidUserID checks the user identifier's length and alphabet.
func IsValidUserID(id string) bool {
	return id != "" && len(id) <= MaxUserIDLength && userIDRegex.MatchString(id)
}

// SanitizeString trims whitespace, strips null bytes and caps length.
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return strings.ReplaceAll(s, "\x00", "")
}

// ParseTimestamp parses an RFC3339 timestamp, normalized to UTC. An empty
// string defaults to the current time, since clients may omit the
// timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
