package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	a "github.com/PragyeNawani/soloistanjali-sub000/pkg/auth"
)

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		tok := strings.TrimPrefix(h, "Bearer ")
		claims, err := a.ParseValidate(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set("sub", claims.Sub)
		c.Set("role", claims.Role)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Next()
	}
}

// AdminPolicy decides who may use the back-office. Admins are either users
// carrying the ADMIN role claim or addresses listed in configuration, so
// adding admins is a config change, not a code change.
type AdminPolicy struct {
	emails map[string]struct{}
}

func NewAdminPolicy(emails []string) *AdminPolicy {
	m := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			m[e] = struct{}{}
		}
	}
	return &AdminPolicy{emails: m}
}

func (p *AdminPolicy) IsAdmin(role, email string) bool {
	if role == "ADMIN" {
		return true
	}
	_, ok := p.emails[strings.ToLower(email)]
	return ok
}

func RequireAdmin(p *AdminPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		email, _ := c.Get("email")
		rs, _ := role.(string)
		es, _ := email.(string)
		if !p.IsAdmin(rs, es) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
