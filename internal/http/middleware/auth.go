package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	// UserIDKey is the Gin context key holding the caller's identity.
	UserIDKey = "userID"
	// HeaderUserID is the development identity header honoured when bearer
	// authentication is disabled.
	HeaderUserID = "X-User-ID"
	// AnonymousUser is the identity used when nothing else is available.
	AnonymousUser = "demo-user"
)

// UserID resolves the caller: the authenticated id, then X-User-ID, then
// AnonymousUser.
func UserID(c *gin.Context) string {
	if c == nil {
		return AnonymousUser
	}
	if v, ok := c.Get(UserIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader(HeaderUserID)); h != "" {
			return h
		}
	}
	return AnonymousUser
}

// Claims are the JWT claims the API understands. The subject wins over the
// legacy user_id claim.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) identity() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

// AuthOptions configures Auth.
type AuthOptions struct {
	// Secret is the HS256 signing key. Empty disables the middleware.
	Secret string
	// AllowAnonymousReads lets GET/HEAD/OPTIONS through without a token.
	AllowAnonymousReads bool
}

// Auth validates "Authorization: Bearer <jwt>" (HS256) and stores the token
// identity under UserIDKey. With a secret configured the X-User-ID header is
// ignored, so callers cannot pick their identity.
func Auth(opts AuthOptions) gin.HandlerFunc {
	if opts.Secret == "" {
		return func(c *gin.Context) { c.Next() }
	}
	key := []byte(opts.Secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		c.Request.Header.Del(HeaderUserID)

		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, errNoToken) && (opts.AllowAnonymousReads && isSafeMethod(c.Request.Method)) {
				c.Next()
				return
			}
			unauthorized(c, err.Error())
			return
		}

		claims := &Claims{}
		if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return key, nil }); err != nil {
			unauthorized(c, "invalid token")
			return
		}
		id := claims.identity()
		if id == "" {
			unauthorized(c, "token has no subject")
			return
		}
		c.Set(UserIDKey, id)
		c.Next()
	}
}

var errNoToken = errors.New("missing bearer token")

func bearerToken(h string) (string, error) {
	h = strings.TrimSpace(h)
	if h == "" {
		return "", errNoToken
	}
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", errors.New("malformed authorization header")
	}
	return strings.TrimSpace(tok), nil
}

func isSafeMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
