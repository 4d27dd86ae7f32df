package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/rominswe/pg-progress-sub002/core"
)

const tokenContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// Tokens are issued by the portal's identity service; the engine only reads them.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	StudentID string `json:"student_id,omitempty"` // set for student callers
}

// Caller returns the identity the claims represent.
func (c Claims) Caller() core.Caller {
	studentID := c.StudentID
	if studentID == "" && c.Role == core.RoleStudent {
		studentID = c.Subject
	}
	return core.Caller{ID: c.Subject, Role: c.Role, StudentID: studentID}
}

// NewClaims builds the claims of a token for caller, valid for the configured delta.
func NewClaims(conf *core.Config, caller core.Caller, name string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   caller.ID,
			Audience:  "pg-progress",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      name,
		Role:      caller.Role,
		StudentID: caller.StudentID,
	}
}

func jwtConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(secretKey string, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextCaller(ctx echo.Context) (core.Caller, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Caller{}, err
	}
	return claims.Caller(), nil
}

func contextHasAnyRole(ctx echo.Context, roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	if claims, err := getContextClaims(ctx); err == nil {
		for _, role := range roles {
			if claims.Role == role {
				return true
			}
		}
	}
	return false
}
