package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-authoring/core"
	"github.com/trezcool/masomo-authoring/core/question"
)

const jwtContextKey = "userToken"

// Claims represents the authorization claims transmitted via a JWT.
// Tokens are issued by the LMS; this API only reads them.
type Claims struct {
	jwt.StandardClaims
	Name      string   `json:"name,omitempty"`
	IsStudent bool     `json:"is_student,omitempty"` // -> STUDENT PORTAL
	IsTeacher bool     `json:"is_teacher,omitempty"` // -> TEACHER PORTAL
	IsAdmin   bool     `json:"is_admin,omitempty"`   // -> ADMIN PORTAL
	Roles     []string `json:"roles,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

// NewClaims returns the claims of a user holding roles (question.RoleAdmin, question.RoleTeacher, ...).
func NewClaims(conf *core.Config, userID, name string, roles ...string) *Claims {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   userID,
			Audience:  "Academia",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  name,
		Roles: roles,
	}
	for _, role := range roles {
		switch role {
		case question.RoleAdmin:
			claims.IsAdmin = true
		case question.RoleTeacher:
			claims.IsTeacher = true
		default:
			claims.IsStudent = true
		}
	}
	return claims
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	jwtConf := newJWTConfig(conf)
	method := jwt.GetSigningMethod(jwtConf.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(jwtConf.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// authoringContext builds the question.AuthoringContext of the authenticated user.
// Only admins may author on behalf of another teacher: teacher is ignored otherwise.
func authoringContext(ctx echo.Context, teacher string, original *question.Question) (question.AuthoringContext, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return question.AuthoringContext{}, err
	}

	actx := question.AuthoringContext{
		SessionUserID: claims.Subject,
		SessionName:   claims.Name,
		Original:      original,
	}
	switch {
	case claims.IsAdmin:
		actx.Role = question.RoleAdmin
		actx.Teacher = core.CleanString(teacher)
	case claims.IsTeacher:
		actx.Role = question.RoleTeacher
	default:
		return question.AuthoringContext{}, errHttpForbidden
	}
	return actx, nil
}
