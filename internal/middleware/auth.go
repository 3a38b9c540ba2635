// Package middleware provides common gin middlewares.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncibb/credit-ledger/pkg/tokenpkg"
	"github.com/ncibb/credit-ledger/pkg/web"
)

const (
	// AuthHeaderKey is the authorization header name.
	AuthHeaderKey = "authorization"
	// AuthTypeBearer is the supported authorization scheme.
	AuthTypeBearer = "bearer"
	// AuthPayloadKey is the gin context key holding the verified token payload.
	AuthPayloadKey = "authorization_payload"
)

var (
	// ErrAuthHeaderNotFound indicates a missing authorization header.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates a malformed authorization header.
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates an unsupported authorization scheme.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// AddAuthorization creates a token for the given account and sets it on
// the request. Used by tests to impersonate the identity system.
func AddAuthorization(
	r *http.Request,
	tokenMaker tokenpkg.Maker,
	authType string,
	accountID int32,
	role string,
	duration time.Duration,
) error {
	token, _, err := tokenMaker.CreateToken(accountID, role, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authType, token))

	return nil
}

// AuthMiddleware verifies the bearer token issued by the external
// identity system and stores its payload in the request context.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		authHeader := gctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrAuthHeaderNotFound))
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrBadAuthHeaderFormat))
			return
		}

		if strings.ToLower(fields[0]) != AuthTypeBearer {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrUnsupportedAuthType))
			return
		}

		payload, err := tokenMaker.VerifyToken(fields[1])
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}
