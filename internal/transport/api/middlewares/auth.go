package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserIDKey    = "currentUserID"
	CurrentUserRolesKey = "currentUserRoles"
)

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его. Если токен не передан,
// вернется ошибка ErrTokenNotExist.
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*tokens.UserClaims, error) {
	tokenStr, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || tokenStr == "" {
		return nil, ErrTokenNotExist
	}

	claims, err := tokens.ValidateUserJWT(tokenStr, jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}
	return claims, nil
}

// AuthRequired проверяет, что запрос авторизован. Записывает в контекст id (CurrentUserIDKey) и роли
// (CurrentUserRolesKey) юзера.
func AuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			if !errors.Is(err, ErrTokenNotExist) {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(CurrentUserIDKey, claims.ID)
		c.Set(CurrentUserRolesKey, claims.Roles)
		c.Next()
	}
}

// AdminRequired пропускает только юзеров с ролью domain.RoleSuperAdmin. Ставится после AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(CurrentUserRolesKey)
		userRoles, _ := roles.([]string)
		if !slices.Contains(userRoles, domain.RoleSuperAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
