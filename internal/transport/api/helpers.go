package api

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/study-billing/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// abortBind отвечает 400 с описанием невалидных полей или ошибкой разбора тела.
func abortBind(c *gin.Context, bindErr error) {
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		fields := make(map[string]string, len(valErrs))
		for _, fe := range valErrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
}

// abortPublic прерывает запрос с публичным текстом ошибки.
func abortPublic(c *gin.Context, status int, err error) {
	_ = c.AbortWithError(status, err).SetType(gin.ErrorTypePublic)
}

func abortInternal(c *gin.Context, err error) {
	_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
}
