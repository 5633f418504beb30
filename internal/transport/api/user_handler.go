package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService UserServicer
}

func NewUserHandler(userService UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

type CurrentUserResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Balance  string   `json:"balance"`
}

// Current GET RouteGroup + CurrentUserRoute. Профиль и баланс текущего юзера.
func (h *UserHandler) Current(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, err := h.userService.Current(ctx, getUserIDFromContext(c))
	if err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, CurrentUserResponse{
		Username: user.Email,
		Roles:    user.Roles,
		Balance:  user.Balance.StringFixed(2),
	})
}
