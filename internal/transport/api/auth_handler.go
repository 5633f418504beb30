package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserRegisterParams struct {
	Email    string `binding:"required,email,max_bytes=180" json:"email"`
	Password string `binding:"required,min=6,max=255"       json:"password"`
}

type TokensResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Register POST RouteGroup + RegisterRoute. Регистрирует юзера, начисляет стартовый депозит и выдает токены.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortBind(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	_, authTokens, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Email:    params.Email,
		Password: params.Password,
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			abortPublic(c, http.StatusConflict, errors.New("user with this email already exists"))
			return
		}
		abortInternal(c, createErr)
		return
	}

	c.JSON(http.StatusCreated, TokensResponse{
		Token:        authTokens.Token,
		RefreshToken: authTokens.RefreshToken,
	})
}

type UserLoginParams struct {
	Username string `binding:"required,max_bytes=180" json:"username"`
	Password string `binding:"required,max=255"       json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре email/пароль.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortBind(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	authTokens, err := h.userService.Login(ctx, service.LoginUserArgs{
		Email:    params.Username,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrPasswordMissMatch) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, TokensResponse{
		Token:        authTokens.Token,
		RefreshToken: authTokens.RefreshToken,
	})
}

type RefreshParams struct {
	RefreshToken string `binding:"required,max_bytes=128" json:"refresh_token"`
}

// Refresh POST RouteGroup + RefreshRoute. Выдает новый jwt по refresh токену.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var params RefreshParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		abortBind(c, bindErr)
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	authTokens, err := h.userService.Refresh(ctx, params.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrRefreshExpired) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, TokensResponse{
		Token:        authTokens.Token,
		RefreshToken: authTokens.RefreshToken,
	})
}
