package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/study-billing/internal/domain"
	"github.com/fsdevblog/study-billing/internal/repository/repoargs"
	"github.com/fsdevblog/study-billing/internal/service/tokens"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/google/uuid"
)

const (
	JWTTokenExpire     = 1 * time.Hour
	RefreshTokenExpire = 30 * 24 * time.Hour
)

// BalanceInitializer начисляет стартовый депозит новому юзеру внутри транзакции регистрации.
type BalanceInitializer interface {
	InitializeUserBalanceTx(ctx context.Context, tx uow.TX, userID int64) (*Receipt, error)
}

type UserService struct {
	uow              uow.UOW
	userRepo         UserRepository
	refreshTokenRepo RefreshTokenRepository
	balance          BalanceInitializer
	hasher           PasswordHasher
	jwtTokenSecret   []byte
	clock            Clock
}

func NewUserService(
	u uow.UOW,
	balance BalanceInitializer,
	hasher PasswordHasher,
	jwtTokenSecret []byte,
	clock Clock,
) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	refreshRepo, refreshRepoErr := uow.GetRepositoryAs[RefreshTokenRepository](
		u,
		uow.RepositoryName(repoargs.RefreshTokenRepoName),
	)
	if refreshRepoErr != nil {
		return nil, refreshRepoErr //nolint:wrapcheck
	}
	if clock == nil {
		clock = SystemClock
	}
	return &UserService{
		uow:              u,
		userRepo:         userRepo,
		refreshTokenRepo: refreshRepo,
		balance:          balance,
		hasher:           hasher,
		jwtTokenSecret:   jwtTokenSecret,
		clock:            clock,
	}, nil
}

type RegisterUserArgs struct {
	Email    string
	Password string
}

type LoginUserArgs struct {
	Email    string
	Password string
}

// AuthTokens пара токенов, выдаваемая при регистрации, логине и обновлении.
type AuthTokens struct {
	Token        string
	RefreshToken string
}

// Register создает юзера с ролью ROLE_USER, начисляет ему стартовый депозит и выдает refresh токен. Все
// это происходит в одной транзакции. Если email занят, возвращает domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, *AuthTokens, error) {
	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, nil, fmt.Errorf("registering user: %s", hashErr.Error())
	}

	var user *domain.User
	var refresh *domain.RefreshToken
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		refreshRepo, refreshRepoErr := uow.GetAs[RefreshTokenRepository](
			tx,
			uow.RepositoryName(repoargs.RefreshTokenRepoName),
		)
		if refreshRepoErr != nil {
			return refreshRepoErr //nolint:wrapcheck
		}

		var userErr error
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Email:    args.Email,
			Password: password,
			Roles:    []string{domain.RoleUser},
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		receipt, depositErr := s.balance.InitializeUserBalanceTx(c, tx, user.ID)
		if depositErr != nil {
			return depositErr //nolint:wrapcheck
		}
		if receipt != nil {
			user.Balance = receipt.Balance
		}

		var refreshErr error
		refresh, refreshErr = refreshRepo.Create(c, user.ID, uuid.NewString(), s.clock().Add(RefreshTokenExpire))
		return refreshErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, nil, fmt.Errorf("registering user: %w", txErr)
	}

	token, tokenErr := s.generateJWT(user)
	if tokenErr != nil {
		return nil, nil, fmt.Errorf("registering user: %w", tokenErr)
	}
	return user, &AuthTokens{Token: token, RefreshToken: refresh.Token}, nil
}

// Login проверяет email и пароль. Ошибки: domain.ErrRecordNotFound если юзер не найден,
// domain.ErrPasswordMissMatch если пароль не совпал.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*AuthTokens, error) {
	user, err := s.userRepo.FindByEmail(ctx, args.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.ComparePassword(args.Password, user.Password) {
		return nil, fmt.Errorf("login: %w", domain.ErrPasswordMissMatch)
	}

	refresh, refreshErr := s.refreshTokenRepo.Create(
		ctx,
		user.ID,
		uuid.NewString(),
		s.clock().Add(RefreshTokenExpire),
	)
	if refreshErr != nil {
		return nil, fmt.Errorf("login: %w", refreshErr)
	}

	token, tokenErr := s.generateJWT(user)
	if tokenErr != nil {
		return nil, fmt.Errorf("login: %w", tokenErr)
	}
	return &AuthTokens{Token: token, RefreshToken: refresh.Token}, nil
}

// Refresh выдает новый jwt по refresh токену. Сам refresh токен остается прежним до истечения срока.
// Ошибки: domain.ErrRecordNotFound, domain.ErrRefreshExpired.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	refresh, err := s.refreshTokenRepo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if !refresh.ValidUntil.After(s.clock()) {
		return nil, fmt.Errorf("refresh token: %w", domain.ErrRefreshExpired)
	}

	user, userErr := s.userRepo.FindByID(ctx, refresh.UserID)
	if userErr != nil {
		return nil, fmt.Errorf("refresh token: %w", userErr)
	}

	token, tokenErr := s.generateJWT(user)
	if tokenErr != nil {
		return nil, fmt.Errorf("refresh token: %w", tokenErr)
	}
	return &AuthTokens{Token: token, RefreshToken: refresh.Token}, nil
}

// Current профиль юзера с актуальным балансом.
func (s *UserService) Current(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

func (s *UserService) generateJWT(user *domain.User) (string, error) {
	return tokens.GenerateUserJWT(user.ID, user.Email, user.Roles, JWTTokenExpire, s.jwtTokenSecret) //nolint:wrapcheck
}
