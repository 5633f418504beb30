package api

import (
	"time"

	"github.com/fsdevblog/study-billing/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup        = "/api/v1"
	LoginRoute        = "/auth"
	RegisterRoute     = "/register"
	RefreshRoute      = "/token/refresh"
	CoursesRoute      = "/courses"
	CourseRoute       = "/courses/:code"
	CourseCreateRoute = "/courses/new"
	CourseEditRoute   = "/courses/:code/edit"
	CourseDeleteRoute = "/courses/:code/delete"
	CoursePayRoute    = "/courses/:code/pay"
	TransactionsRoute = "/transactions"
	DepositRoute      = "/transactions/deposit"
	CurrentUserRoute  = "/users/current"
)

type RouterArgs struct {
	Logger             *logrus.Logger
	UserService        UserServicer
	PaymentService     PaymentServicer
	TransactionService TransactionServicer
	CourseService      CourseServicer
	JWTSecretKey       []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	courseHandler := NewCourseHandler(args.CourseService, args.PaymentService)
	transHandler := NewTransactionHandler(args.TransactionService, args.PaymentService)
	userHandler := NewUserHandler(args.UserService)

	api := r.Group(RouteGroup)

	api.POST(LoginRoute, authHandler.Login)
	api.POST(RegisterRoute, authHandler.Register)
	api.POST(RefreshRoute, authHandler.Refresh)
	api.GET(CoursesRoute, courseHandler.Index)
	api.GET(CourseRoute, courseHandler.Show)

	// ниже все роуты группы требуют авторизованного пользователя.
	authorized := api.Group("", middlewares.AuthRequired(args.JWTSecretKey))
	authorized.POST(CoursePayRoute, courseHandler.Pay)
	authorized.GET(TransactionsRoute, transHandler.Index)
	authorized.POST(DepositRoute, transHandler.Deposit)
	authorized.GET(CurrentUserRoute, userHandler.Current)

	admin := authorized.Group("", middlewares.AdminRequired())
	admin.POST(CourseCreateRoute, courseHandler.Create)
	admin.POST(CourseEditRoute, courseHandler.Update)
	admin.DELETE(CourseDeleteRoute, courseHandler.Delete)

	return r, nil
}
