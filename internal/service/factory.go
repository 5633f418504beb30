package service

import (
	"fmt"

	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/shopspring/decimal"
)

type AppServices struct {
	UserService        *UserService
	PaymentService     *PaymentService
	TransactionService *TransactionService
	ReportService      *ReportService
	CourseService      *CourseService
}

type FactoryArgs struct {
	JWTSecret      []byte
	InitialDeposit decimal.Decimal
	Hasher         PasswordHasher
	Clock          Clock
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	paymentService := NewPaymentService(unitOfWork, args.InitialDeposit, args.Clock)

	userService, userServiceErr := NewUserService(
		unitOfWork,
		paymentService,
		args.Hasher,
		args.JWTSecret,
		args.Clock,
	)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	transService, transServiceErr := NewTransactionService(unitOfWork, args.Clock)
	if transServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", transServiceErr.Error())
	}

	reportService, reportServiceErr := NewReportService(unitOfWork)
	if reportServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", reportServiceErr.Error())
	}

	courseService, courseServiceErr := NewCourseService(unitOfWork)
	if courseServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", courseServiceErr.Error())
	}

	return &AppServices{
		UserService:        userService,
		PaymentService:     paymentService,
		TransactionService: transService,
		ReportService:      reportService,
		CourseService:      courseService,
	}, nil
}
