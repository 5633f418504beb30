package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/study-billing/internal/config"
	"github.com/fsdevblog/study-billing/internal/fixtures"
	"github.com/fsdevblog/study-billing/internal/notify"
	"github.com/fsdevblog/study-billing/internal/repository/pgrepo"
	"github.com/fsdevblog/study-billing/internal/service"
	"github.com/fsdevblog/study-billing/internal/service/psswd"
	"github.com/fsdevblog/study-billing/internal/transport/api"
	"github.com/fsdevblog/study-billing/pkg/uow"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// deps открытое соединение с базой и собранные поверх него сервисы.
type deps struct {
	conn     *pgxpool.Pool
	uow      *uow.UnitOfWork
	services *service.AppServices
	hasher   *psswd.BcryptHasher
}

func (a *App) bootstrap(ctx context.Context) (*deps, error) {
	initialDeposit, depositErr := a.Config.InitialDepositAmount()
	if depositErr != nil {
		return nil, depositErr
	}

	conn, connErr := pgrepo.Connect(ctx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return nil, connErr
	}

	unitOfWork, uowErr := pgrepo.NewUnitOfWork(conn)
	if uowErr != nil {
		conn.Close()
		return nil, uowErr
	}

	hasher := psswd.New(bcrypt.DefaultCost)
	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:      []byte(a.Config.JWTUserSecret),
		InitialDeposit: initialDeposit,
		Hasher:         hasher,
		Clock:          service.SystemClock,
	})
	if sErr != nil {
		conn.Close()
		return nil, sErr
	}

	return &deps{conn: conn, uow: unitOfWork, services: services, hasher: hasher}, nil
}

// Run поднимает HTTP API и работает до SIGINT/SIGTERM.
func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"RunAddress":    a.Config.RunAddress,
		"MigrationsDir": a.Config.MigrationsDir,
	}).Info("starting billing api")

	rt, rtErr := a.bootstrap(notifyCtx)
	if rtErr != nil {
		return fmt.Errorf("app run: %w", rtErr)
	}
	defer rt.conn.Close()

	router, routerErr := api.New(api.RouterArgs{
		Logger:             a.Logger,
		UserService:        rt.services.UserService,
		PaymentService:     rt.services.PaymentService,
		TransactionService: rt.services.TransactionService,
		CourseService:      rt.services.CourseService,
		JWTSecretKey:       []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %w", routerErr)
	}

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd
	}

	errChan := make(chan error, 1)
	go func() {
		if runErr := srv.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app shutdown: %w", err)
		}
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

// NotifyExpiring рассылает уведомления об аренде, истекающей завтра.
func (a *App) NotifyExpiring(ctx context.Context) error {
	rt, rtErr := a.bootstrap(ctx)
	if rtErr != nil {
		return fmt.Errorf("notify expiring: %w", rtErr)
	}
	defer rt.conn.Close()

	result, err := a.newNotifier(rt).NotifyExpiring(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("notify expiring: %w", err)
	}
	a.Logger.WithFields(logrus.Fields{"sent": result.Sent, "failed": result.Failed}).
		Info("expiring rentals notification finished")
	return nil
}

// PaymentReport рассылает отчеты об оплатах за прошлый календарный месяц.
func (a *App) PaymentReport(ctx context.Context) error {
	rt, rtErr := a.bootstrap(ctx)
	if rtErr != nil {
		return fmt.Errorf("payment report: %w", rtErr)
	}
	defer rt.conn.Close()

	month := service.PreviousMonth(time.Now())
	result, err := a.newNotifier(rt).SendPaymentReports(ctx, month)
	if err != nil {
		return fmt.Errorf("payment report: %w", err)
	}
	a.Logger.WithFields(logrus.Fields{
		"month":  month.Format("2006-01"),
		"sent":   result.Sent,
		"failed": result.Failed,
	}).Info("payment reports finished")
	return nil
}

// LoadFixtures записывает в базу демо юзеров и курсы. Файл берется из конфига, иначе встроенный набор.
func (a *App) LoadFixtures(ctx context.Context) error {
	fx, fxErr := a.readFixtures()
	if fxErr != nil {
		return fmt.Errorf("load fixtures: %w", fxErr)
	}

	rt, rtErr := a.bootstrap(ctx)
	if rtErr != nil {
		return fmt.Errorf("load fixtures: %w", rtErr)
	}
	defer rt.conn.Close()

	loader := fixtures.NewLoader(rt.uow, rt.hasher, rt.services.PaymentService, a.Logger)
	return loader.Load(ctx, fx) //nolint:wrapcheck
}

func (a *App) readFixtures() (*fixtures.Fixtures, error) {
	if a.Config.FixturesFile == "" {
		return fixtures.Default() //nolint:wrapcheck
	}
	f, openErr := os.Open(a.Config.FixturesFile)
	if openErr != nil {
		return nil, fmt.Errorf("open fixtures file: %w", openErr)
	}
	defer f.Close()
	return fixtures.Parse(f) //nolint:wrapcheck
}

func (a *App) newNotifier(rt *deps) *notify.Notifier {
	mail := a.Config.Mail

	var sender notify.Sender
	if mail.WebhookURL != "" {
		sender = notify.NewWebhookSender(mail.WebhookURL)
	} else {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     mail.Host,
			Port:     mail.Port,
			User:     mail.User,
			Password: mail.Password,
		})
	}

	return notify.New(rt.services.ReportService, sender, mail.From, a.Logger).
		SetWorkers(mail.Workers)
}
