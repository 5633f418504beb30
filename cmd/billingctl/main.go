// billingctl запускает разовые задачи биллинга: рассылки и загрузку фикстур.
//
//	billingctl notify-expiring [flags]
//	billingctl payment-report [flags]
//	billingctl load-fixtures [flags]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsdevblog/study-billing/internal/app"
	"github.com/fsdevblog/study-billing/internal/config"
	"github.com/fsdevblog/study-billing/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: billingctl <notify-expiring|payment-report|load-fixtures> [flags]")
}

func main() {
	if len(os.Args) < 2 { //nolint:mnd
		usage()
		os.Exit(2) //nolint:mnd
	}

	conf := config.MustLoadConfig(os.Args[2:])
	l := logger.New(os.Stdout)
	a := app.New(conf, l)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "notify-expiring":
		err = a.NotifyExpiring(ctx)
	case "payment-report":
		err = a.PaymentReport(ctx)
	case "load-fixtures":
		err = a.LoadFixtures(ctx)
	default:
		usage()
		os.Exit(2) //nolint:mnd
	}

	if err != nil {
		l.WithError(err).Errorf("%s failed", os.Args[1])
		stop()
		os.Exit(1)
	}
}
