// Package notify рассылает юзерам письма об окончании аренды курсов и ежемесячные отчеты об оплатах.
package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultSendTimeout      = 10 * time.Second
	defaultWorkers     uint = 5
	defaultMaxAttempts uint = 3
)

// Result итог рассылки.
type Result struct {
	Sent   int
	Failed int
}

// Notifier формирует письма по данным Reporter и отправляет их через Sender. Ошибка доставки одного письма
// логируется и не прерывает рассылку остальным.
type Notifier struct {
	reporter    Reporter
	sender      Sender
	from        string
	l           *logrus.Entry
	workers     uint
	maxAttempts uint
}

func New(reporter Reporter, sender Sender, from string, l *logrus.Logger) *Notifier {
	return &Notifier{
		reporter: reporter,
		sender:   sender,
		from:     from,
		l: l.WithFields(logrus.Fields{
			"component": "notify",
		}),
		workers:     defaultWorkers,
		maxAttempts: defaultMaxAttempts,
	}
}

// SetWorkers устанавливает кол-во воркеров, параллельно отправляющих письма.
func (n *Notifier) SetWorkers(workers uint) *Notifier {
	if workers > 0 {
		n.workers = workers
	}
	return n
}

// SetMaxAttempts устанавливает кол-во попыток отправки письма при ответе TooManyRequestError.
func (n *Notifier) SetMaxAttempts(attempts uint) *Notifier {
	if attempts > 0 {
		n.maxAttempts = attempts
	}
	return n
}

// NotifyExpiring отправляет по одному письму каждому юзеру, у которого завтра относительно asOf
// заканчивается аренда хотя бы одного курса.
func (n *Notifier) NotifyExpiring(ctx context.Context, asOf time.Time) (Result, error) {
	l := n.l.WithField("job", "expiring")
	l.WithField("asOf", asOf).Info("Starting")

	digest, err := n.reporter.ExpiringRentalDigest(ctx, asOf)
	if err != nil {
		return Result{}, err //nolint:wrapcheck
	}

	var result Result
	var messages []Message
	for group := range digest {
		msg, msgErr := ExpiringMessage(n.from, group)
		if msgErr != nil {
			l.WithError(msgErr).WithField("email", group.Email).Error("render message")
			result.Failed++
			continue
		}
		messages = append(messages, msg)
	}

	result = result.add(n.deliver(ctx, l, messages))
	l.WithFields(logrus.Fields{"sent": result.Sent, "failed": result.Failed}).Info("Done")
	return result, nil
}

// SendPaymentReports отправляет отчеты об оплатах за месяц, в который попадает month. Юзеры без оплат
// за период письма не получают.
func (n *Notifier) SendPaymentReports(ctx context.Context, month time.Time) (Result, error) {
	l := n.l.WithField("job", "payment-report")

	users, usersErr := n.reporter.ReportUsers(ctx)
	if usersErr != nil {
		return Result{}, usersErr //nolint:wrapcheck
	}
	if len(users) == 0 {
		l.Info("No users")
		return Result{}, nil
	}

	reports, reportsErr := n.reporter.MonthlyPaymentReport(ctx, users, month)
	if reportsErr != nil {
		return Result{}, reportsErr //nolint:wrapcheck
	}

	var result Result
	messages := make([]Message, 0, len(reports))
	for _, report := range reports {
		msg, msgErr := ReportMessage(n.from, report)
		if msgErr != nil {
			l.WithError(msgErr).WithField("email", report.Email).Error("render message")
			result.Failed++
			continue
		}
		messages = append(messages, msg)
	}
	if len(messages) > 0 {
		l.WithField("subject", messages[0].Subject).Info("Starting")
	}

	result = result.add(n.deliver(ctx, l, messages))
	l.WithFields(logrus.Fields{"sent": result.Sent, "failed": result.Failed}).Info("Done")
	return result, nil
}

func (r Result) add(other Result) Result {
	return Result{Sent: r.Sent + other.Sent, Failed: r.Failed + other.Failed}
}

type sendResult struct {
	WorkerID uint
	Msg      Message
	Attempt  uint
	Error    error
}

// deliver раздает письма воркерам и собирает результаты отправки (fan-out/fan-in).
func (n *Notifier) deliver(ctx context.Context, l *logrus.Entry, messages []Message) Result {
	var result Result
	if len(messages) == 0 {
		return result
	}

	taskCh := make(chan Message, len(messages))
	for _, msg := range messages {
		taskCh <- msg
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	wg.Add(int(n.workers)) //nolint:gosec

	resultCh := make(chan sendResult, len(messages))
	for i := range n.workers {
		go n.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()
	close(resultCh)

	for res := range resultCh {
		entry := l.WithFields(logrus.Fields{
			"worker":  res.WorkerID,
			"email":   res.Msg.To,
			"attempt": res.Attempt,
		})
		if res.Error != nil {
			entry.WithError(res.Error).Error("send message")
			result.Failed++
			continue
		}
		entry.Info("Sent")
		result.Sent++
	}

	// письма, которые воркеры не успели взять до отмены контекста.
	result.Failed += len(messages) - result.Sent - result.Failed
	return result
}

func (n *Notifier) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan Message,
	resultCh chan<- sendResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-taskCh:
			if !ok {
				return
			}
			resultCh <- n.send(ctx, workerID, msg)
		}
	}
}

// send отправляет письмо. При TooManyRequestError ждет указанное время и повторяет попытку, но не больше
// maxAttempts раз.
func (n *Notifier) send(ctx context.Context, workerID uint, msg Message) sendResult {
	res := sendResult{WorkerID: workerID, Msg: msg}
	for {
		res.Attempt++
		sendCtx, cancel := context.WithTimeout(ctx, defaultSendTimeout)
		err := n.sender.Send(sendCtx, msg)
		cancel()

		if err == nil {
			res.Error = nil
			return res
		}
		res.Error = err

		var tooManyReq *TooManyRequestError
		if !errors.As(err, &tooManyReq) || res.Attempt >= n.maxAttempts {
			return res
		}

		select {
		case <-ctx.Done():
			res.Error = ctx.Err()
			return res
		case <-time.After(tooManyReq.RetryAfter):
		}
	}
}
