package notify

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Константы минимального и максимально значения в заголовке Retry-After.
const (
	minRetryAfter     = 1
	maxRetryAfter     = 120
	defaultRetryAfter = 60
)

// WebhookSender передает письма почтовому шлюзу POST запросом с json телом Message.
type WebhookSender struct {
	url        string
	httpClient *http.Client
}

func NewWebhookSender(url string) *WebhookSender {
	return &WebhookSender{
		url:        url,
		httpClient: http.DefaultClient,
	}
}

// Send отправляет письмо шлюзу. Любой ответ 2xx считается успехом. Для http.StatusTooManyRequests
// возвращает TooManyRequestError, для остальных статусов StatusCodeError.
//
//nolint:nonamedreturns
func (w *WebhookSender) Send(ctx context.Context, msg Message) (err error) {
	payload, jsonErr := json.Marshal(msg)
	if jsonErr != nil {
		return errors.Wrap(jsonErr, "marshal message")
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if reqErr != nil {
		return errors.Wrap(reqErr, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, doErr := w.httpClient.Do(req)
	if doErr != nil {
		return errors.Wrap(doErr, "do request")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = stderrors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return NewTooManyRequestError(parseRetryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewStatusCodeError(resp.StatusCode)
	}
	return nil
}

func parseRetryAfter(value string) time.Duration {
	minValue := decimal.NewFromInt(minRetryAfter)
	maxValue := decimal.NewFromInt(maxRetryAfter)

	retryAfter, parseErr := decimal.NewFromString(value)
	if parseErr != nil || retryAfter.LessThan(minValue) || retryAfter.GreaterThan(maxValue) {
		retryAfter = decimal.NewFromInt(defaultRetryAfter)
	}
	return time.Duration(retryAfter.IntPart()) * time.Second
}
