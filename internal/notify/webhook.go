package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

type webhookPayload struct {
	RunID   string `json:"run_id"`
	Manga   string `json:"manga"`
	Lang    string `json:"lang"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Message string `json:"message"`
	Folder  string `json:"folder"`
}

// Webhook POSTs the release as JSON. 5xx and transport errors are retried,
// 4xx is not.
type Webhook struct {
	URL   string
	RunID string

	Client   *http.Client
	Attempts uint
	Delay    time.Duration
}

func NewWebhook(url, runID string) *Webhook {
	return &Webhook{
		URL:      url,
		RunID:    runID,
		Client:   &http.Client{Timeout: 10 * time.Second},
		Attempts: 3,
		Delay:    time.Second,
	}
}

func (w *Webhook) Send(ctx context.Context, r Release) error {
	body, err := json.Marshal(webhookPayload{
		RunID:   w.RunID,
		Manga:   r.Manga,
		Lang:    r.Lang,
		Start:   r.Start.String(),
		End:     r.End.String(),
		Message: r.Message(),
		Folder:  r.Folder,
	})
	if err != nil {
		return err
	}

	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := w.Client.Do(req)
			if err != nil {
				return err
			}
			_ = resp.Body.Close()

			switch {
			case resp.StatusCode >= 500:
				return fmt.Errorf("webhook status: %d", resp.StatusCode)
			case resp.StatusCode >= 300:
				return retry.Unrecoverable(fmt.Errorf("webhook status: %d", resp.StatusCode))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(w.Attempts),
		retry.Delay(w.Delay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return fmt.Errorf("webhook notification: %w", err)
	}
	return nil
}
