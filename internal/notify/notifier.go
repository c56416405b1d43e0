// Package notify はインポート結果をメッセンジャーゲートウェイ経由で管理者チャンネルへ通知する。
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/interview-assist/api/internal/admin/application"
	"go.uber.org/zap"
)

// Failure は全チャンネルへの送信に失敗した通知の記録。
type Failure struct {
	Target   string
	Payload  map[string]string
	Error    string
	Attempts int
	At       time.Time
}

// FailureStore persists notifications that could not be delivered.
type FailureStore interface {
	SaveFailure(ctx context.Context, failure Failure) error
}

// ImportSummary は 1 回のインポートの通知内容。
type ImportSummary struct {
	Actor          string
	FileName       string
	UpdateExisting bool
	Result         application.ImportResult
	Err            error
}

// Config configures a Notifier.
type Config struct {
	GatewayURL         string
	DiscordDestination string
	SlackDestination   string
	Timeout            time.Duration
	HTTPClient         *http.Client
	Failures           FailureStore
	Logger             *zap.Logger
	// RetryDelay は Discord 送信のリトライ間隔。
	RetryDelay time.Duration
}

// Notifier posts import summaries to Discord first, then Slack as a fallback.
type Notifier struct {
	endpoint   string
	discord    string
	slack      string
	httpClient *http.Client
	failures   FailureStore
	logger     *zap.Logger
	retryDelay time.Duration
}

const discordAttempts = 3

func New(cfg Config) *Notifier {
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	delay := cfg.RetryDelay
	if delay < 0 {
		delay = 0
	}
	return &Notifier{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.GatewayURL), "/"),
		discord:    strings.TrimSpace(cfg.DiscordDestination),
		slack:      strings.TrimSpace(cfg.SlackDestination),
		httpClient: client,
		failures:   cfg.Failures,
		logger:     logger,
		retryDelay: delay,
	}
}

// Enabled reports whether a gateway and at least one destination are configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.endpoint != "" && (n.discord != "" || n.slack != "")
}

// NotifyImport はインポート結果を通知する。送信エラーは呼び出し元に返さずログと failed_notifications に残す。
func (n *Notifier) NotifyImport(ctx context.Context, summary ImportSummary) {
	if !n.Enabled() {
		return
	}
	identifier := strings.TrimSpace(summary.Actor)
	if identifier == "" {
		identifier = "admin"
	}

	var discordErr, slackErr error
	attempts := 0

	if n.discord != "" {
		discordErr = n.sendWithRetry(ctx, n.discord, identifier, buildDiscordMessage(summary), discordAttempts)
		attempts += discordAttempts
		if discordErr == nil {
			return
		}
		n.logger.Warn("Discord通知の送信に失敗", zap.Error(discordErr))
	}

	if n.slack != "" {
		slackErr = n.sendWithRetry(ctx, n.slack, identifier, buildSlackMessage(summary), 1)
		attempts++
		if slackErr == nil {
			return
		}
		n.logger.Warn("Slack通知の送信に失敗", zap.Error(slackErr))
	}

	n.persistFailure(ctx, identifier, summary, errors.Join(discordErr, slackErr), attempts)
}

func (n *Notifier) sendWithRetry(ctx context.Context, destination, identifier, text string, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = n.send(ctx, destination, identifier, text); lastErr == nil {
			return nil
		}
		if i == attempts-1 || n.retryDelay == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return errors.Join(lastErr, ctx.Err())
		case <-time.After(n.retryDelay):
		}
	}
	return lastErr
}

func (n *Notifier) send(ctx context.Context, destination, identifier, text string) error {
	body, err := json.Marshal(map[string]string{
		"userId":      identifier,
		"text":        text,
		"destination": destination,
	})
	if err != nil {
		return fmt.Errorf("メッセンジャー送信用ペイロードの作成に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストに失敗: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return fmt.Errorf("メッセンジャー送信でエラーが発生: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

func (n *Notifier) persistFailure(ctx context.Context, identifier string, summary ImportSummary, err error, attempts int) {
	if n.failures == nil || err == nil {
		return
	}
	payload := map[string]string{
		"identifier":     identifier,
		"fileName":       summary.FileName,
		"updateExisting": fmt.Sprintf("%t", summary.UpdateExisting),
		"inserted":       fmt.Sprintf("%d", summary.Result.Inserted),
		"updated":        fmt.Sprintf("%d", summary.Result.Updated),
		"deactivated":    fmt.Sprintf("%d", summary.Result.Deactivated),
	}
	if summary.Err != nil {
		payload["importError"] = summary.Err.Error()
	}
	failure := Failure{
		Target:   "import_summary",
		Payload:  payload,
		Error:    err.Error(),
		Attempts: attempts,
		At:       time.Now().UTC(),
	}
	if saveErr := n.failures.SaveFailure(ctx, failure); saveErr != nil {
		n.logger.Error("failed_notifications への保存に失敗", zap.Error(saveErr))
	}
}
