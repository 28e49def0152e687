package retry

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"time"
)

// ErrPermanent で包んだエラーはリトライしない
var ErrPermanent = errors.New("permanent failure")

// Config はリトライの設定を保持する
type Config struct {
	Attempts     int
	BaseInterval time.Duration
	MaxBackoff   time.Duration
}

// DefaultConfig はデフォルトのリトライ設定を返す
func DefaultConfig() Config {
	return Config{
		Attempts:     6,
		BaseInterval: 200 * time.Millisecond,
		MaxBackoff:   5 * time.Second,
	}
}

// Backoff は指数バックオフ + ジッターを計算する
func Backoff(attempt int, baseInterval, maxBackoff time.Duration) time.Duration {
	d := baseInterval << attempt
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	// +/-10% jitter
	return time.Duration(int64(d) * int64(9+rand.IntN(3)) / 10)
}

// ShouldRetry はエラーに基づいてリトライすべきか判定する
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, ErrPermanent) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// Do は fn が成功するか、リトライ不可のエラーを返すか、試行回数を使い切るまで
// fn を繰り返す。最後のエラーを返す。
func Do(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	attempts := max(cfg.Attempts, 1)

	var err error
	for i := range attempts {
		if err = fn(i); !ShouldRetry(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		timer := time.NewTimer(Backoff(i, cfg.BaseInterval, cfg.MaxBackoff))
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}

	return err
}
