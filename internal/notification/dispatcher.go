package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 3 * time.Second
	defaultQueueSize   = 64
	sendTimeout        = 5 * time.Second
)

// DispatcherConfig tunes the delivery policy. Zero values fall back to the
// defaults (3 attempts, 3s between attempts).
type DispatcherConfig struct {
	MaxAttempts int
	RetryDelay  time.Duration
	QueueSize   int
}

// Dispatcher delivers notifications off the caller's goroutine. Each message
// gets a bounded number of attempts with a fixed delay in between; a message
// that exhausts its attempts is logged and dropped. Delivery outcomes never
// reach the caller that produced the message.
type Dispatcher struct {
	notifier    Notifier
	logger      *slog.Logger
	queue       chan Message
	maxAttempts int
	retryDelay  time.Duration

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher starts a dispatcher with one delivery worker.
func NewDispatcher(notifier Notifier, logger *slog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	d := &Dispatcher{
		notifier:    notifier,
		logger:      logger,
		queue:       make(chan Message, cfg.QueueSize),
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Dispatch enqueues a message without blocking. When the queue is full the
// message is dropped with a warning; notifications are best-effort.
func (d *Dispatcher) Dispatch(message Message) {
	select {
	case d.queue <- message:
	default:
		d.logger.Warn("notification queue full, dropping message",
			"kind", message.Kind, "wallet_id", message.WalletID)
	}
}

// Close stops accepting messages and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for message := range d.queue {
		d.deliver(message)
	}
}

func (d *Dispatcher) deliver(message Message) {
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.notifier.Send(ctx, message)
		cancel()

		if err == nil {
			return
		}

		if attempt == d.maxAttempts {
			d.logger.Error("notification failed permanently",
				"kind", message.Kind, "wallet_id", message.WalletID,
				"attempts", attempt, "error", err)
			return
		}

		d.logger.Warn("notification send failed, retrying",
			"kind", message.Kind, "wallet_id", message.WalletID,
			"attempt", attempt, "error", err)
		time.Sleep(d.retryDelay)
	}
}
