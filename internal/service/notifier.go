package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"unihub/internal/mail"
	"unihub/internal/repository"
)

const notificationBuffer = 100

// Notification announces new club content to members who opted in.
type Notification struct {
	Kind     repository.NotificationKind
	ClubID   uint
	ClubName string
	ActorID  uint
	Text     string
	Location string
	When     time.Time
}

// Notifier queues notifications without blocking the caller.
type Notifier interface {
	Notify(n Notification)
}

// EmailNotifier delivers notifications by email from a single background worker.
type EmailNotifier struct {
	memberships repository.MembershipRepository
	mailer      mail.Mailer
	logger      *zap.Logger
	queue       chan Notification
	wg          sync.WaitGroup

	// mu guards closed; Close holds it while closing queue so Notify never
	// sends on a closed channel.
	mu     sync.RWMutex
	closed bool
	cancel context.CancelFunc
}

// NewEmailNotifier creates a notifier; call Start before use.
func NewEmailNotifier(memberships repository.MembershipRepository, mailer mail.Mailer, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		memberships: memberships,
		mailer:      mailer,
		logger:      logger,
		queue:       make(chan Notification, notificationBuffer),
	}
}

// Start launches the worker. The worker keeps ctx's values but not its
// cancellation: it runs until Close has drained the queue.
func (n *EmailNotifier) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	n.mu.Lock()
	n.cancel = cancel
	n.mu.Unlock()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.worker(workerCtx)
	}()
}

// Close stops accepting notifications and waits for queued ones to be sent.
func (n *EmailNotifier) Close() {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	cancel := n.cancel
	n.mu.Unlock()

	n.wg.Wait()
	if cancel != nil {
		cancel()
	}
}

// Notify enqueues a notification. It is dropped when the queue is full or
// the notifier is closed.
func (n *EmailNotifier) Notify(note Notification) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		n.logger.Warn("notifier closed, dropping notification",
			zap.Uint("club_id", note.ClubID), zap.String("kind", string(note.Kind)))
		return
	}
	select {
	case n.queue <- note:
	default:
		n.logger.Warn("notification queue full, dropping",
			zap.Uint("club_id", note.ClubID), zap.String("kind", string(note.Kind)))
	}
}

func (n *EmailNotifier) worker(ctx context.Context) {
	for note := range n.queue {
		n.deliver(ctx, note)
	}
}

func (n *EmailNotifier) deliver(ctx context.Context, note Notification) {
	recipients, err := n.memberships.ListNotifiable(ctx, note.ClubID, note.Kind)
	if err != nil {
		n.logger.Error("list notification recipients", zap.Uint("club_id", note.ClubID), zap.Error(err))
		return
	}

	subject, body, err := renderNotification(note)
	if err != nil {
		n.logger.Error("render notification", zap.Error(err))
		return
	}

	sent := 0
	for _, m := range recipients {
		if m.UserID == note.ActorID || m.User.Email == "" {
			continue
		}
		if err := n.mailer.Send(ctx, m.User.Email, subject, body); err != nil {
			n.logger.Warn("send notification", zap.Uint("user_id", m.UserID), zap.Error(err))
			continue
		}
		sent++
	}
	n.logger.Debug("notification delivered",
		zap.Uint("club_id", note.ClubID), zap.String("kind", string(note.Kind)), zap.Int("recipients", sent))
}

func renderNotification(note Notification) (subject, body string, err error) {
	if note.Kind == repository.NotifyEvents {
		body, err = mail.RenderEventNotification(note.ClubName, note.Text, note.Location, note.When)
		return "New event in " + note.ClubName, body, err
	}
	body, err = mail.RenderPostNotification(note.ClubName, note.Text)
	return "New post in " + note.ClubName, body, err
}
