package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"resto_pos_terminal/internal/models"
)

// DefaultNotificationDuration is how long a toast stays up when no duration is given.
const DefaultNotificationDuration = 4000 * time.Millisecond

// FeedbackService is the terminal's channel for toasts and confirmation dialogs.
// Confirmation dialogs are queued: only the oldest is shown, and each caller
// receives its own answer.
type FeedbackService interface {
	Notify(in models.NotifyInput) string
	Dismiss(id string)
	Notifications() []models.Notification
	Confirm(ctx context.Context, opts models.ConfirmOptions) (bool, error)
	ActiveDialog() *models.Dialog
	Resolve(dialogID string, accepted bool) error
}

type toast struct {
	n     models.Notification
	timer *time.Timer
}

type pendingDialog struct {
	id     string
	opts   models.ConfirmOptions
	answer chan bool
}

type feedbackService struct {
	defaultDuration time.Duration
	now             func() time.Time

	mu      sync.Mutex
	toasts  []*toast
	dialogs []*pendingDialog
}

// NewFeedbackService creates a feedback service. A non-positive defaultDuration
// falls back to DefaultNotificationDuration.
func NewFeedbackService(defaultDuration time.Duration) FeedbackService {
	if defaultDuration <= 0 {
		defaultDuration = DefaultNotificationDuration
	}
	return &feedbackService{defaultDuration: defaultDuration, now: time.Now}
}

// Notify queues a toast and returns its id. Notifying with the id of a queued
// toast replaces it in place and restarts its timer. A negative duration keeps
// the toast until it is dismissed.
func (s *feedbackService) Notify(in models.NotifyInput) string {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	tone := in.Tone
	switch tone {
	case models.ToneInfo, models.ToneSuccess, models.ToneWarning, models.ToneError:
	default:
		tone = models.ToneInfo
	}
	duration := in.Duration
	if duration == 0 {
		duration = s.defaultDuration
	}

	created := s.now()
	t := &toast{n: models.Notification{
		ID:          id,
		Tone:        tone,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   created,
	}}
	if duration > 0 {
		expires := created.Add(duration)
		t.n.ExpiresAt = &expires
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if duration > 0 {
		t.timer = time.AfterFunc(duration, func() { s.expire(t) })
	}
	for i, existing := range s.toasts {
		if existing.n.ID == id {
			if existing.timer != nil {
				existing.timer.Stop()
			}
			s.toasts[i] = t
			return id
		}
	}
	s.toasts = append(s.toasts, t)
	return id
}

// expire removes t unless it was already replaced or dismissed.
func (s *feedbackService) expire(t *toast) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.toasts {
		if existing == t {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}

func (s *feedbackService) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.toasts {
		if existing.n.ID == id {
			if existing.timer != nil {
				existing.timer.Stop()
			}
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}

func (s *feedbackService) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, 0, len(s.toasts))
	for _, t := range s.toasts {
		out = append(out, t.n)
	}
	return out
}

// Confirm queues a dialog and blocks until it is resolved or ctx is done.
// A cancelled caller leaves the queue and gets ctx.Err().
func (s *feedbackService) Confirm(ctx context.Context, opts models.ConfirmOptions) (bool, error) {
	d := &pendingDialog{id: uuid.NewString(), opts: opts, answer: make(chan bool, 1)}

	s.mu.Lock()
	s.dialogs = append(s.dialogs, d)
	s.mu.Unlock()

	select {
	case accepted := <-d.answer:
		return accepted, nil
	case <-ctx.Done():
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.removeDialogLocked(d.id) {
			return false, ctx.Err()
		}
		// Resolved while the context was being cancelled.
		return <-d.answer, nil
	}
}

// ActiveDialog returns the dialog currently shown, or nil.
func (s *feedbackService) ActiveDialog() *models.Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.dialogs) == 0 {
		return nil
	}
	head := s.dialogs[0]
	return &models.Dialog{ID: head.id, Options: head.opts, Pending: len(s.dialogs) - 1}
}

// Resolve answers the active dialog. Queued dialogs cannot be answered out of turn.
func (s *feedbackService) Resolve(dialogID string, accepted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.dialogs {
		if d.id != dialogID {
			continue
		}
		if i != 0 {
			return fmt.Errorf("%w: dialog %s is not the active dialog", ErrInvalidState, dialogID)
		}
		s.dialogs = s.dialogs[1:]
		d.answer <- accepted
		return nil
	}
	return fmt.Errorf("%w: dialog %s", ErrNotFound, dialogID)
}

func (s *feedbackService) removeDialogLocked(id string) bool {
	for i, d := range s.dialogs {
		if d.id == id {
			s.dialogs = append(s.dialogs[:i], s.dialogs[i+1:]...)
			return true
		}
	}
	return false
}
