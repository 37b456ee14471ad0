package notification

import (
	"agriVest/domain"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type fakeNotifRepo struct {
	mu    sync.Mutex
	items []domain.Notification
	err   error
}

func (r *fakeNotifRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uint(len(r.items) + 1)
	r.items = append(r.items, *n)
	return nil
}

func (r *fakeNotifRepo) FindByUser(_ context.Context, userID uint) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotifRepo) MarkRead(_ context.Context, id, userID uint) error {
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeTransport struct {
	mu    sync.Mutex
	sent  []domain.Mail
	fails int
}

func (t *fakeTransport) Send(_ context.Context, mail domain.Mail) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fails > 0 {
		t.fails--
		return errors.New("smtp down")
	}
	t.sent = append(t.sent, mail)
	return nil
}

// memQueue mirrors the pending/processing list pair of the Redis queue.
type memQueue struct {
	pending    []domain.MailJob
	processing map[string]domain.MailJob
	seq        int
}

func newMemQueue() *memQueue {
	return &memQueue{processing: map[string]domain.MailJob{}}
}

func (q *memQueue) Enqueue(_ context.Context, job domain.MailJob) error {
	q.pending = append(q.pending, job)
	return nil
}

func (q *memQueue) Reserve(_ context.Context, _ time.Duration) (domain.MailJob, string, error) {
	if len(q.pending) == 0 {
		time.Sleep(time.Millisecond)
		return domain.MailJob{}, "", domain.ErrQueueEmpty
	}
	job := q.pending[0]
	q.pending = q.pending[1:]
	q.seq++
	receipt := fmt.Sprintf("%s#%d", job.ID, q.seq)
	q.processing[receipt] = job
	return job, receipt, nil
}

func (q *memQueue) Ack(_ context.Context, receipt string) error {
	delete(q.processing, receipt)
	return nil
}

func (q *memQueue) Retry(_ context.Context, receipt string, job domain.MailJob) error {
	delete(q.processing, receipt)
	q.pending = append(q.pending, job)
	return nil
}

func (q *memQueue) RecoverInFlight(_ context.Context) (int, error) {
	n := 0
	for receipt, job := range q.processing {
		q.pending = append(q.pending, job)
		delete(q.processing, receipt)
		n++
	}
	return n, nil
}
