package redis

import (
	"agriVest/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pendingKey    = "agrivest:mail:pending"
	processingKey = "agrivest:mail:processing"
)

// MailQueue is a reliable list-based queue: reserved jobs sit in a
// processing list until acknowledged, so a crash never loses them.
type MailQueue struct {
	client *redis.Client
}

func NewMailQueue(client *redis.Client) *MailQueue {
	return &MailQueue{
		client: client,
	}
}

func (q *MailQueue) Enqueue(ctx context.Context, job domain.MailJob) error {
	payload, err := encodeJob(job)
	if err != nil {
		return err
	}

	if err := q.client.LPush(ctx, pendingKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue mail job: %w", err)
	}

	return nil
}

// Reserve blocks up to wait for the next job. The returned receipt identifies
// the job in the processing list for Ack and Retry.
func (q *MailQueue) Reserve(ctx context.Context, wait time.Duration) (domain.MailJob, string, error) {
	raw, err := q.client.BLMove(ctx, pendingKey, processingKey, "RIGHT", "LEFT", wait).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.MailJob{}, "", domain.ErrQueueEmpty
		}
		return domain.MailJob{}, "", fmt.Errorf("failed to reserve mail job: %w", err)
	}

	job, err := decodeJob(raw)
	if err != nil {
		// unreadable payloads are dropped so they cannot wedge the worker
		_ = q.client.LRem(ctx, processingKey, 1, raw).Err()
		return domain.MailJob{}, "", err
	}

	return job, raw, nil
}

func (q *MailQueue) Ack(ctx context.Context, receipt string) error {
	if err := q.client.LRem(ctx, processingKey, 1, receipt).Err(); err != nil {
		return fmt.Errorf("failed to ack mail job: %w", err)
	}

	return nil
}

// Retry swaps the reserved job for job (usually with a bumped attempt count)
// at the tail of the pending list.
func (q *MailQueue) Retry(ctx context.Context, receipt string, job domain.MailJob) error {
	payload, err := encodeJob(job)
	if err != nil {
		return err
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, processingKey, 1, receipt)
		pipe.LPush(ctx, pendingKey, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to retry mail job: %w", err)
	}

	return nil
}

// RecoverInFlight moves jobs left in the processing list by a previous run
// back to pending.
func (q *MailQueue) RecoverInFlight(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.LMove(ctx, processingKey, pendingKey, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("failed to recover mail jobs: %w", err)
		}
		moved++
	}
}

func encodeJob(job domain.MailJob) (string, error) {
	b, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal mail job: %w", err)
	}
	return string(b), nil
}

func decodeJob(raw string) (domain.MailJob, error) {
	var job domain.MailJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return domain.MailJob{}, fmt.Errorf("failed to unmarshal mail job: %w", err)
	}
	return job, nil
}
