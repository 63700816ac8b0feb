// Package job wraps background work (solver runs, confirm-window
// auto-transitions) as Asynq tasks, following the teacher's asynq client
// construction and task-registration pattern.
package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/shiftsync/scheduler/internal/entity"
	"github.com/shiftsync/scheduler/internal/metrics"
)

const (
	TypeGenerateSchedule = "schedule:generate"
	TypeExpireConfirms   = "assignment:expire_confirms"
)

// GenerateSchedulePayload is the task payload for TypeGenerateSchedule.
type GenerateSchedulePayload struct {
	ScheduleID   uuid.UUID `json:"schedule_id"`
	RequestedBy  uuid.UUID `json:"requested_by"`
	Seed         int64     `json:"seed"`
}

// ExpireConfirmsPayload is the task payload for TypeExpireConfirms.
type ExpireConfirmsPayload struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
}

// Scheduler enqueues background tasks; it never executes them itself.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler dials redisAddr and verifies connectivity before returning,
// mirroring the construction-time ping used throughout this codebase's
// other network-backed clients.
func NewScheduler(redisAddr string) (*Scheduler, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr})
	defer inspector.Close()
	if _, err := inspector.Queues(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect asynq redis: %w", err)
	}
	return &Scheduler{client: client}, nil
}

func (s *Scheduler) Close() error { return s.client.Close() }

// EnqueueGenerateSchedule schedules a solver run for scheduleID.
func (s *Scheduler) EnqueueGenerateSchedule(ctx context.Context, payload GenerateSchedulePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(TypeGenerateSchedule, data)
	if _, err := s.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(2),
		asynq.Timeout(45*time.Second),
		asynq.Queue("solver"),
	); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeGenerateSchedule, err)
	}
	metrics.JobsEnqueuedTotal.WithLabelValues(TypeGenerateSchedule).Inc()
	return nil
}

// EnqueueExpireConfirms schedules the confirm-window sweep for scheduleID to
// run one minute after a full entity.ConfirmWindow has passed.
func (s *Scheduler) EnqueueExpireConfirms(ctx context.Context, scheduleID uuid.UUID) error {
	data, err := json.Marshal(ExpireConfirmsPayload{ScheduleID: scheduleID})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(TypeExpireConfirms, data)
	if _, err := s.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Second),
		asynq.Queue("default"),
		asynq.ProcessIn(entity.ConfirmWindow+time.Minute),
	); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeExpireConfirms, err)
	}
	metrics.JobsEnqueuedTotal.WithLabelValues(TypeExpireConfirms).Inc()
	return nil
}
