package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smart-schedule/core/config"
	"smart-schedule/core/constants"
	"smart-schedule/core/logger"

	"github.com/hibiken/asynq"
)

// BookingConfirmedPayload is the body of a constants.TaskBookingConfirmed task.
type BookingConfirmedPayload struct {
	RequestID       string    `json:"request_id"`
	ExternalEventID string    `json:"external_event_id"`
	HostID          string    `json:"host_id"`
	EventID         string    `json:"event_id"`
	EventTitle      string    `json:"event_title"`
	GuestEmail      string    `json:"guest_email"`
	GuestName       string    `json:"guest_name"`
	GuestNotes      string    `json:"guest_notes,omitempty"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Timezone        string    `json:"timezone"`
}

// Publisher enqueues background work.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, payload BookingConfirmedPayload) error
	Close() error
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

type asynqPublisher struct {
	client *asynq.Client
}

func NewPublisher(cfg config.RedisConfig) Publisher {
	return &asynqPublisher{client: asynq.NewClient(RedisOpt(cfg))}
}

func NewBookingConfirmedTask(payload BookingConfirmedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode booking payload: %w", err)
	}
	return asynq.NewTask(constants.TaskBookingConfirmed, body,
		asynq.MaxRetry(constants.TaskMaxRetry),
		asynq.Queue(constants.QueueDefault),
	), nil
}

func ParseBookingConfirmed(t *asynq.Task) (BookingConfirmedPayload, error) {
	var p BookingConfirmedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode booking payload: %w: %w", err, asynq.SkipRetry)
	}
	return p, nil
}

func (p *asynqPublisher) PublishBookingConfirmed(ctx context.Context, payload BookingConfirmedPayload) error {
	task, err := NewBookingConfirmedTask(payload)
	if err != nil {
		return err
	}
	opts := []asynq.Option{}
	if payload.RequestID != "" {
		opts = append(opts, asynq.TaskID(payload.RequestID))
	}
	info, err := p.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", constants.TaskBookingConfirmed, err)
	}
	logger.Info("Queue:PublishBookingConfirmed", "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (p *asynqPublisher) Close() error {
	return p.client.Close()
}

// NewServer builds the worker server. Handlers are registered on the returned mux.
func NewServer(cfg config.RedisConfig, concurrency int) (*asynq.Server, *asynq.ServeMux) {
	if concurrency <= 0 {
		concurrency = 10
	}
	srv := asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{constants.QueueDefault: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Queue:Worker:TaskFailed", "type", task.Type(), "error", err)
		}),
	})
	return srv, asynq.NewServeMux()
}
