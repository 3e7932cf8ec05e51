package queue

import (
	"agreetime-api/core/logger"

	"github.com/hibiken/asynq"
)

// Client wraps the asynq producer used for fire-and-forget task dispatch.
type Client struct {
	client *asynq.Client
}

var instance *Client

type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func redisOpt(cfg QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

func InitClient(cfg QueueConfig) *Client {
	instance = &Client{client: asynq.NewClient(redisOpt(cfg))}
	logger.Info("Task queue client initialized", "addr", cfg.RedisAddr)
	return instance
}

func GetClient() *Client {
	return instance
}

// Enqueue submits a task. Delivery failures are asynq's to retry; an enqueue
// failure is logged and otherwise ignored so it can never roll back a state
// transition.
func (c *Client) Enqueue(task *asynq.Task, opts ...asynq.Option) {
	info, err := c.client.Enqueue(task, opts...)
	if err != nil {
		logger.Error("Queue:Enqueue", err, "type", task.Type())
		return
	}
	logger.Debug("Queue:Enqueue", "type", task.Type(), "id", info.ID, "queue", info.Queue)
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NewServer builds the asynq worker server. Handlers are registered on the
// returned mux by the modules that own them.
func NewServer(cfg QueueConfig) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})
	return srv, asynq.NewServeMux()
}
