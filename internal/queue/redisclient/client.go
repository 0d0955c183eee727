package redisclient

import (
	"context"
	"errors"
	"time"

	"libraryhub/internal/jobs"

	"github.com/redis/go-redis/v9"
)

// NotificationQueue is the Redis list the API pushes borrow-confirmation jobs
// onto and the worker pops from.
const NotificationQueue = "libraryhub:notifications"

var ErrEmpty = errors.New("queue empty")

type Client struct {
	redisdb *redis.Client
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

func New(cfg Config) *Client {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Client{redisdb: redisdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.redisdb.Close()
}

// Enqueue pushes a job onto the notification queue.
func (c *Client) Enqueue(ctx context.Context, j jobs.Job) error {
	raw, err := j.Marshal()

	if err != nil {
		return err
	}

	return c.redisdb.LPush(ctx, NotificationQueue, raw).Err()
}

// Dequeue blocks up to timeout for the next job. ErrEmpty when nothing
// arrived inside the window.
func (c *Client) Dequeue(ctx context.Context, timeout time.Duration) (jobs.Job, error) {
	res, err := c.redisdb.BRPop(ctx, timeout, NotificationQueue).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return jobs.Job{}, ErrEmpty
		}

		return jobs.Job{}, err
	}

	// BRPop returns [key, value]
	if len(res) != 2 {
		return jobs.Job{}, jobs.ErrMalformedJob
	}

	return jobs.UnmarshalJob([]byte(res[1]))
}

// Raw exposes the underlying client for health checks and tooling.
func (c *Client) Raw() *redis.Client {
	return c.redisdb
}
