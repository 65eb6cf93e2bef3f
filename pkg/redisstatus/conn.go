package redisstatus

import (
	"sync"
	"time"

	"github.com/go-redis/redis"
)

// Conn is a single connection to the server being checked.
type Conn interface {
	Ping() (string, error)
	Info(section string) (string, error)
	Close() error
}

// Options are handed to a Dialer for every check.
type Options struct {
	Addr     string
	Password string
	Timeout  time.Duration
}

// Dialer opens the connection for one check. It must not fail: transport
// errors are reported by the first command issued on the returned Conn.
type Dialer func(opts Options) Conn

type redisConn struct {
	client *redis.Client
}

// DialRedis opens a go-redis client limited to one pooled connection. The
// client connects lazily, so an unreachable server surfaces as a Ping error.
func DialRedis(opts Options) Conn {
	redisOpts := &redis.Options{
		Addr:       opts.Addr,
		Password:   opts.Password,
		PoolSize:   1,
		MaxRetries: 0,
	}

	if opts.Timeout > 0 {
		redisOpts.DialTimeout = opts.Timeout
		redisOpts.ReadTimeout = opts.Timeout
		redisOpts.WriteTimeout = opts.Timeout
		redisOpts.PoolTimeout = opts.Timeout
	}

	return &redisConn{client: redis.NewClient(redisOpts)}
}

func (r *redisConn) Ping() (string, error) {
	return r.client.Ping().Result()
}

func (r *redisConn) Info(section string) (string, error) {
	return r.client.Info(section).Result()
}

func (r *redisConn) Close() error {
	return r.client.Close()
}

// onceConn guards Close so that a check closes its connection exactly once,
// even when a deadline and the worker goroutine both try to.
type onceConn struct {
	Conn

	once sync.Once
	err  error
}

func (c *onceConn) Close() error {
	c.once.Do(func() {
		c.err = c.Conn.Close()
	})
	return c.err
}
