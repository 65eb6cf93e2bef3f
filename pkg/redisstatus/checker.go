// Package redisstatus checks whether a single Redis server is healthy.
package redisstatus

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	pong          = "PONG"
	memorySection = "memory"
)

// Config describes the server a StatusChecker probes. It is read-only once
// handed to New.
type Config struct {
	// Name is only used in the reasons of unhealthy results.
	Name string
	Host string
	Port int

	// Password authenticates the connection; empty means no AUTH.
	Password string

	// MemoryThreshold is the highest used_memory in bytes that is still
	// considered healthy. 0 disables the memory check.
	MemoryThreshold uint64

	// Timeout bounds each check. 0 leaves it to the transport.
	Timeout time.Duration
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// StatusChecker answers whether a single Redis server is healthy. A checker
// may run any number of checks, concurrently or not; every check opens and
// closes its own connection.
type StatusChecker struct {
	cfg        Config
	dial       Dialer
	usedMemory UsedMemoryParser
}

type Option func(*StatusChecker)

// WithDialer replaces the go-redis connection factory.
func WithDialer(d Dialer) Option {
	return func(s *StatusChecker) {
		s.dial = d
	}
}

// WithUsedMemoryParser replaces the positional INFO memory parser.
func WithUsedMemoryParser(p UsedMemoryParser) Option {
	return func(s *StatusChecker) {
		s.usedMemory = p
	}
}

func New(cfg Config, opts ...Option) *StatusChecker {
	s := &StatusChecker{
		cfg:        cfg,
		dial:       DialRedis,
		usedMemory: PositionalUsedMemory,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *StatusChecker) Config() Config {
	return s.cfg
}

// CheckStatus runs one check and returns nil if the server is healthy, an
// *UnhealthyError naming the reason if it is not, or an error wrapping
// ErrMalformedInfo if the memory figure could not be read.
//
// The connection is closed before CheckStatus returns. If ctx ends (or the
// configured timeout expires) first, the check is reported as not
// responsive and whatever the transport answers later is discarded.
func (s *StatusChecker) CheckStatus(ctx context.Context) error {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	conn := &onceConn{Conn: s.dial(Options{
		Addr:     s.cfg.Addr(),
		Password: s.cfg.Password,
		Timeout:  s.cfg.Timeout,
	})}

	done := make(chan error, 1)
	go func() {
		err := s.probe(conn)
		_ = conn.Close()
		done <- err
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		_ = conn.Close()
		err = notResponsive(s.cfg.Name)
	}

	s.logResult(err)
	return err
}

// CheckStatusAsync starts a check and delivers its result on the returned
// channel, which receives exactly one value and is then closed.
func (s *StatusChecker) CheckStatusAsync(ctx context.Context) <-chan error {
	result := make(chan error, 1)

	go func() {
		defer close(result)
		result <- s.CheckStatus(ctx)
	}()

	return result
}

func (s *StatusChecker) probe(conn Conn) error {
	reply, err := conn.Ping()
	if err != nil || reply != pong {
		return notResponsive(s.cfg.Name)
	}

	if s.cfg.MemoryThreshold == 0 {
		return nil
	}

	info, err := conn.Info(memorySection)
	if err != nil {
		return notResponsive(s.cfg.Name)
	}

	used, err := s.usedMemory(info)
	if err != nil {
		return errors.Wrapf(err, "could not read memory usage of %s instance", s.cfg.Name)
	}

	if used > 0 && uint64(used) > s.cfg.MemoryThreshold {
		return highMemory(s.cfg.Name)
	}

	return nil
}

func (s *StatusChecker) logResult(err error) {
	l := log.WithFields(log.Fields{"kind": "probe", "name": s.cfg.Name, "host": s.cfg.Addr()})

	switch {
	case err == nil:
		l.WithField("status", "alive").Debug()
	case IsUnhealthy(err):
		l.WithField("status", "unhealthy").Warn(err.Error())
	default:
		l.WithError(err).Error("could not evaluate check")
	}
}
