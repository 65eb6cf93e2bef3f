package config

import (
	"strconv"
	"time"

	"github.com/mittwald/redistatus/internal/helper"
	"github.com/mittwald/redistatus/pkg/redisstatus"
	"github.com/pkg/errors"
)

const defaultPort = "6379"

// CheckerConfig resolves environment references and defaults and converts
// the instance into the configuration of a status checker.
func (i *Instance) CheckerConfig() (redisstatus.Config, error) {
	cfg := redisstatus.Config{
		Name:     i.Name,
		Host:     helper.ResolveEnv(i.Hostname),
		Password: helper.ResolveEnv(i.Password),
	}

	if cfg.Host == "" {
		return cfg, errors.Errorf("instance %q: hostname is missing", i.Name)
	}

	port := helper.SetDefaultStringIfEmpty(helper.ResolveEnv(i.Port), defaultPort, "port", i.Name)
	p, err := strconv.Atoi(port)
	if err != nil || p <= 0 || p > 65535 {
		return cfg, errors.Errorf("instance %q: invalid port %q", i.Name, port)
	}
	cfg.Port = p

	if threshold := helper.ResolveEnv(i.MemoryThreshold); threshold != "" {
		t, err := strconv.ParseUint(threshold, 10, 64)
		if err != nil {
			return cfg, errors.Wrapf(err, "instance %q: invalid memoryThreshold %q", i.Name, threshold)
		}
		cfg.MemoryThreshold = t
	}

	if timeout := helper.ResolveEnv(i.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return cfg, errors.Wrapf(err, "instance %q: invalid timeout %q", i.Name, timeout)
		}
		if d < 0 {
			return cfg, errors.Errorf("instance %q: negative timeout %q", i.Name, timeout)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

func (i *Instance) NewStatusChecker() (*redisstatus.StatusChecker, error) {
	cfg, err := i.CheckerConfig()
	if err != nil {
		return nil, err
	}

	parser, err := redisstatus.ParserByName(helper.ResolveEnv(i.InfoParser))
	if err != nil {
		return nil, errors.Wrapf(err, "instance %q", i.Name)
	}

	return redisstatus.New(cfg, redisstatus.WithUsedMemoryParser(parser)), nil
}
