package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mittwald/redistatus/internal/config"
	"github.com/mittwald/redistatus/pkg/redisstatus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdHocInstance(t *testing.T) {
	o := checkOptions{host: "redis.internal", port: 16379, memoryThreshold: "1000", timeout: "1s"}

	instance, err := o.resolveInstance(nil)
	require.NoError(t, err)

	cfg, err := instance.CheckerConfig()
	require.NoError(t, err)
	assert.Equal(t, redisstatus.Config{
		Name:            "redis.internal",
		Host:            "redis.internal",
		Port:            16379,
		MemoryThreshold: 1000,
		Timeout:         time.Second,
	}, cfg)

	o.name = "cache1"
	assert.Equal(t, "cache1", o.adHocInstance().Name)

	_, err = o.resolveInstance([]string{"cache1"})
	assert.Error(t, err)
}

func TestResolveInstanceFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cache.hcl"), []byte(`instance "cache1" { hostname = "127.0.0.1" }`), 0o644))

	previous := configDir
	configDir = dir
	defer func() { configDir = previous }()

	o := checkOptions{}
	instance, err := o.resolveInstance(nil)
	require.NoError(t, err)
	assert.Equal(t, "cache1", instance.Name)

	_, err = o.resolveInstance([]string{"cache2"})
	assert.Error(t, err)
}

func TestDetermineInstanceName(t *testing.T) {
	ignition := &config.Ignition{}

	_, err := determineInstanceName(nil, ignition)
	assert.EqualError(t, err, "no instances configured")

	ignition.Instances = []config.Instance{{Name: "cache1"}}
	name, err := determineInstanceName(nil, ignition)
	require.NoError(t, err)
	assert.Equal(t, "cache1", name)

	ignition.Instances = append(ignition.Instances, config.Instance{Name: "pubsub1"})
	_, err = determineInstanceName(nil, ignition)
	assert.Error(t, err)

	name, err = determineInstanceName([]string{"pubsub1"}, ignition)
	require.NoError(t, err)
	assert.Equal(t, "pubsub1", name)
}

func TestResultJSON(t *testing.T) {
	cfg := redisstatus.Config{Name: "pubsub1", Host: "127.0.0.1", Port: 6379}

	body, err := resultJSON(cfg, nil, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"pubsub1","address":"127.0.0.1:6379","ok":true}`, string(body))

	body, err = resultJSON(cfg, &redisstatus.UnhealthyError{Reason: "pubsub1 instance is using abnormally high memory."}, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"pubsub1","address":"127.0.0.1:6379","ok":false,"message":"pubsub1 instance is using abnormally high memory."}`, string(body))
}

func TestPrintRendersReason(t *testing.T) {
	cfg := redisstatus.Config{Name: "cache1", Host: "127.0.0.1", Port: 6379, MemoryThreshold: 1000}
	o := checkOptions{}

	var out bytes.Buffer
	require.NoError(t, o.print(&out, cfg, &redisstatus.UnhealthyError{Reason: "cache1 instance is not responsive."}))

	assert.Contains(t, out.String(), "unhealthy")
	assert.Contains(t, out.String(), "cache1 instance is not responsive.")
	assert.Contains(t, out.String(), "127.0.0.1:6379")
	assert.Contains(t, out.String(), "1000 bytes")

	out.Reset()
	require.NoError(t, o.print(&out, cfg, nil))
	assert.Contains(t, out.String(), "healthy")
	assert.False(t, strings.Contains(out.String(), "unhealthy"))
}
