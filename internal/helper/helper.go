package helper

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const envPrefix = "ENV:"

// ResolveEnv replaces a value of the form "ENV:NAME" with the contents of
// the environment variable NAME.
func ResolveEnv(in string) string {
	if strings.HasPrefix(in, envPrefix) {
		return os.Getenv(in[len(envPrefix):])
	}
	return in
}

func SetDefaultStringIfEmpty(value, defaultValue, field, instance string) string {
	if len(value) == 0 {
		log.WithFields(log.Fields{"instance": instance, "field": field}).
			Infof("no %s specified or env variable not found, assuming default %s", field, defaultValue)
		return defaultValue
	}
	return value
}
