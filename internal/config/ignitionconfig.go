package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// GenerateFromConfigDir reads every .hcl file below configDir. Instances
// defined in more than one file are taken from the file read last.
func (ignitionConfig *Ignition) GenerateFromConfigDir(configDir string) error {
	configDir = strings.TrimRight(configDir, "/")

	matches, err := findFilesInPath(configDir)
	if err != nil {
		return err
	}

	for _, m := range matches {
		log.Infof("found config file: %s", m)

		contents, err := os.ReadFile(m)
		if err != nil {
			return errors.Wrapf(err, "could not read configuration file %s", m)
		}

		if err := ignitionConfig.Parse(contents); err != nil {
			return errors.Wrapf(err, "could not parse configuration file %s", m)
		}
	}

	return nil
}

// Parse merges the instances of one HCL document into the configuration.
func (ignitionConfig *Ignition) Parse(contents []byte) error {
	var parsed Ignition
	if err := hcl.Unmarshal(contents, &parsed); err != nil {
		return err
	}

	for _, instance := range parsed.Instances {
		if instance.Name == "" {
			return errors.New("instance without name")
		}
		ignitionConfig.addInstance(instance)
	}

	return nil
}

func (ignitionConfig *Ignition) addInstance(instance Instance) {
	for i := range ignitionConfig.Instances {
		if ignitionConfig.Instances[i].Name == instance.Name {
			log.WithField("instance", instance.Name).Warn("instance is defined more than once; using the last definition")
			ignitionConfig.Instances[i] = instance
			return
		}
	}

	ignitionConfig.Instances = append(ignitionConfig.Instances, instance)
}

func (ignitionConfig *Ignition) InstanceNames() []string {
	names := make([]string, len(ignitionConfig.Instances))
	for i := range ignitionConfig.Instances {
		names[i] = ignitionConfig.Instances[i].Name
	}
	return names
}

func (ignitionConfig *Ignition) FindInstance(name string) (*Instance, error) {
	for i := range ignitionConfig.Instances {
		if ignitionConfig.Instances[i].Name == name {
			return &ignitionConfig.Instances[i], nil
		}
	}
	return nil, errors.Errorf("instance %q is not configured", name)
}
