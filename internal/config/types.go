package config

type Host struct {
	Hostname string `hcl:"hostname"`
	Port     string `hcl:"port"`
}

// Instance is one Redis server the probe can be asked about. All string
// fields accept the "ENV:NAME" form.
type Instance struct {
	Name string `hcl:",key"`
	Host `hcl:",squash"`

	Password        string `hcl:"password"`
	MemoryThreshold string `hcl:"memoryThreshold"` // bytes; empty or "0" disables the memory check
	Timeout         string `hcl:"timeout"`         // empty leaves it to the transport
	InfoParser      string `hcl:"infoParser"`      // "positional" (default) or "lookup"
}

type Ignition struct {
	Instances []Instance `hcl:"instance"`
}
