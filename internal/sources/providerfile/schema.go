package providerfile

// File represents the top-level structure of providers.yaml
type File struct {
	Configs []ConfigEntry `yaml:"configs"`
	Groups  []GroupEntry  `yaml:"groups,omitempty"`
	Active  ActiveEntry   `yaml:"active,omitempty"`
}

// ConfigEntry declares one AI provider configuration
type ConfigEntry struct {
	Name     string            `yaml:"name"`
	Provider string            `yaml:"provider"`
	Model    string            `yaml:"model"`
	APIKey   string            `yaml:"apiKey,omitempty"`
	BaseURL  string            `yaml:"baseUrl,omitempty"`
	Default  bool              `yaml:"default,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// GroupEntry declares a named pool of configs, referenced by name
type GroupEntry struct {
	Name    string   `yaml:"name"`
	Configs []string `yaml:"configs"`
}

// ActiveEntry selects the startup config and group by name
type ActiveEntry struct {
	Config string `yaml:"config,omitempty"`
	Group  string `yaml:"group,omitempty"`
}
