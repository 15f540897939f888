package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultFetchTimeout   = 15
	defaultPublishTimeout = 10
	defaultUsername       = "admin"
	defaultPassword       = "admin"
)

// Settings represents the YAML configuration for an import run.
type Settings struct {
	Excel struct {
		FilePath string   `yaml:"file_path"`
		Columns  []string `yaml:"columns"`
	} `yaml:"excel"`
	MS struct {
		Endpoint string `yaml:"endpoint"`
		Timeout  int    `yaml:"timeout"`
	} `yaml:"ms"`
	AEM struct {
		Endpoint string `yaml:"endpoint"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Timeout  int    `yaml:"timeout"`
	} `yaml:"aem"`
	// API is the legacy layout; older config files keep both endpoints
	// under an api section instead of ms/aem.
	API struct {
		MSEndpoint  string `yaml:"ms_endpoint"`
		AEMEndpoint string `yaml:"aem_endpoint"`
	} `yaml:"api"`
}

// LoadSettings reads, normalizes and validates the YAML config file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	settings.applyFallbacks()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// applyFallbacks fills gaps from legacy keys, environment credentials and
// built-in defaults.
func (s *Settings) applyFallbacks() {
	if s.MS.Endpoint == "" {
		s.MS.Endpoint = s.API.MSEndpoint
	}
	if s.AEM.Endpoint == "" {
		s.AEM.Endpoint = s.API.AEMEndpoint
	}

	if v := os.Getenv("AEM_USERNAME"); v != "" {
		s.AEM.Username = v
	}
	if v := os.Getenv("AEM_PASSWORD"); v != "" {
		s.AEM.Password = v
	}
	if s.AEM.Username == "" {
		s.AEM.Username = defaultUsername
	}
	if s.AEM.Password == "" {
		s.AEM.Password = defaultPassword
	}

	if s.MS.Timeout <= 0 {
		s.MS.Timeout = defaultFetchTimeout
	}
	if s.AEM.Timeout <= 0 {
		s.AEM.Timeout = defaultPublishTimeout
	}
}

// Validate reports every missing or malformed required key in a single
// error so a broken config can be fixed in one pass.
func (s *Settings) Validate() error {
	var missing []string
	if s.Excel.FilePath == "" {
		missing = append(missing, "excel.file_path")
	}
	if len(s.Excel.Columns) == 0 {
		missing = append(missing, "excel.columns")
	}
	if s.MS.Endpoint == "" {
		missing = append(missing, "ms.endpoint")
	}
	if s.AEM.Endpoint == "" {
		missing = append(missing, "aem.endpoint")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration keys: %s", strings.Join(missing, ", "))
	}

	if !isHTTPURL(s.MS.Endpoint) {
		return fmt.Errorf("invalid ms.endpoint URL format: %s", s.MS.Endpoint)
	}
	if !isHTTPURL(s.AEM.Endpoint) {
		return fmt.Errorf("invalid aem.endpoint URL format: %s", s.AEM.Endpoint)
	}

	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
