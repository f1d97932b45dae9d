package providerfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "providers.yaml")

	yamlContent := `---
configs:
  - name: main
    provider: openai
    model: gpt-4o-mini
    apiKey: sk-test
groups:
  - name: pool
    configs: [main]
active:
  config: main
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	file, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(file.Configs) != 1 || file.Configs[0].Name != "main" {
		t.Fatalf("Load() configs = %+v", file.Configs)
	}
	if len(file.Groups) != 1 || file.Groups[0].Configs[0] != "main" {
		t.Fatalf("Load() groups = %+v", file.Groups)
	}
	if file.Active.Config != "main" {
		t.Errorf("Load() active = %+v", file.Active)
	}
}

func TestLoaderLoadExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "providers.yaml")

	t.Setenv("TIDYMARK_TEST_KEY", "sk-from-env")

	yamlContent := `---
configs:
  - name: main
    provider: openai
    model: gpt-4o-mini
    apiKey: ${TIDYMARK_TEST_KEY}
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	file, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if file.Configs[0].APIKey != "sk-from-env" {
		t.Errorf("APIKey = %q, want expanded env value", file.Configs[0].APIKey)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/providers.yaml")
	_, err := loader.Load()
	if err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "providers.yaml")

	if err := os.WriteFile(yamlPath, []byte("configs: [unbalanced"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	if _, err := NewLoader(yamlPath).Load(); err == nil {
		t.Error("Load() with invalid YAML should return error")
	}
}
