package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// CustomJob is a single shell command run by a custom plugin
type CustomJob struct {
	Name    string            `yaml:"name" json:"name"`
	Run     string            `yaml:"run" json:"run"`
	Timeout int               `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	WorkDir string            `yaml:"workdir,omitempty" json:"workdir,omitempty"`
}

// CustomPluginConfig declares one user-defined plugin
type CustomPluginConfig struct {
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Jobs        []CustomJob `yaml:"jobs" json:"jobs"`
}

// CustomPluginsConfig maps plugin name to its definition
type CustomPluginsConfig map[string]*CustomPluginConfig

// ParseCustomPluginsFile decodes YAML or JSON based on extension.
// A missing file yields an empty config.
func ParseCustomPluginsFile(path string) (CustomPluginsConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from hookgate config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return CustomPluginsConfig{}, nil
		}
		return nil, err
	}

	var cfg CustomPluginsConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported plugins file extension: %s", path)
	}
	if cfg == nil {
		cfg = CustomPluginsConfig{}
	}
	return cfg, nil
}

// ValidateCustomPlugins performs basic checks for structure and required fields.
func ValidateCustomPlugins(cfg CustomPluginsConfig) error {
	for name, p := range cfg {
		if p == nil {
			return fmt.Errorf("plugin '%s' has nil config", name)
		}
		if len(p.Jobs) == 0 {
			return fmt.Errorf("plugin '%s' has no jobs", name)
		}
		for i, j := range p.Jobs {
			if strings.TrimSpace(j.Name) == "" {
				return fmt.Errorf("plugin '%s' job[%d] missing name", name, i)
			}
			if strings.TrimSpace(j.Run) == "" {
				return fmt.Errorf("plugin '%s' job '%s' missing run command", name, j.Name)
			}
		}
	}
	return nil
}

// CustomSource reports the plugins declared in a YAML/JSON file. Every one of
// them is external.
type CustomSource struct {
	Path string
	Env  *Env
}

// NewCustomSource creates a source reading the given plugins file
func NewCustomSource(path string, env *Env) *CustomSource {
	if env == nil {
		env = DefaultEnv()
	}
	return &CustomSource{Path: path, Env: env}
}

func (s *CustomSource) load() (CustomPluginsConfig, error) {
	cfg, err := ParseCustomPluginsFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	if err := ValidateCustomPlugins(cfg); err != nil {
		return nil, fmt.Errorf("invalid plugins file %s: %w", s.Path, err)
	}
	return cfg, nil
}

// Plugins lists the declared plugins sorted by name.
func (s *CustomSource) Plugins(_ context.Context) ([]Record, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]Record, 0, len(names))
	for _, name := range names {
		records = append(records, Record{
			Name:        name,
			Type:        External,
			Description: cfg[name].Description,
			Source:      "custom",
			Path:        s.Path,
		})
	}
	return records, nil
}

// Open returns a plugin that runs the declared jobs in order.
func (s *CustomSource) Open(_ context.Context, name string) (Plugin, error) {
	cfg, err := s.load()
	if err != nil {
		return nil, err
	}
	p, ok := cfg[name]
	if !ok {
		return nil, fmt.Errorf("custom plugin '%s': %w", name, ErrPluginNotFound)
	}
	return &customPlugin{name: name, cfg: p, env: s.Env}, nil
}

type customPlugin struct {
	name string
	cfg  *CustomPluginConfig
	env  *Env
}

func (p *customPlugin) Key() string         { return p.name }
func (p *customPlugin) Name() string        { return p.name }
func (p *customPlugin) Description() string { return p.cfg.Description }

func (p *customPlugin) Run(ctx context.Context) error {
	for _, job := range p.cfg.Jobs {
		if err := p.runJob(ctx, job); err != nil {
			return fmt.Errorf("job '%s': %w", job.Name, err)
		}
	}
	return nil
}

func (p *customPlugin) runJob(ctx context.Context, job CustomJob) error {
	mergedEnv := os.Environ()
	for k, v := range job.Env {
		mergedEnv = append(mergedEnv, fmt.Sprintf("%s=%s", k, v))
	}

	cmdCtx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, time.Duration(job.Timeout)*time.Second)
		defer cancel()
	}
	cmd := exec.CommandContext(cmdCtx, "sh", "-c", job.Run) // #nosec G204 -- user-configured command execution is intentional
	cmd.Stdin = p.env.Stdin
	cmd.Stdout = p.env.Stdout
	cmd.Stderr = p.env.Stderr
	if job.WorkDir != "" {
		cmd.Dir = job.WorkDir
	}
	cmd.Env = mergedEnv
	cmd.WaitDelay = time.Second

	p.env.Loggers.Debugf("Running job %q of plugin %q", job.Name, p.name)
	err := cmd.Run()
	if err != nil && errors.Is(cmdCtx.Err(), context.DeadlineExceeded) && job.Timeout > 0 {
		return fmt.Errorf("command timed out after %ds", job.Timeout)
	}
	return err
}

var _ Source = (*CustomSource)(nil)

// SampleCustomPlugins is the starter file written by WriteSampleCustomPlugins
const SampleCustomPlugins = `# Custom plugins run shell commands. They are external plugins: hookgate only
# loads them once an administrator has accepted the plugin risk.
example:
  description: Print the event payload size
  jobs:
    - name: payload-size
      run: wc -c
      timeout: 10
`

// WriteSampleCustomPlugins writes content to path after validating it. An
// existing file is only replaced when overwrite is set.
func WriteSampleCustomPlugins(path, content string, overwrite bool) error {
	var cfg CustomPluginsConfig
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return fmt.Errorf("invalid sample yaml: %w", err)
	}
	if err := ValidateCustomPlugins(cfg); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fs.ErrExist
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0o600)
}
