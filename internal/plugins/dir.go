package plugins

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// DirSource reports executables dropped into a plugins directory. The file
// name without extension is the plugin name.
type DirSource struct {
	Dir string
	Env *Env
}

// NewDirSource creates a source scanning dir
func NewDirSource(dir string, env *Env) *DirSource {
	if env == nil {
		env = DefaultEnv()
	}
	return &DirSource{Dir: dir, Env: env}
}

// Plugins lists executable regular files in the directory. A missing directory
// means no plugins are installed.
func (s *DirSource) Plugins(_ context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read plugins directory %s: %w", s.Dir, err)
	}

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat plugin %s: %w", e.Name(), err)
		}
		if !info.Mode().IsRegular() || info.Mode().Perm()&0o111 == 0 {
			continue
		}
		records = append(records, Record{
			Name:   pluginName(e.Name()),
			Type:   External,
			Source: "dir",
			Path:   filepath.Join(s.Dir, e.Name()),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

// Open returns a plugin that executes the matching file.
func (s *DirSource) Open(ctx context.Context, name string) (Plugin, error) {
	records, err := s.Plugins(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.Name == name {
			return &execPlugin{name: name, path: r.Path, env: s.Env}, nil
		}
	}
	return nil, fmt.Errorf("plugin '%s' in %s: %w", name, s.Dir, ErrPluginNotFound)
}

func pluginName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

type execPlugin struct {
	name string
	path string
	env  *Env
}

func (p *execPlugin) Key() string         { return p.name }
func (p *execPlugin) Name() string        { return p.name }
func (p *execPlugin) Description() string { return "External plugin " + p.path }

func (p *execPlugin) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.path) // #nosec G204 -- plugin path comes from the configured plugins directory
	cmd.Stdin = p.env.Stdin
	cmd.Stdout = p.env.Stdout
	cmd.Stderr = p.env.Stderr
	p.env.Loggers.Debugf("Executing external plugin %s", p.path)
	return cmd.Run()
}

var _ Source = (*DirSource)(nil)
