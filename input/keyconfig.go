package input

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/lixenwraith/worldinput/asset"
)

const (
	// BindingsFile is the binding file name inside the config dir
	BindingsFile = "bindings.ini"

	SectionCustom  = "Bindings.Custom"
	SectionDefault = "Bindings.Default"
)

// ErrNoBindings reports a binding file without a usable section
var ErrNoBindings = errors.New("no usable bindings")

// ConfigManager loads and saves the persisted key binding file
type ConfigManager struct {
	dir      string
	defaults string
	logger   *slog.Logger
}

// NewConfigManager creates a manager for <dir>/bindings.ini
// The file is seeded from the shipped defaults on first parse
func NewConfigManager(dir string, logger *slog.Logger) *ConfigManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigManager{
		dir:      dir,
		defaults: asset.DefaultBindingsINI,
		logger:   logger,
	}
}

// Path returns the binding file path
func (c *ConfigManager) Path() string {
	return filepath.Join(c.dir, BindingsFile)
}

// ensureFile copies the shipped defaults into place if no binding file exists
func (c *ConfigManager) ensureFile() error {
	path := c.Path()
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(c.defaults), 0o644); err != nil {
		return fmt.Errorf("seed bindings: %w", err)
	}
	c.logger.Info("seeded default bindings", "path", path)
	return nil
}

// ParseConfig reads the binding file, preferring the custom section
// Unknown identifiers and unparsable sequences are logged and skipped
// On error the caller must treat the result as "no usable binding table"
func (c *ConfigManager) ParseConfig() (*Bindings, error) {
	if err := c.ensureFile(); err != nil {
		c.logger.Error("binding file unavailable", "path", c.Path(), "error", err)
		return nil, err
	}

	f, err := ini.Load(c.Path())
	if err != nil {
		c.logger.Error("binding file unreadable", "path", c.Path(), "error", err)
		return nil, fmt.Errorf("load %s: %w", c.Path(), err)
	}

	b, err := c.parseFile(f)
	if err != nil {
		c.logger.Error("binding file unusable", "path", c.Path(), "error", err)
		return nil, err
	}
	return b, nil
}

// ParseBindings parses binding file content without touching the filesystem
func ParseBindings(data []byte, logger *slog.Logger) (*Bindings, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse bindings: %w", err)
	}
	c := &ConfigManager{logger: logger}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c.parseFile(f)
}

func (c *ConfigManager) parseFile(f *ini.File) (*Bindings, error) {
	section := pickSection(f)
	if section == nil {
		return nil, ErrNoBindings
	}

	b := NewBindings()
	for _, key := range section.Keys() {
		def, ok := BindingByName(key.Name())
		if !ok {
			c.logger.Warn("unknown binding", "section", section.Name(), "binding", key.Name())
			continue
		}
		for _, raw := range key.Strings(",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			seq, err := ParseKeySequence(raw)
			if err != nil {
				c.logger.Warn("invalid key sequence", "binding", key.Name(), "error", err)
				continue
			}
			b.Table(def.Group).Bind(seq, def.Name, def.Pair)
		}
	}
	return b, nil
}

// pickSection returns the custom section when present, even empty, else the default
func pickSection(f *ini.File) *ini.Section {
	if s, err := f.GetSection(SectionCustom); err == nil {
		return s
	}
	if s, err := f.GetSection(SectionDefault); err == nil {
		return s
	}
	return nil
}

// WriteCustom replaces the custom section with the named bindings of b
// Anonymous dynamic bindings are not persisted
func (c *ConfigManager) WriteCustom(b *Bindings) error {
	f, err := c.loadForWrite()
	if err != nil {
		return err
	}

	f.DeleteSection(SectionCustom)
	section, err := f.NewSection(SectionCustom)
	if err != nil {
		return fmt.Errorf("create section: %w", err)
	}

	for _, name := range sortedBindings(b) {
		seqs := make([]string, len(name.seqs))
		for i, seq := range name.seqs {
			seqs[i] = seq.String()
		}
		if _, err := section.NewKey(name.name, strings.Join(seqs, ", ")); err != nil {
			return fmt.Errorf("write %s: %w", name.name, err)
		}
	}

	return c.save(f)
}

// ResetCustom removes the custom section so the defaults apply again
func (c *ConfigManager) ResetCustom() error {
	f, err := c.loadForWrite()
	if err != nil {
		return err
	}
	f.DeleteSection(SectionCustom)
	return c.save(f)
}

func (c *ConfigManager) loadForWrite() (*ini.File, error) {
	if err := c.ensureFile(); err != nil {
		return nil, err
	}
	f, err := ini.Load(c.Path())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.Path(), err)
	}
	return f, nil
}

// save writes through a temp file so watchers never see a partial file
func (c *ConfigManager) save(f *ini.File) error {
	tmp := c.Path() + ".tmp"
	if err := f.SaveTo(tmp); err != nil {
		return fmt.Errorf("save bindings: %w", err)
	}
	if err := os.Rename(tmp, c.Path()); err != nil {
		return fmt.Errorf("save bindings: %w", err)
	}
	c.logger.Info("bindings saved", "path", c.Path())
	return nil
}

type namedSequences struct {
	name string
	seqs []KeySequence
}

func sortedBindings(b *Bindings) []namedSequences {
	var out []namedSequences
	for g := Group(0); g < groupCount; g++ {
		for name, seqs := range b.Table(g).ByBinding() {
			def, ok := BindingByName(name)
			if !ok || def.Group != g {
				continue
			}
			out = append(out, namedSequences{name: name, seqs: seqs})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}
