package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const DefaultLabel = "Default"

var (
	ErrNoConfig      = errors.New("no config selected")
	ErrEmptyLabel    = errors.New("label cannot be empty")
	ErrConfigExists  = errors.New("config already exists")
	ErrConfigMissing = errors.New("config does not exist")
)

// Store keeps labelled profiles as {Root}/configs/{label}.yaml and the
// active label in {Root}/current_config.
type Store struct {
	Root string
}

func DefaultStore() Store {
	return Store{Root: ConfigRoot()}
}

func ConfigRoot() string {
	// Windows
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, "scansdl")
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scansdl")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scansdl")
}

func (s Store) ConfigsDir() string {
	return filepath.Join(s.Root, "configs")
}

func (s Store) currentLabelFile() string {
	return filepath.Join(s.Root, "current_config")
}

// PathFor returns where the profile label lives, whether or not it exists.
func (s Store) PathFor(label string) string {
	return filepath.Join(s.ConfigsDir(), label+".yaml")
}

func (s Store) ensureDirs() error {
	return os.MkdirAll(s.ConfigsDir(), 0o755)
}

func checkLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return ErrEmptyLabel
	}
	if strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("invalid label %q", label)
	}
	return nil
}

func (s Store) exists(label string) bool {
	_, err := os.Stat(s.PathFor(label))
	return err == nil
}

func (s Store) CurrentLabel() (string, error) {
	b, err := os.ReadFile(s.currentLabelFile())
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoConfig
	}
	if err != nil {
		return "", err
	}

	label := strings.TrimSpace(string(b))
	if label == "" {
		return "", ErrNoConfig
	}
	return label, nil
}

func (s Store) ActiveConfigPath() (string, error) {
	label, err := s.CurrentLabel()
	if err != nil {
		return "", err
	}

	return s.PathFor(label), nil
}

type ConfigInfo struct {
	Label  string
	Path   string
	Active bool
}

func (s Store) ListConfigs() ([]ConfigInfo, error) {
	entries, err := os.ReadDir(s.ConfigsDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	activeLabel, _ := s.CurrentLabel()
	var out []ConfigInfo

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		label := strings.TrimSuffix(name, ".yaml")
		out = append(out, ConfigInfo{
			Label:  label,
			Path:   filepath.Join(s.ConfigsDir(), name),
			Active: label == activeLabel,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (s Store) SwitchConfig(label string) error {
	if err := checkLabel(label); err != nil {
		return err
	}
	if !s.exists(label) {
		return fmt.Errorf("%w: %q", ErrConfigMissing, label)
	}
	if err := s.ensureDirs(); err != nil {
		return err
	}

	return os.WriteFile(s.currentLabelFile(), []byte(label), 0o644)
}

// Create writes a profile with default values. The first profile created
// becomes the active one.
func (s Store) Create(label string) (string, error) {
	if err := checkLabel(label); err != nil {
		return "", err
	}
	if err := s.ensureDirs(); err != nil {
		return "", err
	}

	path := s.PathFor(label)
	if s.exists(label) {
		return path, fmt.Errorf("%w: %q", ErrConfigExists, label)
	}

	if err := SaveYAML(DefaultConfig(), path); err != nil {
		return "", err
	}

	if _, err := s.CurrentLabel(); errors.Is(err, ErrNoConfig) {
		if err := s.SwitchConfig(label); err != nil {
			return path, err
		}
	}

	return path, nil
}

// Import copies an existing YAML file in as a new profile after checking
// that it parses.
func (s Store) Import(label, srcPath string) (string, error) {
	if err := checkLabel(label); err != nil {
		return "", err
	}
	if s.exists(label) {
		return "", fmt.Errorf("%w: %q", ErrConfigExists, label)
	}
	if _, err := loadYAML(srcPath); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidConfig, srcPath, err)
	}

	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return "", err
	}
	if err := s.ensureDirs(); err != nil {
		return "", err
	}

	path := s.PathFor(label)
	return path, os.WriteFile(path, raw, 0o644)
}

func (s Store) Rename(oldLabel, newLabel string) error {
	if err := checkLabel(newLabel); err != nil {
		return err
	}
	if !s.exists(oldLabel) {
		return fmt.Errorf("%w: %q", ErrConfigMissing, oldLabel)
	}
	if s.exists(newLabel) {
		return fmt.Errorf("%w: %q", ErrConfigExists, newLabel)
	}

	if err := os.Rename(s.PathFor(oldLabel), s.PathFor(newLabel)); err != nil {
		return err
	}

	if active, _ := s.CurrentLabel(); active == oldLabel {
		return os.WriteFile(s.currentLabelFile(), []byte(newLabel), 0o644)
	}
	return nil
}

// Reset overwrites the active profile with default values.
func (s Store) Reset() (string, error) {
	path, err := s.ActiveConfigPath()
	if err != nil {
		return "", err
	}

	return path, SaveYAML(DefaultConfig(), path)
}

// Remove deletes a profile. Removing the active one falls back to Default,
// which itself cannot be removed. fellBack reports that switch.
func (s Store) Remove(label string) (fellBack bool, err error) {
	if err := checkLabel(label); err != nil {
		return false, err
	}
	if label == DefaultLabel {
		return false, fmt.Errorf("cannot remove the %s config", DefaultLabel)
	}
	if !s.exists(label) {
		return false, fmt.Errorf("%w: %q", ErrConfigMissing, label)
	}

	if active, _ := s.CurrentLabel(); active == label {
		if !s.exists(DefaultLabel) {
			if _, err := s.Create(DefaultLabel); err != nil {
				return false, err
			}
		}
		if err := s.SwitchConfig(DefaultLabel); err != nil {
			return false, fmt.Errorf("failed switching to %s: %w", DefaultLabel, err)
		}
		fellBack = true
	}

	return fellBack, os.Remove(s.PathFor(label))
}
