// Package profiles stores named connection profiles in ~/.pockets3/profiles.yaml.
// A profile names a storage endpoint and its credential hints so the server
// and CLI can switch targets without repeating flags.
package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Profile names one storage target.
type Profile struct {
	// Endpoint is a custom endpoint URL for S3-compatible stores.
	// Empty means AWS S3.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Region is the AWS region.
	Region string `yaml:"region,omitempty"`

	// AWSProfile names a profile in the AWS shared config to take
	// credentials from. Secrets themselves never live in this file.
	AWSProfile string `yaml:"aws_profile,omitempty"`

	// ForcePathStyle forces path-style URLs, needed by most
	// S3-compatible stores.
	ForcePathStyle bool `yaml:"force_path_style,omitempty"`

	// DefaultBucket preselects a bucket in the UI and CLI.
	DefaultBucket string `yaml:"default_bucket,omitempty"`
}

// File is the on-disk profile store.
type File struct {
	// Default is the profile used when none is named.
	Default string `yaml:"default,omitempty"`

	// Profiles maps profile name to its settings.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// Dir returns the config directory path (~/.pockets3).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pockets3"
	}
	return filepath.Join(home, ".pockets3")
}

// Path returns the profile file path (~/.pockets3/profiles.yaml).
func Path() string {
	return filepath.Join(Dir(), "profiles.yaml")
}

// Load reads the profile store. A missing file yields an empty store.
func Load() (*File, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a profile store from an explicit path.
func LoadFrom(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	return &f, nil
}

// Save writes the profile store, creating the directory if needed.
func (f *File) Save() error {
	return f.SaveTo(Path())
}

// SaveTo writes the profile store to an explicit path.
func (f *File) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create profiles directory: %w", err)
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profiles file: %w", err)
	}
	return nil
}

// Get resolves a profile by name. An empty name resolves the default
// profile; with no default configured, an empty Profile is returned.
func (f *File) Get(name string) (Profile, error) {
	if name == "" {
		name = f.Default
	}
	if name == "" {
		return Profile{}, nil
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// Set adds or replaces a profile.
func (f *File) Set(name string, p Profile) {
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	f.Profiles[name] = p
}

// Names returns profile names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
