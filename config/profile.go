// Package config loads and merges a YAML configuration profile with
// CLI flags, grounded on original_source/logfire.py's main() profile
// merging (there, JSON files at ~/.logfirerc and /etc/logfirerc; here,
// YAML via gopkg.in/yaml.v3, the teacher's own declared config
// library) and on the teacher's go.mod dependency on yaml.v3.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile holds defaults that CLI flags may override. Zero values mean
// "not set in the profile".
type Profile struct {
	Levels       []string `yaml:"levels"`
	Grep         []string `yaml:"grep"`
	DB           []string `yaml:"db"`
	User         []string `yaml:"user"`
	ExcludeUser  []string `yaml:"exclude_user"`
	App          []string `yaml:"app"`
	Tail         int      `yaml:"tail"`
	Follow       bool     `yaml:"follow"`
	RedisAddr    string   `yaml:"redis_addr"`
	RedisList    string   `yaml:"redis_list"`
	SincedbPath  string   `yaml:"sincedb_path"`
}

// Load merges ~/.logmergerc and /etc/logmergerc, fields set in the more
// specific, user-level file taking precedence over the system file,
// returning an empty Profile if neither exists.
func Load() (Profile, error) {
	var merged Profile

	if home, err := os.UserHomeDir(); err == nil {
		if p, err := loadFile(filepath.Join(home, ".logmergerc")); err == nil {
			merged = p
		}
	}

	if p, err := loadFile("/etc/logmergerc"); err == nil {
		merged = mergeProfiles(p, merged)
	}

	return merged, nil
}

// mergeProfiles returns base with any fields overridden by override
// when override sets them (non-zero).
func mergeProfiles(base, override Profile) Profile {
	out := base
	if len(override.Levels) > 0 {
		out.Levels = override.Levels
	}
	if len(override.Grep) > 0 {
		out.Grep = override.Grep
	}
	if len(override.DB) > 0 {
		out.DB = override.DB
	}
	if len(override.User) > 0 {
		out.User = override.User
	}
	if len(override.ExcludeUser) > 0 {
		out.ExcludeUser = override.ExcludeUser
	}
	if len(override.App) > 0 {
		out.App = override.App
	}
	if override.Tail != 0 {
		out.Tail = override.Tail
	}
	if override.Follow {
		out.Follow = override.Follow
	}
	if override.RedisAddr != "" {
		out.RedisAddr = override.RedisAddr
	}
	if override.RedisList != "" {
		out.RedisList = override.RedisList
	}
	if override.SincedbPath != "" {
		out.SincedbPath = override.SincedbPath
	}
	return out
}

func loadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
