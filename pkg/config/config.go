// Package config reads hashtable workload configuration files.
package config

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/andy16666/hashtable/pkg/hashtable"
	"golang.org/x/exp/slices"
	yaml "gopkg.in/yaml.v3"
)

const DefaultKeyLength = 16

// Key sources.
const (
	SourceRandom     = "random"
	SourceUUID       = "uuid"
	SourceSequential = "sequential"
)

var (
	Sources = []string{SourceRandom, SourceUUID, SourceSequential}
	Hashers = []string{
		hashtable.NameShift5,
		hashtable.NameShift5Unsigned,
		hashtable.NameXXH3,
		hashtable.NameXXH64,
	}
)

type Config struct {
	BucketCount int
	Hasher      string
	Seed        uint64
	Keys        Keys
	Duplicates  float64
	Remove      float64
}

type Keys struct {
	Count  int
	Length int
	Source string
}

// NewHasher returns the hasher selected by the configuration.
func (c *Config) NewHasher() (hashtable.Hasher, error) {
	return hashtable.HasherByName(c.Hasher, c.Seed)
}

type config struct {
	BucketCount *int     `yaml:"bucket-count"`
	Hasher      string   `yaml:"hasher"`
	Seed        uint64   `yaml:"seed"`
	Keys        *keys    `yaml:"keys"`
	Duplicates  *float64 `yaml:"duplicates"`
	Remove      *float64 `yaml:"remove"`
}

type keys struct {
	Count  *int   `yaml:"count"`
	Length *int   `yaml:"length"`
	Source string `yaml:"source"`
}

// Read reads the configuration file at filePath from filesystem.
func Read(filesystem fs.FS, filePath string) (*Config, error) {
	f, err := filesystem.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	defer f.Close()

	var c config
	d := yaml.NewDecoder(f)
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil {
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	conf := &Config{
		Hasher: hashtable.NameShift5,
		Seed:   c.Seed,
		Keys: Keys{
			Length: DefaultKeyLength,
			Source: SourceRandom,
		},
	}

	if c.BucketCount == nil {
		return nil, &ErrorMissing{FilePath: filePath, Feature: "bucket-count"}
	}
	if *c.BucketCount < 1 || *c.BucketCount > hashtable.MaxBucketCount {
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Feature:  "bucket-count",
			Message: fmt.Sprintf(
				"must be within [1, %d]", hashtable.MaxBucketCount,
			),
		}
	}
	conf.BucketCount = *c.BucketCount

	if c.Hasher != "" {
		if !slices.Contains(Hashers, c.Hasher) {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "hasher",
				Message:  "expected one of: " + strings.Join(Hashers, ", "),
			}
		}
		conf.Hasher = c.Hasher
	}

	if c.Keys == nil || c.Keys.Count == nil {
		return nil, &ErrorMissing{FilePath: filePath, Feature: "keys.count"}
	}
	if *c.Keys.Count < 1 {
		return nil, &ErrorIllegal{
			FilePath: filePath,
			Feature:  "keys.count",
			Message:  "must be positive",
		}
	}
	conf.Keys.Count = *c.Keys.Count

	if c.Keys.Length != nil {
		if *c.Keys.Length < 0 {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "keys.length",
				Message:  "must not be negative",
			}
		}
		conf.Keys.Length = *c.Keys.Length
	}

	if c.Keys.Source != "" {
		if !slices.Contains(Sources, c.Keys.Source) {
			return nil, &ErrorIllegal{
				FilePath: filePath,
				Feature:  "keys.source",
				Message:  "expected one of: " + strings.Join(Sources, ", "),
			}
		}
		conf.Keys.Source = c.Keys.Source
	}

	if conf.Duplicates, err = fraction(
		filePath, "duplicates", c.Duplicates,
	); err != nil {
		return nil, err
	}
	if conf.Remove, err = fraction(
		filePath, "remove", c.Remove,
	); err != nil {
		return nil, err
	}

	return conf, nil
}

func fraction(filePath, feature string, v *float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if *v < 0 || *v > 1 {
		return 0, &ErrorIllegal{
			FilePath: filePath,
			Feature:  feature,
			Message:  "must be within [0, 1]",
		}
	}
	return *v, nil
}

type ErrorMissing struct {
	FilePath string
	Feature  string
}

func (e ErrorMissing) Error() string {
	var b strings.Builder
	if e.Feature == "" {
		b.Grow(len("missing ") + len(e.FilePath))
		b.WriteString("missing ")
		b.WriteString(e.FilePath)
		return b.String()
	}
	b.Grow(len(e.FilePath) + len(": missing ") + len(e.Feature))
	b.WriteString(e.FilePath)
	b.WriteString(": missing ")
	b.WriteString(e.Feature)
	return b.String()
}

type ErrorIllegal struct {
	FilePath string
	Feature  string
	Message  string
}

func (e ErrorIllegal) Error() string {
	var b strings.Builder
	b.WriteString("illegal ")
	if e.Feature != "" {
		b.WriteString(e.Feature)
		b.WriteString(" in ")
	}
	b.WriteString(e.FilePath)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}
