package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Policy string

const (
	// PolicyCollectAll run every check and report all failures
	PolicyCollectAll Policy = "collect-all"
	// PolicyFailFast stop at the first failure
	PolicyFailFast Policy = "fail-fast"
)

const (
	DefaultTimeout           = 15 * time.Second
	DefaultConcurrency       = 8
	DefaultRemoteConcurrency = 32
	DefaultAgent             = "foomo-deadlinks"
)

var (
	ErrNoRoot             = errors.New("no root folder configured")
	ErrInvalidTimeout     = errors.New("invalid timeout: must be positive")
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")
	ErrInvalidPolicy      = errors.New("invalid policy: must be collect-all or fail-fast")
	ErrNoExtensions       = errors.New("no document extensions configured")
)

type Config struct {
	// Root output folder all local references are resolved against
	Root string
	// Path single document or sub folder relative to Root, empty for all of Root
	Path              string
	Recursive         bool
	Extensions        []string
	Concurrency       int
	RemoteConcurrency int
	Timeout           time.Duration
	Agent             string
	UseCookies        bool
	// Ignore references with a target starting with one of these prefixes
	Ignore        []string
	Policy        Policy
	RespectRobots bool
	CheckRemote   bool
}

func Default() *Config {
	return &Config{
		Recursive:         true,
		Extensions:        []string{".html"},
		Concurrency:       DefaultConcurrency,
		RemoteConcurrency: DefaultRemoteConcurrency,
		Timeout:           DefaultTimeout,
		Agent:             DefaultAgent,
		Policy:            PolicyCollectAll,
		CheckRemote:       true,
	}
}

// Load yaml config on top of the defaults
func Load(yamlBytes []byte) (conf *Config, err error) {
	conf = Default()
	errUnmarshal := yaml.Unmarshal(yamlBytes, conf)
	if errUnmarshal != nil {
		return nil, errUnmarshal
	}
	return conf, nil
}

func Get(filename string) (conf *Config, err error) {
	yamlBytes, errRead := os.ReadFile(filename)
	if errRead != nil {
		return nil, errRead
	}
	return Load(yamlBytes)
}

func (c *Config) Validate() error {
	switch {
	case c.Root == "":
		return ErrNoRoot
	case c.Timeout <= 0:
		return ErrInvalidTimeout
	case c.Concurrency <= 0 || c.RemoteConcurrency <= 0:
		return ErrInvalidConcurrency
	case c.Policy != PolicyCollectAll && c.Policy != PolicyFailFast:
		return ErrInvalidPolicy
	case len(c.Extensions) == 0:
		return ErrNoExtensions
	}
	return nil
}
