// Package config loads per-project harness settings from
// .backloop/config.yaml. A missing file yields the defaults; a malformed
// file is an error so operator typos are not silently ignored.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for agent invocation and the continuous loop.
const (
	DefaultAgentCommand   = "iflow"
	DefaultAutoAcceptFlag = "--yolo"
	DefaultMaxTurns       = 50
	DefaultTimeoutSecs    = 600
	DefaultIntervalSecs   = 60
	DefaultMaxIterations  = 100
	DefaultMaxPromptBytes = 65536
)

// AgentConfig describes how the external coding-agent CLI is invoked.
type AgentConfig struct {
	// Command is the executable name or path of the agent CLI.
	Command string `yaml:"command"`
	// AutoAcceptFlag puts the agent in non-interactive auto-accept mode.
	AutoAcceptFlag string `yaml:"auto_accept_flag"`
	// MaxTurns caps the agent's own internal iteration count.
	MaxTurns int `yaml:"max_turns"`
	// TimeoutSeconds is the wall-clock limit for one invocation.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoopConfig describes continuous-mode behavior.
type LoopConfig struct {
	// IntervalSeconds is the sleep between continuous-mode cycles.
	IntervalSeconds int `yaml:"interval_seconds"`
	// MaxIterations caps the number of cycles per continuous run.
	MaxIterations int `yaml:"max_iterations"`
}

// PromptConfig bounds prompt construction.
type PromptConfig struct {
	// MaxBytes is the maximum combined prompt size. Oversized prompts fail
	// loudly instead of being truncated.
	MaxBytes int `yaml:"max_bytes"`
}

// Config models .backloop/config.yaml.
type Config struct {
	Agent  AgentConfig  `yaml:"agent"`
	Loop   LoopConfig   `yaml:"loop"`
	Prompt PromptConfig `yaml:"prompt"`
}

// Default returns a Config populated with the default values.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			Command:        DefaultAgentCommand,
			AutoAcceptFlag: DefaultAutoAcceptFlag,
			MaxTurns:       DefaultMaxTurns,
			TimeoutSeconds: DefaultTimeoutSecs,
		},
		Loop: LoopConfig{
			IntervalSeconds: DefaultIntervalSecs,
			MaxIterations:   DefaultMaxIterations,
		},
		Prompt: PromptConfig{
			MaxBytes: DefaultMaxPromptBytes,
		},
	}
}

// Load reads the config file at path, applying defaults for absent fields.
// A missing file returns the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Timeout returns the per-invocation timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Agent.TimeoutSeconds) * time.Second
}

// Interval returns the continuous-mode sleep as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Loop.IntervalSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Agent.Command) == "" {
		c.Agent.Command = DefaultAgentCommand
	}
	if strings.TrimSpace(c.Agent.AutoAcceptFlag) == "" {
		c.Agent.AutoAcceptFlag = DefaultAutoAcceptFlag
	}
	if c.Agent.MaxTurns == 0 {
		c.Agent.MaxTurns = DefaultMaxTurns
	}
	if c.Agent.TimeoutSeconds == 0 {
		c.Agent.TimeoutSeconds = DefaultTimeoutSecs
	}
	if c.Loop.IntervalSeconds == 0 {
		c.Loop.IntervalSeconds = DefaultIntervalSecs
	}
	if c.Loop.MaxIterations == 0 {
		c.Loop.MaxIterations = DefaultMaxIterations
	}
	if c.Prompt.MaxBytes == 0 {
		c.Prompt.MaxBytes = DefaultMaxPromptBytes
	}
}

func (c *Config) validate() error {
	if c.Agent.MaxTurns < 1 {
		return fmt.Errorf("agent.max_turns must be >= 1")
	}
	if c.Agent.TimeoutSeconds < 1 {
		return fmt.Errorf("agent.timeout_seconds must be >= 1")
	}
	if c.Loop.IntervalSeconds < 1 {
		return fmt.Errorf("loop.interval_seconds must be >= 1")
	}
	if c.Loop.MaxIterations < 1 {
		return fmt.Errorf("loop.max_iterations must be >= 1")
	}
	if c.Prompt.MaxBytes < 1 {
		return fmt.Errorf("prompt.max_bytes must be >= 1")
	}
	return nil
}

// DefaultYAML is the commented config template written by `backloop init`.
const DefaultYAML = `# backloop project configuration
agent:
  # Executable name or path of the coding-agent CLI.
  command: iflow
  # Flag that makes the agent auto-accept its own actions.
  auto_accept_flag: --yolo
  # Cap on the agent's internal turn count per invocation.
  max_turns: 50
  # Wall-clock limit per invocation, in seconds.
  timeout_seconds: 600

loop:
  # Sleep between continuous-mode cycles, in seconds.
  interval_seconds: 60
  # Maximum cycles per continuous run.
  max_iterations: 100

prompt:
  # Maximum combined prompt size in bytes.
  max_bytes: 65536
`
