package agent

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Discover loads agent descriptors in three tiers, later tiers
// overriding earlier ones by identity:
//
//  1. embedded defaults, compiled into the binary
//  2. bundled agents next to the running executable (agents/)
//  3. user agents under <configDir>/agents/
//
// Inactive agents are dropped and connector-binary detection runs over
// whatever remains.
func Discover(configDir string) []Config {
	var agents []Config

	for i, raw := range embeddedAgents {
		cfg, err := parseConfig(raw)
		if err != nil {
			log.Printf("agent: embedded descriptor %d failed to parse: %v", i, err)
			continue
		}
		agents = append(agents, cfg)
	}

	if exe, err := os.Executable(); err == nil {
		bundledDir := filepath.Join(filepath.Dir(exe), "agents")
		agents = loadAgentsFromDir(bundledDir, agents)
	}

	userAgentsDir := filepath.Join(configDir, "agents")
	agents = loadAgentsFromDir(userAgentsDir, agents)

	active := agents[:0]
	for _, a := range agents {
		if a.IsActive() {
			active = append(active, a)
		}
	}
	agents = active

	for i := range agents {
		agents[i].DetectConnector()
	}

	return agents
}

func parseConfig(data string) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// loadAgentsFromDir reads every *.toml file in dir and merges the
// resulting descriptors into agents, replacing any earlier entry with
// the same identity (the override semantics user/bundled tiers need).
func loadAgentsFromDir(dir string, agents []Config) []Config {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return agents
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("agent: failed to read %s: %v", path, err)
			continue
		}
		cfg, err := parseConfig(string(data))
		if err != nil {
			log.Printf("agent: failed to parse %s: %v", path, err)
			continue
		}

		replaced := false
		for i, existing := range agents {
			if existing.Identity == cfg.Identity {
				agents[i] = cfg
				replaced = true
				break
			}
		}
		if !replaced {
			agents = append(agents, cfg)
		}
	}

	return agents
}
