package config

import (
	"os"
	"regexp"
)

// defaultEnvVarAllowlist is the set of environment variables substituted
// into config.yaml by default. Anything else in a ${VAR} reference is left
// untouched unless allow_all_env_vars: true is set, since config.yaml can
// embed ${VAR} references in shell commands and trigger actions that get
// executed — an unbounded substitution surface would let a shared/synced
// config file exfiltrate arbitrary environment state into those commands.
var defaultEnvVarAllowlist = map[string]bool{
	"HOME": true, "USER": true, "SHELL": true, "TERM": true, "LANG": true,
	"PWD": true, "EDITOR": true, "VISUAL": true, "PATH": true,
	"XDG_CONFIG_HOME": true, "XDG_DATA_HOME": true, "XDG_CACHE_HOME": true,
	"PAR_TERM_CONFIG_HOME": true,
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

var allowAllPattern = regexp.MustCompile(`(?m)^\s*allow_all_env_vars:\s*true\s*$`)

// PreScanAllowAllEnvVars looks for a top-level allow_all_env_vars: true
// line in raw, unparsed YAML. It runs before the document is decoded
// because the gate has to be known before substitution happens, and
// substitution has to happen before the document can be safely parsed
// (an unresolved ${VAR} is not valid YAML structure on its own, but it is
// valid scalar text, so this is a plain regex pre-scan rather than a
// parse).
func PreScanAllowAllEnvVars(raw string) bool {
	return allowAllPattern.MatchString(raw)
}

// SubstituteEnvVars replaces every ${VAR} reference in raw with the
// corresponding environment variable's value. When allowAll is false, only
// references naming a variable in defaultEnvVarAllowlist are substituted;
// every other reference is left as literal text.
func SubstituteEnvVars(raw string, allowAll bool) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if !allowAll && !defaultEnvVarAllowlist[name] {
			return match
		}
		value, ok := os.LookupEnv(name)
		if !ok {
			return match
		}
		return value
	})
}
