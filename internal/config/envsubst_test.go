package config

import (
	"os"
	"testing"
)

func TestSubstituteEnvVarsAllowlisted(t *testing.T) {
	os.Setenv("HOME", "/home/tester")
	defer os.Unsetenv("HOME")

	out := SubstituteEnvVars("path: ${HOME}/projects", false)
	if out != "path: /home/tester/projects" {
		t.Errorf("unexpected substitution result %q", out)
	}
}

func TestSubstituteEnvVarsLeavesNonAllowlistedUntouched(t *testing.T) {
	os.Setenv("MY_SECRET", "leaked")
	defer os.Unsetenv("MY_SECRET")

	out := SubstituteEnvVars("token: ${MY_SECRET}", false)
	if out != "token: ${MY_SECRET}" {
		t.Errorf("expected non-allowlisted var left untouched, got %q", out)
	}
}

func TestSubstituteEnvVarsAllowAllOverridesAllowlist(t *testing.T) {
	os.Setenv("MY_SECRET", "leaked")
	defer os.Unsetenv("MY_SECRET")

	out := SubstituteEnvVars("token: ${MY_SECRET}", true)
	if out != "token: leaked" {
		t.Errorf("expected allow-all to substitute any var, got %q", out)
	}
}

func TestSubstituteEnvVarsLeavesUnsetVarUntouched(t *testing.T) {
	os.Unsetenv("PAR_TERM_DOES_NOT_EXIST_XYZ")
	out := SubstituteEnvVars("x: ${PAR_TERM_DOES_NOT_EXIST_XYZ}", true)
	if out != "x: ${PAR_TERM_DOES_NOT_EXIST_XYZ}" {
		t.Errorf("expected unset var left as literal text, got %q", out)
	}
}

func TestPreScanAllowAllEnvVarsDetectsTopLevelTrue(t *testing.T) {
	raw := "foo: bar\nallow_all_env_vars: true\nbaz: qux\n"
	if !PreScanAllowAllEnvVars(raw) {
		t.Error("expected allow_all_env_vars: true to be detected")
	}
}

func TestPreScanAllowAllEnvVarsIgnoresFalse(t *testing.T) {
	raw := "allow_all_env_vars: false\n"
	if PreScanAllowAllEnvVars(raw) {
		t.Error("expected allow_all_env_vars: false to not trigger allow-all")
	}
}
