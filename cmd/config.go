// Package cmd provides shared configuration and process-shell utilities for
// the acfctl and acf-agentd binaries, mirroring how per-binary mains stay
// small by delegating config loading, logging setup, and signal handling
// to one place.
package cmd

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"strings"
	"time"
)

// Config is the top-level JSON configuration document read via
// ReadConfigFile. NO DEFAULTS are provided; every field an operator cares
// about must be set explicitly.
type Config struct {
	Agent AgentConfig
}

// AgentConfig configures the long-running acf-agentd daemon: where the
// replay counter is persisted and which trusted keys to trial.
type AgentConfig struct {
	ServiceConfig

	ReplayStorePath string
	TrustedKeys     TrustedKeyConfig
	// FailDelay is parsed but not read by acf-agentd; the delay applied on
	// denied authentications is pamacf.MinFailDelay.
	FailDelay ConfigDuration

	// SocketPath is where acf-agentd listens for targeted-auth requests
	// from acfctl or other local callers. Left empty, the daemon runs
	// with no request surface (useful for PAM-only deployments that
	// only need the pamacf adapter wired into libpam, not this socket).
	SocketPath string
}

// TrustedKeyConfig names the DER SubjectPublicKeyInfo files tried in order
// by the authentication adapter.
type TrustedKeyConfig struct {
	ProductionKeyPath       string
	ProductionBackupKeyPath string
	DevelopmentKeyPath      string
}

// ServiceConfig contains config items common to every binary.
type ServiceConfig struct {
	// DebugAddr is the address to run the /metrics and pprof handlers on.
	DebugAddr string
}

// ConfigDuration is an alias for time.Duration that allows serialization to
// JSON as a human-readable string like "2s".
type ConfigDuration struct {
	time.Duration
}

// ErrDurationMustBeString is returned when a non-string value is presented
// to be deserialized as a ConfigDuration.
var ErrDurationMustBeString = errors.New("cannot JSON unmarshal something other than a string into a ConfigDuration")

// UnmarshalJSON parses a string into a ConfigDuration using
// time.ParseDuration.
func (d *ConfigDuration) UnmarshalJSON(b []byte) error {
	s := ""
	err := json.Unmarshal(b, &s)
	if err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return ErrDurationMustBeString
		}
		return err
	}
	dd, err := time.ParseDuration(s)
	d.Duration = dd
	return err
}

// MarshalJSON returns the string form of the duration.
func (d ConfigDuration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Duration.String() + `"`), nil
}

// ConfigSecret represents a string-valued config field. It may be specified
// directly in the config or, if it starts with "secret:", its contents are
// read from the filename that comes after "secret:", with trailing
// newlines removed. Used for anything that should not be checked into a
// config file verbatim, such as a PBKDF2 test fixture password.
type ConfigSecret string

var errSecretMustBeString = errors.New("cannot JSON unmarshal something other than a string into a ConfigSecret")

const secretPrefix = "secret:"

// UnmarshalJSON unmarshals a ConfigSecret.
func (d *ConfigSecret) UnmarshalJSON(b []byte) error {
	s := ""
	err := json.Unmarshal(b, &s)
	if err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return errSecretMustBeString
		}
		return err
	}
	if !strings.HasPrefix(s, secretPrefix) {
		*d = ConfigSecret(s)
		return nil
	}
	contents, err := ioutil.ReadFile(s[len(secretPrefix):])
	if err != nil {
		return err
	}
	*d = ConfigSecret(strings.TrimRight(string(contents), "\n"))
	return nil
}
