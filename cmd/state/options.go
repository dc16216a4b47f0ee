package state

import (
	"path/filepath"
)

const defaultConfigFileName = "config.json"

// GlobalFlags contains global config values that apply for all
// conformance-report sub-commands.
type GlobalFlags struct {
	ConfigFilePath string
	Quiet          bool
	NoColor        bool
	Verbose        bool
	LogOutput      string
	LogFormat      string
}

// GetDefaultFlags returns the default global flags.
func GetDefaultFlags(homeDir string) GlobalFlags {
	return GlobalFlags{
		ConfigFilePath: filepath.Join(homeDir, "sadosystems", "conformance-report", defaultConfigFileName),
		LogOutput:      "stderr",
	}
}

func getFlags(defaultFlags GlobalFlags, env map[string]string) GlobalFlags {
	result := defaultFlags

	// TODO: add environment variables for the rest of the values (after
	// adjusting rootCmdPersistentFlagSet(), of course)

	if val, ok := env["CONFREPORT_CONFIG"]; ok {
		result.ConfigFilePath = val
	}
	if val, ok := env["CONFREPORT_LOG_OUTPUT"]; ok {
		result.LogOutput = val
	}
	if val, ok := env["CONFREPORT_LOG_FORMAT"]; ok {
		result.LogFormat = val
	}
	if env["CONFREPORT_NO_COLOR"] != "" {
		result.NoColor = true
	}
	// Support https://no-color.org/, even an empty value should disable
	// the color output.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}

	return result
}
