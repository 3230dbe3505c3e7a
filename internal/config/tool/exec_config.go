package tool

// ExecToolConfig configures the run_command tool.
type ExecToolConfig struct {
	Timeout int `json:"timeout"` // seconds
	// Shell overrides the platform shell, e.g. "bash -c" or "powershell -Command".
	Shell string `json:"shell,omitempty"`
	// RestrictToWorkspace blocks commands that reach outside the workspace.
	RestrictToWorkspace bool `json:"restrictToWorkspace"`
}

func DefaultExecToolConfig() ExecToolConfig {
	return ExecToolConfig{Timeout: 60}
}
