package window

// WindowConfig holds the browser chat window settings.
type WindowConfig struct {
	Addr string `json:"addr"`
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{Addr: "127.0.0.1:18790"}
}
