package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "http://127.0.0.1:3000"
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = 30
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Bot.ExportCommand == "" {
		cfg.Bot.ExportCommand = "导出群数据"
	}
	if cfg.Bot.ExportAllCommand == "" {
		cfg.Bot.ExportAllCommand = "导出所有群数据"
	}
}
