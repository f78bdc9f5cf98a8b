package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func requiredString(key string) (string, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return variable, nil
}

func stringWithDefault(key, def string) string {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def
	}
	return variable
}

func intWithDefault(key string, def int) (int, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	number, err := strconv.Atoi(variable)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %w", key, err)
	}
	return number, nil
}

func durationWithDefault(key string, def time.Duration) (time.Duration, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	d, err := time.ParseDuration(variable)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// Load assembles the full configuration from the environment. The shared
// API key is the only hard requirement; everything else has a default.
func Load() (*Config, error) {
	apiKey, err := requiredString("IS_API_KEY")
	if err != nil {
		return nil, err
	}

	mode := stringWithDefault("IS_MODE", ModeMaster)
	if mode != ModeMaster && mode != ModeClient {
		return nil, fmt.Errorf("invalid IS_MODE: %s (want master or client)", mode)
	}

	clients, err := ParseClients(os.Getenv("IS_CLIENTS"))
	if err != nil {
		return nil, err
	}

	probeTimeout, err := durationWithDefault("IS_PROBE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pushTimeout, err := durationWithDefault("IS_PUSH_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}

	mysqlPort, err := intWithDefault("MYSQL_PORT", 3306)
	if err != nil {
		return nil, err
	}

	return &Config{
		Mode:      mode,
		APIKey:    apiKey,
		Clients:   clients,
		Listen:    stringWithDefault("IS_LISTEN", "0.0.0.0:8080"),
		StateFile: stringWithDefault("IS_STATE_FILE", "inventory-sync-state.json"),
		Probe: ProbeConfig{
			ProbeTimeout: probeTimeout,
			PushTimeout:  pushTimeout,
		},
		Mysql: MysqlConfig{
			Host:     os.Getenv("MYSQL_HOST"),
			Port:     mysqlPort,
			Username: os.Getenv("MYSQL_USERNAME"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			Database: os.Getenv("MYSQL_DATABASE"),
		},
		TelegramBot: TelegramBotConfig{
			ChatId: os.Getenv("TELEGRAM_CHAT_ID"),
			Token:  os.Getenv("TELEGRAM_TOKEN"),
		},
	}, nil
}
