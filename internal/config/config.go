package config

import "time"

const (
	ModeMaster = "master"
	ModeClient = "client"
)

type Config struct {
	Mode        string
	APIKey      string
	Clients     []ClientEndpoint
	Listen      string
	StateFile   string
	Probe       ProbeConfig
	Mysql       MysqlConfig
	TelegramBot TelegramBotConfig
}

// ClientEndpoint is one remote store the master pushes stock to. Key is the
// API key configured on that store, presented back to it on every request.
type ClientEndpoint struct {
	URL string
	Key string
}

type ProbeConfig struct {
	ProbeTimeout time.Duration
	PushTimeout  time.Duration
}

type MysqlConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

type TelegramBotConfig struct {
	ChatId string
	Token  string
}

func (c *Config) IsMaster() bool {
	return c.Mode == ModeMaster
}
