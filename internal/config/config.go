// Package config loads the syncd JSON config file through viper and
// exposes typed accessors for the composite sections.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// PlayerConfig identifies the local player.
type PlayerConfig struct {
	ID   int    `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

// NetConfig holds the UDP endpoints for the session.
type NetConfig struct {
	ListenAddr string `json:"listenAddr" mapstructure:"listenAddr"`
	PeerAddr   string `json:"peerAddr" mapstructure:"peerAddr"`
}

// TickConfig controls the fixed-rate update loop.
type TickConfig struct {
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./synclogs")

	viper.SetDefault("player.id", 1)
	viper.SetDefault("player.name", "Player")

	viper.SetDefault("net.listenAddr", "0.0.0.0:8888")
	viper.SetDefault("net.peerAddr", "127.0.0.1:8889")

	viper.SetDefault("tick.interval", "16ms")

	viper.SetDefault("db.enabled", false)
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "syncd")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "syncd-metrics")

	viper.SetConfigName("syncd.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetPlayerConfig returns the local player identity section.
func GetPlayerConfig() PlayerConfig {
	return PlayerConfig{
		ID:   viper.GetInt("player.id"),
		Name: viper.GetString("player.name"),
	}
}

// GetNetConfig returns the network section.
func GetNetConfig() NetConfig {
	return NetConfig{
		ListenAddr: viper.GetString("net.listenAddr"),
		PeerAddr:   viper.GetString("net.peerAddr"),
	}
}

// GetTickConfig returns the update-loop section.
func GetTickConfig() TickConfig {
	return TickConfig{
		Interval: viper.GetDuration("tick.interval"),
	}
}
