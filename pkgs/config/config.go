package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Server struct {
	Address string
	Port    uint16
	Type    string
}

// Timeouts holds request timing read from the config file. Only Settle is
// used (the status command's wait before it reads the status snapshot);
// Connect and Request are not passed to the blocking client helpers, which
// use their own defaults or the CLI's per-call flags.
type Timeouts struct {
	Connect time.Duration
	Request time.Duration
	Settle  time.Duration
}

type Configuration struct {
	Server   Server
	Timeouts Timeouts
}

func NewConfig() (*Configuration, error) {
	config := Configuration{}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName(".loco")
	v.AddConfigPath("$HOME/")
	v.AddConfigPath(".")
	_ = v.SafeWriteConfig()

	v.SetDefault("server.address", "192.168.0.111")
	v.SetDefault("server.port", 21105)
	v.SetDefault("server.type", "z21")
	v.SetDefault("timeouts.connect", 2*time.Second)
	v.SetDefault("timeouts.request", 2*time.Second)
	v.SetDefault("timeouts.settle", 300*time.Millisecond)

	v.SetEnvPrefix("LOCO")
	v.AutomaticEnv()
	_ = v.BindEnv("server.address", "LOCO_Z21_ADDRESS")
	_ = v.BindEnv("server.port", "LOCO_Z21_PORT")

	if err := v.ReadInConfig(); err != nil {
		return &Configuration{}, fmt.Errorf("cannot parse config: %s", err.Error())
	}
	if err := v.Unmarshal(&config); err != nil {
		return &config, fmt.Errorf("cannot parse config: %s", err.Error())
	}

	// watch the config file so a station address change on disk is picked
	// up without a restart
	v.OnConfigChange(func(e fsnotify.Event) {
		logrus.Debugf("config file changed: %s", e.Name)
		if err := v.Unmarshal(&config); err != nil {
			logrus.Errorf("cannot reload config: %s", err)
		}
	})
	v.WatchConfig()

	return &config, nil
}
