package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "CASECTL"

	cfgKeyServer  = "server"
	cfgKeyTimeout = "timeout"
	cfgKeyDraft   = "draft_key"

	defaultServer  = "http://localhost:3000"
	defaultTimeout = 15 * time.Second
)

// loadConfig resolves settings as flag > CASECTL_* env > config.yaml > default.
// An explicit --config file must exist; the per-user config.yaml is optional.
func loadConfig(configFile string, root *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyServer, defaultServer)
	v.SetDefault(cfgKeyTimeout, defaultTimeout)
	v.SetDefault(cfgKeyDraft, "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	flags := root.PersistentFlags()
	for key, flag := range map[string]string{cfgKeyServer: "server", cfgKeyTimeout: "timeout"} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "casectl"))
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}
