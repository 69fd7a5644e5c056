package configs

import (
	"flag"
	"os"

	"github.com/hilthontt/plugdj/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file from --config, PLUGDJ_CONFIG,
// then a list of usual locations. It returns "" when none exists; the bot
// then runs on defaults and environment alone.
func DetermineConfigPath(fs *flag.FlagSet, args []string) string {
	var configPath string

	fs.StringVar(&configPath, "config", "", "path to config file")
	_ = fs.Parse(args)

	if configPath == "" {
		configPath = env.GetString("PLUGDJ_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/plugbot/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
