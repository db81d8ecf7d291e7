package client

import (
	"os"
	"strings"

	"github.com/yungbote/temporalguard/internal/envutil"
)

// Config carries the connection settings for a Temporal cluster. Every field
// is sourced from TEMPORALGUARD_* with a TEMPORAL_* fallback so the package
// can share an environment with other Temporal tooling.
type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	APIKey string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string
}

func LoadConfig() Config {
	return Config{
		Address:   configString("ADDRESS", ""),
		Namespace: configString("NAMESPACE", "default"),
		TaskQueue: configString("TASK_QUEUE", "temporalguard"),

		APIKey: configString("API_KEY", ""),

		ClientCertPath: configString("CLIENT_CERT_PATH", ""),
		ClientKeyPath:  configString("CLIENT_KEY_PATH", ""),
		ClientCAPath:   configString("CLIENT_CA_PATH", ""),
	}
}

func configString(suffix, def string) string {
	if v := strings.TrimSpace(os.Getenv("TEMPORALGUARD_" + suffix)); v != "" {
		return v
	}
	return envutil.String("TEMPORAL_"+suffix, def)
}
