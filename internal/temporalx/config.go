package temporalx

import (
	"github.com/yungbote/vitality-backend/internal/platform/envutil"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string
	// AnalysisCron is the schedule of the daily per-user analysis workflow.
	AnalysisCron string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string
}

func LoadConfig() Config {
	return Config{
		Address:      envutil.String("TEMPORAL_ADDRESS", ""),
		Namespace:    envutil.String("TEMPORAL_NAMESPACE", "vitality"),
		TaskQueue:    envutil.String("TEMPORAL_TASK_QUEUE", "vitality-analysis"),
		AnalysisCron: envutil.String("TEMPORAL_ANALYSIS_CRON", "0 3 * * *"),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", ""),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", ""),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", ""),
	}
}

// Enabled reports whether batch analysis should run on Temporal instead of
// the in-process runner.
func (c Config) Enabled() bool { return c.Address != "" }
