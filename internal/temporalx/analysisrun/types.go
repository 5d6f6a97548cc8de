package analysisrun

const (
	WorkflowName      = "daily_analysis"
	ActivityListUsers = "analysis_list_users"
	ActivityRunUser   = "analysis_run_user"
)

type DailyInput struct {
	// Concurrency bounds how many user activities run at once.
	Concurrency int `json:"concurrency"`
}

type UserResult struct {
	UserID       string `json:"user_id"`
	Correlations int    `json:"correlations"`
	Predictions  int    `json:"predictions"`
	Moments      int    `json:"moments"`
}

type DailyResult struct {
	Users     int      `json:"users"`
	Succeeded int      `json:"succeeded"`
	Failed    []string `json:"failed,omitempty"`
}
