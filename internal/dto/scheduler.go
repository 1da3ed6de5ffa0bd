package dto

// ── promotion scheduler ──

// ScheduleUpdateResponse result of POST /scheduler/date
type ScheduleUpdateResponse struct {
	CronExpression string `json:"cron_expression"`
	NextRun        string `json:"next_run"`
}

// ScheduleResponse the installed promotion trigger
type ScheduleResponse struct {
	CronExpression string `json:"cron_expression"`
	Date           string `json:"date"` // dd.MM
	Day            int    `json:"day"`
	Month          int    `json:"month"`
	Timezone       string `json:"timezone"`
	NextRun        string `json:"next_run"`
}

// LastRunResponse outcome of the most recent promotion, scheduled or manual
type LastRunResponse struct {
	Trigger    string      `json:"trigger"` // "schedule" or "manual"
	FinishedAt string      `json:"finished_at"`
	Succeeded  bool        `json:"succeeded"`
	Error      string      `json:"error,omitempty"`
	Report     interface{} `json:"report,omitempty"`
}
