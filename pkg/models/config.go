package models

// TriageSettings holds the tunable constants of the duplicate detector.
type TriageSettings struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	TitleWeight         float64 `yaml:"title_weight" mapstructure:"title_weight"`
	KeywordWeight       float64 `yaml:"keyword_weight" mapstructure:"keyword_weight"`
	MergeThreshold      float64 `yaml:"merge_threshold" mapstructure:"merge_threshold"`
	MaxMatches          int     `yaml:"max_matches" mapstructure:"max_matches"`
}

// LimitSettings holds the advisory thresholds used by alerts and reports.
type LimitSettings struct {
	P0              int `yaml:"p0" mapstructure:"p0"`
	P1              int `yaml:"p1" mapstructure:"p1"`
	P2              int `yaml:"p2" mapstructure:"p2"`
	AgingDays       int `yaml:"aging_days" mapstructure:"aging_days"`
	MaxBacklogItems int `yaml:"max_backlog_items" mapstructure:"max_backlog_items"`
}

// NotificationSettings configures outbound alert delivery. An empty webhook
// URL disables Slack notifications.
type NotificationSettings struct {
	SlackWebhookURL string `yaml:"slack_webhook_url" mapstructure:"slack_webhook_url"`
}

// GlobalConfig holds user-tunable settings read from config.yaml in the
// base directory.
type GlobalConfig struct {
	DefaultPriority      Priority             `yaml:"default_priority" mapstructure:"default_priority"`
	DefaultEstimatedTime int                  `yaml:"default_estimated_time" mapstructure:"default_estimated_time"`
	TriageEstimatedTime  int                  `yaml:"triage_estimated_time" mapstructure:"triage_estimated_time"`
	PruneDays            int                  `yaml:"prune_days" mapstructure:"prune_days"`
	Triage               TriageSettings       `yaml:"triage" mapstructure:"triage"`
	Limits               LimitSettings        `yaml:"limits" mapstructure:"limits"`
	Notifications        NotificationSettings `yaml:"notifications" mapstructure:"notifications"`
}
