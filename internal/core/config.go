// Package core contains the business logic for sift, including task and
// contact management, backlog triage, duplicate detection, reports, and
// configuration.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ecrawford/sift/pkg/models"
)

// ConfigurationManager loads and validates the config.yaml settings file
// from the base directory.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the directory where config.yaml resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// config.yaml from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with the stock
// settings: P2 tasks estimated at half an hour, hour-long triage tasks, a
// thirty day prune horizon, and the standard triage weights and limits.
func DefaultGlobalConfig() models.GlobalConfig {
	return models.GlobalConfig{
		DefaultPriority:      models.P2,
		DefaultEstimatedTime: 30,
		TriageEstimatedTime:  60,
		PruneDays:            30,
		Triage: models.TriageSettings{
			SimilarityThreshold: 0.6,
			TitleWeight:         0.7,
			KeywordWeight:       0.3,
			MergeThreshold:      0.8,
			MaxMatches:          3,
		},
		Limits: models.LimitSettings{
			P0:              3,
			P1:              5,
			P2:              10,
			AgingDays:       7,
			MaxBacklogItems: 10,
		},
	}
}

// LoadGlobalConfig reads config.yaml from the base path using Viper. If the
// file does not exist, the defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	defaults := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("default_priority", string(defaults.DefaultPriority))
	v.SetDefault("default_estimated_time", defaults.DefaultEstimatedTime)
	v.SetDefault("triage_estimated_time", defaults.TriageEstimatedTime)
	v.SetDefault("prune_days", defaults.PruneDays)
	v.SetDefault("triage.similarity_threshold", defaults.Triage.SimilarityThreshold)
	v.SetDefault("triage.title_weight", defaults.Triage.TitleWeight)
	v.SetDefault("triage.keyword_weight", defaults.Triage.KeywordWeight)
	v.SetDefault("triage.merge_threshold", defaults.Triage.MergeThreshold)
	v.SetDefault("triage.max_matches", defaults.Triage.MaxMatches)
	v.SetDefault("limits.p0", defaults.Limits.P0)
	v.SetDefault("limits.p1", defaults.Limits.P1)
	v.SetDefault("limits.p2", defaults.Limits.P2)
	v.SetDefault("limits.aging_days", defaults.Limits.AgingDays)
	v.SetDefault("limits.max_backlog_items", defaults.Limits.MaxBacklogItems)
	v.SetDefault("notifications.slack_webhook_url", defaults.Notifications.SlackWebhookURL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// No config file found, run on defaults.
			return &defaults, nil
		}
		return nil, fmt.Errorf("reading config.yaml: %w", err)
	}

	cfg := &models.GlobalConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.yaml: %w", err)
	}

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns an
// error naming every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if _, err := models.ParsePriority(string(cfg.DefaultPriority)); err != nil {
		errs = append(errs, fmt.Sprintf("default_priority %q is invalid, must be one of: P0, P1, P2, P3", cfg.DefaultPriority))
	}
	if cfg.DefaultEstimatedTime <= 0 {
		errs = append(errs, fmt.Sprintf("default_estimated_time must be positive, got %d", cfg.DefaultEstimatedTime))
	}
	if cfg.TriageEstimatedTime <= 0 {
		errs = append(errs, fmt.Sprintf("triage_estimated_time must be positive, got %d", cfg.TriageEstimatedTime))
	}
	if cfg.PruneDays < 1 {
		errs = append(errs, fmt.Sprintf("prune_days must be at least 1, got %d", cfg.PruneDays))
	}

	if cfg.Triage.SimilarityThreshold < 0 || cfg.Triage.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Sprintf("triage.similarity_threshold %.2f is invalid, must be between 0 and 1", cfg.Triage.SimilarityThreshold))
	}
	if cfg.Triage.TitleWeight < 0 || cfg.Triage.TitleWeight > 1 {
		errs = append(errs, fmt.Sprintf("triage.title_weight %.2f is invalid, must be between 0 and 1", cfg.Triage.TitleWeight))
	}
	if cfg.Triage.KeywordWeight < 0 || cfg.Triage.KeywordWeight > 1 {
		errs = append(errs, fmt.Sprintf("triage.keyword_weight %.2f is invalid, must be between 0 and 1", cfg.Triage.KeywordWeight))
	}
	if cfg.Triage.MergeThreshold < 0 || cfg.Triage.MergeThreshold > 1 {
		errs = append(errs, fmt.Sprintf("triage.merge_threshold %.2f is invalid, must be between 0 and 1", cfg.Triage.MergeThreshold))
	}
	if cfg.Triage.MaxMatches < 1 {
		errs = append(errs, fmt.Sprintf("triage.max_matches must be at least 1, got %d", cfg.Triage.MaxMatches))
	}

	if cfg.Limits.P0 < 1 || cfg.Limits.P1 < 1 || cfg.Limits.P2 < 1 {
		errs = append(errs, "limits.p0, limits.p1 and limits.p2 must each be at least 1")
	}
	if cfg.Limits.AgingDays < 1 {
		errs = append(errs, fmt.Sprintf("limits.aging_days must be at least 1, got %d", cfg.Limits.AgingDays))
	}
	if cfg.Limits.MaxBacklogItems < 1 {
		errs = append(errs, fmt.Sprintf("limits.max_backlog_items must be at least 1, got %d", cfg.Limits.MaxBacklogItems))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
