package services

import (
	"context"
	"strconv"

	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/repository"
)

// ConfigService handles runtime settings stored in the settings table
type ConfigService struct {
	log  logger.Logger
	repo repository.SettingsRepository
}

// NewConfigService creates a new ConfigService
func NewConfigService(log logger.Logger, repo repository.SettingsRepository) *ConfigService {
	return &ConfigService{log: log, repo: repo}
}

// GetMultiWinConfig returns the stored multi-win configuration. Missing or
// malformed values fall back to their defaults.
func (s *ConfigService) GetMultiWinConfig(ctx context.Context) (models.MultiWinConfig, error) {
	cfg := models.DefaultMultiWinConfig()
	var err error
	if cfg.TwoWinPercentage, err = s.intSetting(ctx, repository.SettingTwoWinPercentage, cfg.TwoWinPercentage); err != nil {
		return cfg, err
	}
	if cfg.ThreeWinPercentage, err = s.intSetting(ctx, repository.SettingThreeWinPercentage, cfg.ThreeWinPercentage); err != nil {
		return cfg, err
	}
	if cfg.MinEpochInterval, err = s.intSetting(ctx, repository.SettingMinEpochInterval, cfg.MinEpochInterval); err != nil {
		return cfg, err
	}
	if cfg.Enabled, err = s.boolSetting(ctx, repository.SettingMultiWinEnabled, cfg.Enabled); err != nil {
		return cfg, err
	}
	if cfg.CoverageMode, err = s.boolSetting(ctx, repository.SettingCoverageMode, cfg.CoverageMode); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// UpdateMultiWinConfig validates and saves the multi-win configuration
func (s *ConfigService) UpdateMultiWinConfig(ctx context.Context, cfg models.MultiWinConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	err := s.repo.SetSettings(ctx, map[string]string{
		repository.SettingTwoWinPercentage:   strconv.Itoa(cfg.TwoWinPercentage),
		repository.SettingThreeWinPercentage: strconv.Itoa(cfg.ThreeWinPercentage),
		repository.SettingMinEpochInterval:   strconv.Itoa(cfg.MinEpochInterval),
		repository.SettingMultiWinEnabled:    strconv.FormatBool(cfg.Enabled),
		repository.SettingCoverageMode:       strconv.FormatBool(cfg.CoverageMode),
	})
	if err != nil {
		return err
	}
	s.log.Info("Multi-win config updated",
		"two_win_percentage", cfg.TwoWinPercentage,
		"three_win_percentage", cfg.ThreeWinPercentage,
		"min_epoch_interval", cfg.MinEpochInterval,
		"enabled", cfg.Enabled,
		"coverage_mode", cfg.CoverageMode)
	return nil
}

// GetSystemConfig returns display settings
func (s *ConfigService) GetSystemConfig(ctx context.Context) (models.SystemConfig, error) {
	cfg := models.DefaultSystemConfig()
	var err error
	cfg.WinnerDisplayDelayMS, err = s.intSetting(ctx, repository.SettingWinnerDisplayDelay, cfg.WinnerDisplayDelayMS)
	return cfg, err
}

// UpdateSystemConfig validates and saves display settings
func (s *ConfigService) UpdateSystemConfig(ctx context.Context, cfg models.SystemConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.repo.SetSetting(ctx, repository.SettingWinnerDisplayDelay, strconv.Itoa(cfg.WinnerDisplayDelayMS))
}

// GetBaseURL returns the application base URL
func (s *ConfigService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, repository.SettingBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // No default - setting not yet configured
		}
		return "", err // Propagate database errors
	}
	return value, nil
}

// SetBaseURL saves the application base URL
func (s *ConfigService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, repository.SettingBaseURL, url)
}

func (s *ConfigService) intSetting(ctx context.Context, key string, def int) (int, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if err == repository.ErrNotFound {
			return def, nil
		}
		return def, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		s.log.Warn("Ignoring malformed setting", "key", key, "value", value)
		return def, nil
	}
	return n, nil
}

func (s *ConfigService) boolSetting(ctx context.Context, key string, def bool) (bool, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if err == repository.ErrNotFound {
			return def, nil
		}
		return def, err
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		s.log.Warn("Ignoring malformed setting", "key", key, "value", value)
		return def, nil
	}
	return b, nil
}
