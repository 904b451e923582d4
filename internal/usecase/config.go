package usecase

import (
	"context"

	"github.com/runoshun/taskboard/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	Config *domain.Config    // Effective configuration
	Info   domain.ConfigInfo // Where it was read from
}

// ShowConfig displays the effective configuration and its sources.
type ShowConfig struct {
	configManager domain.ConfigManager
	config        *domain.Config
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, config *domain.Config) *ShowConfig {
	return &ShowConfig{
		configManager: configManager,
		config:        config,
	}
}

// Execute retrieves configuration information.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	return &ShowConfigOutput{
		Config: uc.config,
		Info:   uc.configManager.GetConfigInfo(),
	}, nil
}

// InitConfigInput contains the input for the InitConfig use case.
type InitConfigInput struct{}

// InitConfigOutput contains the path of the created file.
type InitConfigOutput struct {
	Path string
}

// InitConfig writes the global config template.
type InitConfig struct {
	configManager domain.ConfigManager
}

// NewInitConfig creates a new InitConfig use case.
func NewInitConfig(configManager domain.ConfigManager) *InitConfig {
	return &InitConfig{configManager: configManager}
}

// Execute creates the global config file. It fails with domain.ErrConfigExists
// rather than overwrite.
func (uc *InitConfig) Execute(_ context.Context, _ InitConfigInput) (*InitConfigOutput, error) {
	if err := uc.configManager.InitGlobalConfig(); err != nil {
		return nil, err
	}
	return &InitConfigOutput{Path: uc.configManager.GetConfigInfo().GlobalPath}, nil
}
