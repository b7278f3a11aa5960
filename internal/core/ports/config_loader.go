package ports

import "go.trai.ch/stitch/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration file by walking up from cwd and resolves it.
	Load(cwd string) (*domain.Config, error)
	// LoadFile resolves the configuration file at path.
	LoadFile(path string) (*domain.Config, error)
}
