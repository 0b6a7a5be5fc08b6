//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/geomsync/geomsync/internal/server"
)

// BuildServer resolves the config file at configPath and wires a server
// around it. An empty path uses defaults plus environment overrides.
func BuildServer(configPath string) (*server.Server, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
