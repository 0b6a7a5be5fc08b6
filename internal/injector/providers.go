// Package injector assembles the service with google/wire. Regenerate
// wire_gen.go with `go generate ./internal/injector` after changing the
// provider set.
package injector

import (
	"github.com/google/wire"

	"github.com/geomsync/geomsync/internal/server"
)

// ProviderSet builds a server from a config file path.
var ProviderSet = wire.NewSet(
	server.LoadConfig,
	server.NewServer,
)
