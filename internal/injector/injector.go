//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/hollowpoint/hollowpoint/internal/core/observability/log"
	"github.com/hollowpoint/hollowpoint/internal/server"
)

func ProvideLogger() *log.Logger {
	wire.Build(log.Provide)
	return log.New(log.LevelDebug)
}

// ProvideServer assembles a simulation server from the default configuration
// and the process logger.
func ProvideServer() (*server.Server, error) {
	wire.Build(
		server.DefaultConfig,
		log.Provide,
		wire.Bind(new(log.Log), new(*log.Logger)),
		server.NewServer,
	)
	return nil, nil
}
