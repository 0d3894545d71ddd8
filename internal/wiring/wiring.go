// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/stackhub/internal/adapters/archive"
	_ "go.trai.ch/stackhub/internal/adapters/config"
	_ "go.trai.ch/stackhub/internal/adapters/httpapi"
	_ "go.trai.ch/stackhub/internal/adapters/logger"
	_ "go.trai.ch/stackhub/internal/adapters/statefile"
	// Register app and engine nodes.
	_ "go.trai.ch/stackhub/internal/app"
	_ "go.trai.ch/stackhub/internal/engine/registry"
)
