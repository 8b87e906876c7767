// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/grip/internal/adapters/logger"
	_ "go.trai.ch/grip/internal/adapters/site"
	_ "go.trai.ch/grip/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/grip/internal/app"
)
