package types

import (
	"github.com/wasper/research-api/internal/models"
	"github.com/wasper/research-api/internal/services/runs"
	"github.com/wasper/research-api/pkg/config"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	RunService runs.RunService
	Config     *config.Config
	Sources    []models.SourceInfo
	Build      BuildInfo
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}
