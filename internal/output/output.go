package output

import (
	"crabe/internal/config"
	"crabe/internal/input"
	"crabe/internal/logging"
	"crabe/internal/model"
)

// New builds the Output transport cfg.Common.Real selects: simulator UDP
// unicast when false, real USB serial when true.
func New(cfg config.AppConfig, team model.TeamColor, in *input.Pipeline, log *logging.Logger) (Pipeline, error) {
	if cfg.Common.Real {
		return NewRealPipeline(cfg.Real, log)
	}
	return NewSimulatorPipeline(cfg.Simulator, team, in, log)
}
