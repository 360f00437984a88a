// Command crabe runs the on-field control stack: a fixed-rate tick loop
// that pulls network input, filters it into a coherent World, runs
// Decision and Guard against it, ships commands to Output, and mirrors
// every tick to the Tool Server. Grounded on the teacher's cmd/server's
// config-load-then-serve shape, restructured around a tick loop instead
// of an HTTP request loop since this binary drives a real-time control
// process rather than a web service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crabe/internal/config"
	"crabe/internal/decision"
	"crabe/internal/decision/manager"
	"crabe/internal/filter"
	"crabe/internal/guard"
	"crabe/internal/input"
	"crabe/internal/logging"
	"crabe/internal/model"
	"crabe/internal/output"
	"crabe/internal/tool"
)

// tickInterval is the fixed tick period (§2: "a fixed ~60Hz tick").
const tickInterval = 16 * time.Millisecond

func main() {
	cfg := config.Load()
	log := logging.New("crabe", logging.ParseLevel(cfg.Common.LogLevel))

	team := model.Blue
	if cfg.Common.TeamColor == "yellow" {
		team = model.Yellow
	}

	world := model.NewWorld(team)

	in := input.New(cfg, log)
	in.Start()
	defer in.Close()

	filt := filter.New(world, filter.FieldMaskNone)

	mgr := manager.NewBigBrotherManager()
	dec := decision.New(mgr)

	grd := guard.DefaultPipeline()

	out, err := output.New(cfg, team, in, log)
	if err != nil {
		log.Errorf("output: failed to start: %v", err)
		os.Exit(1)
	}
	defer out.Close()

	var toolServer *tool.Server
	if cfg.ToolServer.Enabled {
		toolServer = tool.NewServer(cfg.ToolServer, log)
		toolServer.Start()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			toolServer.Stop(ctx)
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	log.Infof("starting tick loop: team=%s real=%v tool_server=%v", cfg.Common.TeamColor, cfg.Common.Real, cfg.ToolServer.Enabled)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-sigCh:
			log.Infof("shutdown signal received, stopping after %d ticks", tick)
			return
		case now := <-ticker.C:
			runTick(tick, now, world, in, filt, dec, grd, out, toolServer, team, log)
			tick++
		}
	}
}

func runTick(
	tick uint64,
	now time.Time,
	world *model.World,
	in *input.Pipeline,
	filt *filter.Pipeline,
	dec *decision.Pipeline,
	grd *guard.Pipeline,
	out output.Pipeline,
	toolServer *tool.Server,
	team model.TeamColor,
	log *logging.Logger,
) {
	start := time.Now()

	inbound := in.Step()
	filt.Step(inbound, now)

	cmds, tools := dec.Step(world)
	grd.Step(world, cmds, &tools, log)
	out.Step(team, cmds)

	if toolServer != nil {
		toolServer.PushTick(tick, world, &tools)
	}

	tool.RecordTick(time.Since(start), len(cmds))
}
