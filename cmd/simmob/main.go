// Command simmob runs the short-term driving core as a standalone batch
// process (spec §6's "CLI surface (minimal): simmob <config-file> [mpi]").
// Grounded on the teacher's main.go: logrus with the same logrus-easy-
// formatter layout, a bad-config boundary (exit code 1 rather than the
// teacher's panic), a --cache flag gating the
// input disk cache. The teacher's syncer/connectrpc/gRPC sidecar and
// multi-service economy simulator are dropped entirely — spec.md's
// Non-goals exclude MPI/distributed glue, and this core has no sibling
// services to expose over RPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/simmobility/st-core/clock"
	"github.com/simmobility/st-core/message"
	"github.com/simmobility/st-core/network"
	"github.com/simmobility/st-core/scheduler"
	"github.com/simmobility/st-core/utils/config"
	"github.com/simmobility/st-core/utils/input"
)

var (
	cacheDir = flag.String("cache", "data/", "input cache dir path (empty disables the cache)")

	logLevels = map[string]logrus.Level{
		"trace": logrus.TraceLevel, "debug": logrus.DebugLevel, "info": logrus.InfoLevel,
		"warn": logrus.WarnLevel, "error": logrus.ErrorLevel, "critical": logrus.FatalLevel, "off": logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "one of trace debug info warn error critical off")

	log = logrus.WithField("module", "simmob")
)

func main() {
	os.Exit(run())
}

// run returns spec §6's exit codes: 0 on success, 1 on any configuration or
// load error. Kept separate from main so defers actually execute before
// os.Exit, and so the failure path is a plain return instead of a panic.
func run() int {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Errorf("log.level must be one of %v", logLevels)
		return 1
	}

	args := flag.Args()
	if len(args) < 1 {
		log.Error("usage: simmob <config-file> [mpi]")
		return 1
	}
	configPath := args[0]
	mpi := len(args) > 1 && args[1] == "mpi"
	if mpi {
		log.Warn("mpi mode requested but this core runs single-process only; ignoring")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Errorf("config: %v", err)
		return 1
	}
	log.Infof("loaded config: %+v", cfg)

	net, err := buildNetwork(cfg.Input, *cacheDir)
	if err != nil {
		log.Errorf("network: %v", err)
		return 1
	}
	log.Infof("network ready: %d nodes, %d links, %d lanes", len(net.Nodes), len(net.Links), len(net.Lanes))

	c, err := clock.New(cfg.Control.BaseGranMs, cfg.Control.Step.Start, cfg.Control.Step.Total)
	if err != nil {
		log.Errorf("clock: %v", err)
		return 1
	}

	bus := message.New()
	s := scheduler.New(c, net, bus)
	s.AddLanes()
	if cfg.Control.Workers > 0 {
		s.Concurrency = cfg.Control.Workers
	}

	// Driver population is out of scope here (spec.md's Non-goals exclude
	// demand generation/trip-chain assignment); a caller embedding this core
	// constructs behavior.NewParameterManager/NewLongitudinalModel and
	// intersection.NewRegistry itself and adds driver.Worker instances via
	// s.AddWorker before calling s.Run.
	log.Infof("running %d ticks at %dms granularity", cfg.Control.Step.Total, cfg.Control.BaseGranMs)
	s.Run(context.Background(), int(cfg.Control.Step.Total), 100)
	log.Info("simulation complete")
	return 0
}

// buildNetwork resolves cfg's NetworkLoader and builds the RoadNetwork,
// logging (but not failing on) every dropped dangling reference — spec §7's
// NetworkIntegrityError policy is "non-fatal, drop and continue".
func buildNetwork(cfg config.Input, cacheDir string) (*network.RoadNetwork, error) {
	loader, err := input.Load(cfg, cacheDir)
	if err != nil {
		return nil, fmt.Errorf("load network source: %w", err)
	}
	net, errs := network.Build(loader)
	for _, e := range errs {
		log.Warn(e.Error())
	}
	return net, nil
}
