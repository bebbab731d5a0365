// cmd/fsmbridge/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tamzrod/fsm-bridge/internal/afe"
	"github.com/tamzrod/fsm-bridge/internal/channel"
	"github.com/tamzrod/fsm-bridge/internal/config"
	"github.com/tamzrod/fsm-bridge/internal/control"
	"github.com/tamzrod/fsm-bridge/internal/dsp/sim"
	"github.com/tamzrod/fsm-bridge/internal/logging"
	"github.com/tamzrod/fsm-bridge/internal/monitor"
	"github.com/tamzrod/fsm-bridge/internal/power"
	"github.com/tamzrod/fsm-bridge/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: fsmbridge <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	b := cfg.Bridge

	closeLog := logging.Setup(b.Log)
	defer closeLog()

	log.Printf("fsmbridge %s starting (config=%s)", control.Version, cfgPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Power supply
	// --------------------

	supply, closePower, err := power.Build(b.Power)
	if err != nil {
		log.Fatalf("power build failed: %v", err)
	}
	defer closePower()

	// --------------------
	// DSP transport + command channel
	// --------------------

	endpoints := afe.Endpoints{
		Playback: afe.Endpoint{Role: afe.Playback, PortID: b.Endpoints.PlaybackPort},
		Capture:  afe.Endpoint{Role: afe.Capture, PortID: b.Endpoints.CapturePort},
	}

	dsp := sim.New(sim.Config{
		Endpoints:    endpoints,
		ReadyAfter:   ms(b.Sim.ReadyAfterMs),
		ReplyDelay:   ms(b.Sim.ReplyDelayMs),
		RejectConfig: b.Sim.RejectConfig,
		BSG:          simBSG(b.Sim.BSG),
	})
	defer dsp.Close()

	ch, err := channel.New(channel.Config{
		Endpoints:    endpoints,
		ChunkLimit:   b.Channel.ChunkLimit,
		Retries:      b.Channel.Retries,
		RetrySleep:   ms(b.Channel.RetrySleepMs),
		ReplyTimeout: ms(b.Channel.ReplyTimeoutMs),
	}, dsp, nil)
	if err != nil {
		log.Fatalf("channel build failed: %v", err)
	}
	dsp.Attach(ch.Notify)

	// --------------------
	// Adaptive monitor
	// --------------------

	mon, err := monitor.New(monitor.Config{
		LegacyInterval: ms(b.Monitor.LegacyIntervalMs),
	}, ch, supply)
	if err != nil {
		log.Fatalf("monitor build failed: %v", err)
	}
	if *b.Monitor.Autostart {
		mon.Set(true)
	}
	defer mon.Stop()

	// --------------------
	// Control surface
	// --------------------

	svc := control.NewService(ch, mon)

	_, serveErr, err := control.StartServer(ctx, control.ServerConfig{ListenAddr: b.Control.Listen}, svc)
	if err != nil {
		log.Fatalf("control server failed: %v", err)
	}

	// --------------------
	// Status memory (optional)
	// --------------------

	if b.Status != nil {
		sw, closeStatus, err := writer.BuildStatusWriter(b.Status)
		if err != nil {
			log.Fatalf("status writer failed: %v", err)
		}
		defer closeStatus()

		go writer.RunStatus(ctx, mon, sw, time.Second)
	}

	select {
	case <-ctx.Done():
		log.Printf("fsmbridge: shutting down")
	case err, ok := <-serveErr:
		if ok && err != nil {
			log.Printf("control server stopped: %v", err)
		}
		stop()
	}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func simBSG(c config.SimBSGConfig) afe.BSGConfig {
	return afe.BSGConfig{
		BSGMode:      c.BSGMode,
		BSGEnable:    boolWord(c.BSGEnable),
		BSGInterval:  c.BSGInterval,
		TCMode:       c.TCMode,
		TCModeEnable: boolWord(c.TCModeEnable),
		TCInterval:   c.TCInterval,
	}
}

func boolWord(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
