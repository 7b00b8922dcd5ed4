// Copyright (C) Gufo Labs
// All rights reserved. This file is part of gufoagent.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/gops/agent"

	"github.com/gufolabs/gufoagent/internal/collector"
	"github.com/gufolabs/gufoagent/internal/config"
	"github.com/gufolabs/gufoagent/internal/housekeeping"
	"github.com/gufolabs/gufoagent/internal/httpserver"
	"github.com/gufolabs/gufoagent/internal/resolver"
	"github.com/gufolabs/gufoagent/internal/selfmetrics"
	"github.com/gufolabs/gufoagent/internal/sender"
	"github.com/gufolabs/gufoagent/internal/supervisor"
	"github.com/gufolabs/gufoagent/pkg/log"

	"github.com/gufolabs/gufoagent/collectors/natsline"
	"github.com/gufolabs/gufoagent/collectors/selftest"
)

const housekeepingInterval = 5 * time.Minute

func envOr(flagVal, envKey, def string) string {
	if flagVal != def {
		return flagVal
	}
	if v, ok := os.LookupEnv(envKey); ok {
		return v
	}
	return def
}

func boolEnvOr(flagVal bool, envKey string) bool {
	if flagVal {
		return true
	}
	_, ok := os.LookupEnv(envKey)
	return ok
}

func main() {
	var (
		flagConfig         string
		flagHostname       string
		flagInsecure       bool
		flagDumpMetrics    bool
		flagListCollectors bool
		flagDiscovery      bool
		flagDiscoveryOpts  string
		flagQuiet          bool
		flagVerbose1       bool
		flagVerbose2       bool
		flagGops           bool
	)
	flag.StringVar(&flagConfig, "config", "", "Location of the configuration: file:<path>, http(s)://<url>, or a bare path")
	flag.StringVar(&flagHostname, "hostname", "", "Override the auto-detected agent hostname")
	flag.BoolVar(&flagInsecure, "insecure", false, "Disable TLS certificate validation when fetching the config")
	flag.BoolVar(&flagDumpMetrics, "dump-metrics", false, "Also write every store update to stdout")
	flag.BoolVar(&flagListCollectors, "list-collectors", false, "Print registered collector names and exit")
	flag.BoolVar(&flagDiscovery, "config-discovery", false, "Generate a zero-config by probing available collectors")
	flag.StringVar(&flagDiscoveryOpts, "config-discovery-opts", "", "CSV options for --config-discovery; items prefixed with '-' disable a named collector")
	flag.BoolVar(&flagQuiet, "q", false, "Quiet: only log warnings and errors")
	flag.BoolVar(&flagVerbose1, "v", false, "Verbose: enable debug logging")
	flag.BoolVar(&flagVerbose2, "vv", false, "Extra verbose: alias for -v")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.Parse()

	switch {
	case flagQuiet:
		log.SetLevel("warn")
	case flagVerbose1, flagVerbose2:
		log.SetLevel("debug")
	}

	if boolEnvOr(flagGops, "GA_GOPS") {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Abortf("gops/agent.Listen failed: %s", err)
		}
	}

	if flagListCollectors {
		for _, name := range registeredCollectors() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	location := envOr(flagConfig, "GA_CONFIG", "")
	hostname := envOr(flagHostname, "GA_HOSTNAME", "")
	insecure := boolEnvOr(flagInsecure, "GA_INSECURE")
	dumpMetrics := boolEnvOr(flagDumpMetrics, "GA_DUMP_METRICS")

	var res resolver.Resolver
	if flagDiscovery {
		res = newDiscoveryResolver(flagDiscoveryOpts)
	} else {
		if location == "" {
			log.Abortf("--config (or GA_CONFIG) is required unless --config-discovery is set")
		}
		r, err := resolver.New(location, insecure)
		if err != nil {
			log.Abortf("building config resolver: %s", err)
		}
		res = r
	}
	if hostname != "" {
		res = withHostname(res, hostname)
	}

	// A first fetch, used only to size the HTTP exposition server
	// (listen address, path, TLS). The supervisor performs its own
	// fetch/poll loop independently once started (spec.md §4.1, §4.7).
	bootCfg, err := res.GetConfig()
	if err != nil {
		log.Abortf("fetching initial config: %s", err)
	}

	snd := sender.New(dumpMetrics)
	factory := buildFactory()
	sv := supervisor.New(snd, factory, func(ctx context.Context) { go snd.Run(ctx) })

	selfReg := selfmetrics.New()
	sv.SetMetrics(selfReg)

	ctx, cancel := context.WithCancel(context.Background())

	hk, err := housekeeping.Start(snd, housekeepingInterval, selfReg)
	if err != nil {
		log.Abortf("starting housekeeping: %s", err)
	}

	srv := httpserver.New(snd, httpserver.Options{
		Addr:        bootCfg.Sender.ListenAddr(),
		Path:        bootCfg.Sender.MetricsPath(),
		CertFile:    bootCfg.Sender.CertFile,
		KeyFile:     bootCfg.Sender.KeyFile,
		SelfMetrics: selfReg,
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sv.Run(ctx, res); err != nil {
			log.Errorf("supervisor stopped: %s", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(bootCfg.Sender.CertFile, bootCfg.Sender.KeyFile); err != nil {
			log.Errorf("http server stopped: %s", err)
		}
	}()

	log.Infof("gufoagent running (pid %d)", os.Getpid())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Infof("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = hk.Shutdown()
	cancel()
	wg.Wait()
	log.Infof("graceful shutdown complete")
}

// buildFactory maps config.Collector.Type to a concrete
// collector.Collector constructor. Real deployments register far more
// types here (one per plug-in); the core ships the self-contained
// examples only (spec.md §1 "individual collector plug-ins... are
// deliberately out of scope").
func buildFactory() supervisor.Factory {
	return func(c config.Collector) (collector.Collector, error) {
		switch c.Type {
		case selftest.Name:
			return selftest.New(c.ID, selftest.Config{}), nil
		case natsline.Name:
			return buildNatsline(c)
		default:
			return nil, fmt.Errorf("unknown collector type %q", c.Type)
		}
	}
}

func buildNatsline(c config.Collector) (collector.Collector, error) {
	raw, err := c.PayloadJSON()
	if err != nil {
		return nil, fmt.Errorf("natsline %s: %w", c.ID, err)
	}
	if err := config.Validate(natsline.ConfigSchema, raw); err != nil {
		return nil, fmt.Errorf("natsline %s: %w", c.ID, err)
	}
	cfg, err := natsline.ParseConfig(raw)
	if err != nil {
		return nil, fmt.Errorf("natsline %s: %w", c.ID, err)
	}
	return natsline.New(c.ID, cfg)
}

func registeredCollectors() []string {
	return []string{selftest.Name, natsline.Name}
}

// hostnameResolver wraps a Resolver, forcing agent.host (and, by
// extension, the "host" agent label every collector inherits) to a
// fixed value on every fetch — the --hostname/GA_HOSTNAME override
// (spec.md §6).
type hostnameResolver struct {
	resolver.Resolver
	host string
}

func withHostname(r resolver.Resolver, host string) resolver.Resolver {
	return &hostnameResolver{Resolver: r, host: host}
}

func (h *hostnameResolver) GetConfig() (*config.Config, error) {
	cfg, err := h.Resolver.GetConfig()
	if err != nil {
		return nil, err
	}
	cfg.Agent.Host = h.host
	if cfg.Agent.Labels == nil {
		cfg.Agent.Labels = make(map[string]string, 1)
	}
	cfg.Agent.Labels["host"] = h.host
	return cfg, nil
}

// discoveryResolver generates a single static Config by enabling a
// default set of registered collectors, then applying opts — a CSV of
// collector names, a bare name enabling it and a "-"-prefixed name
// disabling it (spec.md §6 "--config-discovery / --config-discovery-opts").
// It fetches exactly once: IsRepeatable is false, so the supervisor
// runs this generated set for the lifetime of the process.
type discoveryResolver struct {
	opts string
}

func newDiscoveryResolver(opts string) *discoveryResolver {
	return &discoveryResolver{opts: opts}
}

func (d *discoveryResolver) IsRepeatable() bool { return false }
func (d *discoveryResolver) IsFailable() bool   { return false }
func (d *discoveryResolver) Sleep(succeeded bool) {}

func (d *discoveryResolver) GetConfig() (*config.Config, error) {
	enabled := map[string]bool{selftest.Name: true}
	for _, item := range strings.Split(d.opts, ",") {
		item = strings.TrimSpace(item)
		switch {
		case item == "":
		case strings.HasPrefix(item, "-"):
			enabled[strings.TrimPrefix(item, "-")] = false
		default:
			enabled[item] = true
		}
	}

	interval := 60
	var collectors []config.Collector
	for name, on := range enabled {
		if !on {
			continue
		}
		collectors = append(collectors, config.Collector{
			ID:       name,
			Type:     name,
			Interval: &interval,
			Payload:  map[string]interface{}{},
		})
	}

	return &config.Config{
		Version:    "1",
		Type:       "gufoagent",
		Collectors: collectors,
	}, nil
}
