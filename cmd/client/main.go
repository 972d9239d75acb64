package main

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/bdamokos/travel-tracker/internal/adapter"
	"github.com/bdamokos/travel-tracker/internal/client"
	"github.com/bdamokos/travel-tracker/internal/config"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/provider"
	"github.com/bdamokos/travel-tracker/internal/queue"
	"github.com/bdamokos/travel-tracker/internal/service"
	"github.com/bdamokos/travel-tracker/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("travel-tracker-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	backend, err := store.NewQueueBackend(ctx, cfg.Storage.Queue, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create queue backend")
	}

	registry := provider.DefaultRegistry()
	offlineQueue, err := queue.NewStore(ctx, backend, registry, log)
	if err != nil {
		log.Fatal().Err(err).Msg("load offline queue")
	}

	online := dialProbe(cfg.Adapter.HTTPAddress, cfg.Adapter.RequestTimeout)
	services := service.NewClientServices(offlineQueue, serverAdapter, registry, online, log)

	app, err := client.NewApp(services, offlineQueue, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

// dialProbe reports server reachability with a cheap TCP dial, so a sync
// pass can short-circuit while the device is offline.
func dialProbe(address string, timeout time.Duration) service.OnlineProbe {
	host := address
	if strings.Contains(host, "://") {
		if u, err := url.Parse(host); err == nil && u.Host != "" {
			host = u.Host
		}
	}
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "80")
	}
	if timeout == 0 {
		timeout = 3 * time.Second
	}

	return func(ctx context.Context) bool {
		dialer := net.Dialer{Timeout: timeout}
		conn, err := dialer.DialContext(ctx, "tcp", host)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
