package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hearthd/hearth/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override hearth config path (optional)")
	backend := flag.String("backend", "", "hearthd address, host:port or URL (overrides config)")
	listen := flag.String("listen", "", "embedded proxy listen address (overrides config)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		Backend:     *backend,
		ProxyListen: *listen,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "hearth: %v\n", err)
		return 1
	}
	return 0
}
