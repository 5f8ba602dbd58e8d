// Command controldeck runs the PaddleVision landmark-to-control adapter and
// serves its HTTP/WebSocket API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/controldeck/internal/adapter"
	"github.com/ayusman/controldeck/internal/plugin"
	"github.com/ayusman/controldeck/internal/schema"
	"github.com/ayusman/controldeck/internal/server"
	"github.com/ayusman/controldeck/internal/sink"
	"github.com/ayusman/controldeck/internal/source"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	sourceType := flag.String("source", "synthetic", "landmark source: synthetic or ws")
	wsURL := flag.String("ws-url", "ws://127.0.0.1:9001/landmarks", "tracker WebSocket URL for -source ws")
	schemaName := flag.String("schema", schema.DefaultName, "registered schema name")
	pluginDir := flag.String("plugins", "", "plugin directory (disabled when empty)")
	console := flag.Bool("console", false, "log every emitted control value")
	flag.Parse()

	fmt.Println("ControlDeck - PaddleVision input adapter")

	var src source.Source
	switch *sourceType {
	case "synthetic":
		src = source.NewSynthetic(source.DefaultSyntheticConfig())
	case "ws":
		src = source.NewWebSocket(*wsURL)
	default:
		log.Fatalf("Unknown source type %q", *sourceType)
	}

	hub := sink.NewHub(adapter.SourceLabel, adapter.DefaultDevice)

	builder := adapter.NewBuilder().
		WithSchemaName(*schemaName).
		WithSource(src).
		WithSink(sink.NewBusSink(sink.NewBus(), adapter.SourceLabel, adapter.DefaultDevice)).
		WithSink(hub)
	if *console {
		builder.WithSink(sink.NewConsole())
	}
	if *pluginDir != "" {
		builder.WithSink(plugin.NewSink(plugin.NewManager(*pluginDir), adapter.SourceLabel, adapter.DefaultDevice))
	}

	a := builder.Build()
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start adapter: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		a.Stop()
		os.Exit(0)
	}()

	srv := server.New(server.Config{Adapter: a, Hub: hub})
	fmt.Printf("Starting server on %s\n", *addr)
	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
