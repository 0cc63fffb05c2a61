package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	lib "github.com/theoremus-urban-solutions/bikeshare-traffic"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/dataset"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/formatter"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/session"
)

func main() {
	mode := flag.String("mode", "oneshot", "serve|oneshot|convert")
	format := flag.String("format", "json", "json|msgpack")
	minute := flag.Int("time", -1, "time filter as minute of day (0-1439), -1 for any time")
	systemName := flag.String("system", "", "system name from config.systems[]")
	out := flag.String("out", "", "convert: output path (.parquet, .db, .sqlite)")
	configPath := flag.String("config", "", "config file (default: config.yml or $CONFIG_PATH)")
	debug := flag.Bool("debug", false, "development logging")
	flag.Parse()

	_ = godotenv.Load()
	_ = godotenv.Overload(".env.local")

	if err := loadConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(*debug || config.Config.Logging.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	name, dsCfg := config.SelectSystem(*systemName)

	ctx := context.Background()
	ds, err := dataset.LoadFromConfig(ctx, name, dsCfg)
	if err != nil {
		log.Fatalf("failed to load dataset for %s: %v", name, err)
	}

	switch *mode {
	case "serve":
		serve(ctx, ds)
	case "oneshot":
		buf, err := oneshot(ds, *minute, *format)
		if err != nil {
			log.Fatalf("oneshot failed: %v", err)
		}
		_, _ = os.Stdout.Write(buf)
		if *format != formatter.FormatMsgPack {
			fmt.Println()
		}
	case "convert":
		if err := convert(ctx, ds, *out, dsCfg.TripsTable); err != nil {
			log.Fatalf("convert failed: %v", err)
		}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func loadConfig(path string) error {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		return config.LoadAppConfigFrom(path)
	}
	return config.LoadAppConfig()
}

func serve(ctx context.Context, ds *dataset.Dataset) {
	port := config.Config.Server.Port
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		port = p
	}

	sc := config.Config.Sessions
	idle := time.Duration(sc.IdleTimeoutSec) * time.Second
	reg := session.NewRegistry(session.NewData(ds), session.OptionsFromConfig(config.Config.View), idle, sc.MaxSessions)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go reg.Run(ctx, time.Minute)

	lib.StartServer(lib.NewService(reg, config.Config), port)
	lib.HandleGracefulShutdown()
}

// oneshot runs a single session pass and serializes its markers
func oneshot(ds *dataset.Dataset, minute int, format string) ([]byte, error) {
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	s := session.New(session.NewData(ds), session.OptionsFromConfig(config.Config.View), lib.ViewportFromConfig(config.Config.Map))
	if minute != -1 {
		if err := s.Apply(session.FilterChanged{Minute: minute}); err != nil {
			return nil, err
		}
	}
	return formatter.NewResponseBuilder().Build(f, formatter.WrapMarkers(s, time.Now()))
}
