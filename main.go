// Command densitymesh turns a voxel density field into a triangle mesh.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/memmaker/densitymesh/engine/util"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

func bindFlags(fs *flag.FlagSet, cfg *Config) *string {
	configPath := fs.String("config", "", "JSON config file, flags given explicitly override it")
	fs.Var(int32Value{&cfg.ChunkSize}, "chunk-size", "cells per chunk edge")
	fs.Var(int32Value{&cfg.ChunksX}, "chunks-x", "chunks along x")
	fs.Var(int32Value{&cfg.ChunksY}, "chunks-y", "chunks along y")
	fs.Var(int32Value{&cfg.ChunksZ}, "chunks-z", "chunks along z")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "noise seed")
	fs.Float64Var(&cfg.Frequency, "frequency", cfg.Frequency, "noise frequency")
	fs.Float64Var(&cfg.BaseHeight, "base-height", cfg.BaseHeight, "terrain base height")
	fs.Float64Var(&cfg.Amplitude, "amplitude", cfg.Amplitude, "terrain height variation")
	fs.Var(int32Value{&cfg.BlockLevel}, "block-level", "cells below this world height are blocks")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "mesher goroutines")
	fs.Var(int32Value{&cfg.GroupSize}, "group-size", "edge length of a cell group")
	fs.IntVar(&cfg.Lanes, "lanes", cfg.Lanes, "goroutines per cell group")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "allocation strategy: grouped or direct")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "glb output file, empty to skip")
	fs.BoolVar(&cfg.Merge, "merge", cfg.Merge, "export one world space mesh")
	fs.StringVar(&cfg.Preview, "preview", cfg.Preview, "png of the middle density slice")
	fs.StringVar(&cfg.Save, "save", cfg.Save, "write the density map to this file")
	fs.StringVar(&cfg.Load, "load", cfg.Load, "read the density map from this file")
	fs.StringVar(&cfg.ChunkNBT, "chunk-nbt", cfg.ChunkNBT, "read a single NBT chunk")
	fs.StringVar(&cfg.SPIRV, "spirv", cfg.SPIRV, "write the compiled GPU kernel here, tables go to <file>.tables")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "error, warn, info or debug")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")
	return configPath
}

type int32Value struct {
	p *int32
}

func (v int32Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatInt(int64(*v.p), 10)
}

func (v int32Value) Set(s string) error {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return errors.Wrapf(err, "not a 32 bit integer: %q", s)
	}
	*v.p = int32(n)
	return nil
}

func parseArgs(args []string, output io.Writer) (Config, error) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet("densitymesh", flag.ContinueOnError)
	fs.SetOutput(output)
	configPath := bindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if *configPath == "" {
		return cfg, nil
	}

	fileCfg, err := LoadConfig(*configPath)
	if err != nil {
		return cfg, err
	}
	overlay := flag.NewFlagSet("densitymesh", flag.ContinueOnError)
	bindFlags(overlay, &fileCfg)
	fs.Visit(func(f *flag.Flag) {
		if err == nil && f.Name != "config" {
			err = overlay.Set(f.Name, f.Value.String())
		}
	})
	return fileCfg, err
}

func setupLogger(cfg Config, w *os.File) {
	util.GLOBAL_LOG_LEVEL = util.ParseLogLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var handler slog.Handler
	if cfg.LogJSON || !term.IsTerminal(int(w.Fd())) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	util.SetLogger(slog.New(handler))
}

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogger(cfg, os.Stderr)
	util.LogSystemDebug("[Config] " + util.ToJson(cfg))

	report, err := runApp(cfg)
	if err != nil {
		util.LogSystemError(fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
	util.LogSystemInfo(report.String())
}
