package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks"
	"github.com/randalmurphal/flowblocks/pkg/flowblocks/config"
	"github.com/randalmurphal/flowblocks/pkg/flowblocks/observability"
	"github.com/randalmurphal/flowblocks/pkg/flowblocks/snapshot"
)

var (
	errNoSource    = errors.New("one of --file or --db is required")
	errNoFlow      = errors.New("--flow is required with --db")
	errNoDatabase  = errors.New("--db is required")
	errInvalidFlow = errors.New("flow is invalid")
)

// app holds flag values and the state shared by all commands of one run.
type app struct {
	configPath    string
	file          string
	dbPath        string
	flowID        string
	out           string
	logLevel      string
	logFormat     string
	maxIterations int
	tracing       bool
	metrics       bool

	// insert-block and insert-step
	branches  int
	branch    string
	stepLabel string
	stepID    string

	settings config.Settings
	logger   *slog.Logger
	shutdown func(context.Context) error
}

// setup loads settings, applies flag overrides and starts logging and
// telemetry. Explicit flags win over the config file.
func (a *app) setup(cmd *cobra.Command) error {
	settings := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		settings = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		settings.LogLevel = strings.ToLower(a.logLevel)
	}
	if flags.Changed("log-format") {
		settings.LogFormat = strings.ToLower(a.logFormat)
	}
	if flags.Changed("max-iterations") {
		settings.MaxIterations = a.maxIterations
	}
	if flags.Changed("trace") {
		settings.Tracing = a.tracing
	}
	if flags.Changed("metrics") {
		settings.Metrics = a.metrics
	}
	if flags.Changed("db") || settings.Database == "" {
		settings.Database = a.dbPath
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	a.settings = settings

	logger, err := observability.NewLogger(cmd.ErrOrStderr(), settings.LogLevel, settings.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger

	if settings.Tracing || settings.Metrics {
		shutdown, err := initTelemetry(cmd.ErrOrStderr(), settings.Tracing, settings.Metrics)
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}
	return nil
}

// teardown flushes telemetry.
func (a *app) teardown(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	err := a.shutdown(ctx)
	a.shutdown = nil
	return err
}

// resolveOptions builds resolver options from the active settings.
func (a *app) resolveOptions() []flowblocks.ResolveOption {
	opts := []flowblocks.ResolveOption{
		flowblocks.WithMaxIterations(a.settings.MaxIterations),
		flowblocks.WithLogger(a.logger),
	}
	if a.settings.Metrics {
		opts = append(opts, flowblocks.WithMetrics(observability.NewMetricsRecorder()))
	}
	if a.settings.Tracing {
		opts = append(opts, flowblocks.WithSpans(observability.NewSpanManager()))
	}
	return opts
}

// openStore opens the configured snapshot database.
func (a *app) openStore() (*snapshot.SQLiteStore, error) {
	if a.settings.Database == "" {
		return nil, errNoDatabase
	}
	return snapshot.NewSQLiteStore(a.settings.Database, snapshot.WithBusyTimeout(a.settings.BusyTimeout))
}

// source is a loaded flow and, for database flows, the store it came from.
type source struct {
	snap  *snapshot.Snapshot
	store snapshot.Store
}

// Close releases the store, if any.
func (s *source) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// loadSource reads the flow named by --file, or by --db and --flow.
func (a *app) loadSource() (*source, error) {
	if a.file != "" {
		snap, err := snapshot.FromFile(a.file)
		if err != nil {
			return nil, err
		}
		if snap.FlowID == "" {
			snap.FlowID = flowIDFromPath(a.file)
		}
		return &source{snap: snap}, nil
	}

	if a.settings.Database == "" {
		return nil, errNoSource
	}
	if a.flowID == "" {
		return nil, errNoFlow
	}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	snap, err := store.Load(a.flowID)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load flow %s: %w", a.flowID, err)
	}
	return &source{snap: snap, store: store}, nil
}

// flowIDFromPath derives a flow ID from a file name without extension.
func flowIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSnapshotFile encodes snap to path in the format its extension names.
func writeSnapshotFile(path string, snap *snapshot.Snapshot) error {
	format, err := snapshot.FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := snapshot.Encode(snap, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
