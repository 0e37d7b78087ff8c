// sockmon is an interactive terminal monitor for the host's network sockets.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wellsgz/sockmon/internal/app"
	"github.com/wellsgz/sockmon/internal/config"
	"github.com/wellsgz/sockmon/internal/logbuf"
	"github.com/wellsgz/sockmon/internal/snapshot"
	"github.com/wellsgz/sockmon/internal/storage"
	"github.com/wellsgz/sockmon/internal/tui"
	"github.com/wellsgz/sockmon/internal/types"
)

var (
	configPath string
	interval   time.Duration
	logLevel   string
	logFile    string
	outputJSON bool
	dbPath     string
	sampleFor  time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sockmon",
		Short: "Network socket monitor",
		Long: `sockmon lists the TCP and UDP sockets open on this host together with
their owning processes, refreshing the view periodically.`,
		RunE:          runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: "+config.DefaultConfigPath+")")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", 0, "Refresh interval (default: 2s)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")

	// TUI command
	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch interactive terminal UI",
		RunE:  runTUI,
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current sockets once",
		RunE:  runList,
	}
	listCmd.Flags().BoolVar(&outputJSON, "json", false, "Output in JSON format")

	// Export command
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a socket and process snapshot to a SQLite file",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to write (required)")
	exportCmd.Flags().DurationVar(&sampleFor, "sample", time.Second, "CPU sampling window")
	exportCmd.MarkFlagRequired("db")

	rootCmd.AddCommand(tuiCmd, listCmd, exportCmd)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.RefreshInterval = interval
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogging installs the default slog logger writing to w, and to the
// configured log file when there is one. The returned func closes the file.
func setupLogging(cfg *config.Config, w io.Writer) (func(), error) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	closeFn := func() {}
	if path := cfg.ExpandedLogFile(); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(w, f)
		closeFn = func() { f.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logbuf.ShortTime,
	})
	slog.SetDefault(slog.New(handler))
	return closeFn, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout belongs to the dashboard; logs go to the Logs pane
	logs := logbuf.New(cfg.HistoryLines)
	closeLog, err := setupLogging(cfg, logs)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("starting", "interval", cfg.RefreshInterval)
	if os.Geteuid() != 0 {
		slog.Warn("running without root privileges, sockets of other users may lack owners")
	}

	state := app.New(cmd.Context(), snapshot.NewSystem(), snapshot.NewProcessSampler(), slog.Default())
	model := tui.New(state, tui.Options{
		RefreshInterval: cfg.RefreshInterval,
		Logs:            logs,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	sockets, err := snapshot.NewSystem().Connections(cmd.Context())
	if err != nil {
		return err
	}

	if outputJSON {
		if sockets == nil {
			sockets = []types.Socket{}
		}
		return json.NewEncoder(os.Stdout).Encode(sockets)
	}

	for _, s := range sockets {
		fmt.Println(types.FormatSocket(s))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := cmd.Context()
	state := app.New(ctx, snapshot.NewSystem(), snapshot.NewProcessSampler(), slog.Default())

	// The first sample only sets the CPU baseline.
	if err := sleep(ctx, sampleFor); err != nil {
		return err
	}
	r := state.Fetch(ctx)
	if r.Err != nil {
		return r.Err
	}
	if r.UsageErr != nil {
		slog.Warn("exporting without process usage", "error", r.UsageErr)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	procs := r.Usage.Owners(r.Sockets)
	if err := db.WriteSnapshot(r.At, r.Sockets, procs); err != nil {
		return err
	}

	fmt.Printf("Wrote %d sockets and %d processes to %s\n", len(r.Sockets), len(procs), db.Path())
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
