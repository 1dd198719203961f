package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/gengoka/internal/config"
	"github.com/abhisek/gengoka/internal/habits"
	"github.com/abhisek/gengoka/internal/logging"
	"github.com/abhisek/gengoka/internal/store"
	"github.com/abhisek/gengoka/internal/tracker"
)

// deps holds everything a command needs. Close releases it.
type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *store.Store
	tracker *tracker.Service
}

// openDeps loads config, builds the logger, opens the store and wires
// the tracker service.
func openDeps(cmd *cobra.Command) (*deps, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	phases := cfg.PhaseResolver()
	st, err := store.Open(dbPath,
		store.WithLogger(log.Named("store")),
		store.WithPhaseResolver(phases),
		store.WithPhaseTotals(cfg.Progress),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath))

	svc := tracker.NewService(st,
		tracker.WithLogger(log.Named("tracker")),
		tracker.WithEngine(habits.NewEngine(habits.WithMarkers(cfg.Markers()))),
		tracker.WithPhaseResolver(phases),
		tracker.WithKeepReports(cfg.Analysis.KeepReports),
	)

	return &deps{cfg: cfg, log: log, store: st, tracker: svc}, nil
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.log.Warn("close store", zap.Error(err))
	}
	_ = d.log.Sync()
}

// outputWidth returns the terminal width of stdout, or 0 when it is not a
// terminal.
func outputWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return 0
	}
	return w
}

// render prints styled output, downsampling colors to what the writer supports.
func render(cmd *cobra.Command, s string) {
	lipgloss.Fprintln(cmd.OutOrStdout(), s)
}

// confirm asks a yes/no question on stdin. --yes skips the prompt.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// openInput opens path for reading, with "-" meaning stdin.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}
