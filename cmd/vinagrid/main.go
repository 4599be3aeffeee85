// Package main is the vinagrid CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/vinagrid/internal/cli"
	"github.com/hyperjump/vinagrid/internal/config"
	"github.com/hyperjump/vinagrid/internal/docking"
	"github.com/hyperjump/vinagrid/internal/fileid"
	"github.com/hyperjump/vinagrid/internal/metrics"
	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/hyperjump/vinagrid/internal/results"
	"github.com/hyperjump/vinagrid/internal/rmsd"
	"github.com/hyperjump/vinagrid/internal/server"
	"github.com/hyperjump/vinagrid/internal/storage"
	"github.com/hyperjump/vinagrid/internal/vina"
	"github.com/hyperjump/vinagrid/internal/watcher"
	"github.com/hyperjump/vinagrid/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/vinagrid/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory; if neither exists, defaults are used with paths
// relative to the current directory.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", err
		}
		fallback := filepath.Join(cwd, "config.yaml")
		if _, statErr := os.Stat(fallback); statErr == nil {
			cfg, loadErr := config.Load(fallback)
			if loadErr != nil {
				return nil, "", loadErr
			}
			return cfg, fallback, nil
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default(cwd), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "run":
		runDock()
	case "watch":
		runWatch()
	case "serve", "server":
		runServer()
	case "runs":
		runList()
	case "show":
		runShow()
	case "delete":
		runDelete()
	case "version", "--version", "-v":
		fmt.Printf("vinagrid version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runFlags are the run command flags that override config values when set.
type runFlags struct {
	receptor       string
	ligand         string
	center         string
	box            string
	exhaustiveness int
	numPoses       int
	repeats        int
	seed           int64
	workers        int
	rmsd           bool
	reference      string
	outDir         string
	poseDir        string
	basename       string
	formats        string
	splitPoses     bool
}

func (f *runFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.receptor, "receptor", "", "receptor PDBQT file")
	fs.StringVar(&f.ligand, "ligand", "", "ligand PDBQT file")
	fs.StringVar(&f.center, "center", "", "dock at a single center \"x,y,z\" instead of the grid")
	fs.StringVar(&f.box, "box", "", "search box size \"x,y,z\"")
	fs.IntVar(&f.exhaustiveness, "exhaustiveness", 0, "engine exhaustiveness")
	fs.IntVar(&f.numPoses, "num-poses", 0, "poses per docking call")
	fs.IntVar(&f.repeats, "repeats", 0, "docking repeats per center")
	fs.Int64Var(&f.seed, "seed", 0, "base random seed (0 lets the engine choose)")
	fs.IntVar(&f.workers, "workers", 0, "centers docked in parallel (1 = sequential)")
	fs.BoolVar(&f.rmsd, "rmsd", false, "compute pose RMSD against --reference")
	fs.StringVar(&f.reference, "reference", "", "reference ligand for RMSD")
	fs.StringVar(&f.outDir, "out-dir", "", "directory for result tables")
	fs.StringVar(&f.poseDir, "pose-dir", "", "directory for docked pose files")
	fs.StringVar(&f.basename, "basename", "", "result table file name without extension")
	fs.StringVar(&f.formats, "format", "", "comma-separated result formats: tsv,csv,xlsx")
	fs.BoolVar(&f.splitPoses, "split-poses", false, "also write each pose to its own file")
}

// apply copies the flags that were set on fs into cfg. Relative paths are taken as given,
// i.e. relative to the working directory.
func (f *runFlags) apply(fs *flag.FlagSet, cfg *config.Config) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "receptor":
			cfg.Docking.Receptor = f.receptor
		case "ligand":
			cfg.Docking.Ligand = f.ligand
		case "center":
			if _, perr := models.ParseCenter(f.center); perr != nil {
				err = perr
				return
			}
			cfg.Grid.Center = f.center
		case "box":
			b, perr := models.ParseBoxSize(f.box)
			if perr != nil {
				err = perr
				return
			}
			cfg.Docking.BoxSize = b
		case "exhaustiveness":
			cfg.Docking.Exhaustiveness = f.exhaustiveness
		case "num-poses":
			cfg.Docking.NumPoses = f.numPoses
		case "repeats":
			cfg.Docking.Repeats = f.repeats
		case "seed":
			cfg.Docking.Seed = f.seed
		case "workers":
			cfg.Workers = f.workers
		case "rmsd":
			cfg.RMSD.Enabled = f.rmsd
		case "reference":
			cfg.RMSD.Reference = f.reference
		case "out-dir":
			cfg.Output.Dir = f.outDir
		case "pose-dir":
			cfg.Output.PoseDir = f.poseDir
		case "basename":
			cfg.Output.Basename = f.basename
		case "format":
			cfg.Output.Formats = splitList(f.formats)
		case "split-poses":
			cfg.Output.SplitPoses = f.splitPoses
		}
	})
	if err != nil {
		return err
	}
	// A single center switches to the single-center default file name unless one was given.
	if cfg.Grid.Single() && cfg.Output.Basename == config.DefaultBasename && !flagSet(fs, "basename") {
		cfg.Output.Basename = config.DefaultSingleBasename
	}
	return nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runDock() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (engine command lines, per-trial results)")
	noStore := fs.Bool("no-store", false, "do not record the run in the history database")
	outputFormat := fs.String("output", "text", "summary format: text or json")
	var rf runFlags
	rf.register(fs)
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := rf.apply(fs, cfg); err != nil {
		fmt.Printf("Invalid flag: %v\n", err)
		os.Exit(1)
	}
	if cfg.Docking.Ligand == "" {
		err = errors.New("docking.ligand is required")
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedConfigPath), zap.Bool("debug", debugMode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	if !*noStore {
		s, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Fatal("Failed to open run history", zap.Error(err))
		}
		defer s.Close()
		store = s
	}

	run, files, err := dockLigand(ctx, cfg, cfg.Docking.Ligand, cfg.Output.Basename, store, logger)
	if run == nil {
		fmt.Printf("Docking failed: %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		logger.Warn("Docking run interrupted; partial results written", zap.Error(err))
	}
	if werr := cli.WriteRunReport(os.Stdout, cli.NewRunReport(run, files), format); werr != nil {
		fmt.Printf("Failed to write summary: %v\n", werr)
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

// dockLigand runs one ligand over the configured centers, writes the result tables and, when
// store is non-nil, records the run. A cancelled run still writes and records what finished,
// but without the ligand fingerprint.
func dockLigand(ctx context.Context, cfg *config.Config, ligand, basename string, store storage.Storage, logger *zap.Logger) (*models.Run, []string, error) {
	centers, err := cfg.Grid.Centers()
	if err != nil {
		return nil, nil, err
	}
	runner, err := newRunner(cfg, ligand, logger)
	if err != nil {
		return nil, nil, err
	}
	writer, err := results.NewWriter(cfg.Output.Dir, basename, cfg.Output.Formats...)
	if err != nil {
		return nil, nil, err
	}

	run, runErr := runner.Run(ctx, centers)
	if run == nil {
		return nil, nil, runErr
	}
	// Only a run that covered every center marks the ligand as docked; an interrupted one
	// is recorded without a fingerprint so watch docks the ligand again.
	if runErr == nil {
		if id, err := fileid.LigandID(ligand); err == nil {
			run.LigandID = id
		} else {
			logger.Warn("Failed to fingerprint ligand", zap.String("ligand", ligand), zap.Error(err))
		}
	}

	files, err := writer.Write(run)
	if err != nil {
		return run, files, err
	}
	if store != nil {
		// Use a fresh context so an interrupted run is still recorded.
		saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.SaveRun(saveCtx, run); err != nil {
			logger.Error("Failed to record run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
	return run, files, runErr
}

// newRunner builds the engine, optional RMSD calculator and runner for one ligand.
func newRunner(cfg *config.Config, ligand string, logger *zap.Logger) (*docking.Runner, error) {
	engineOpts := []vina.CLIOption{vina.WithTimeout(cfg.Docking.Timeout), vina.WithLogger(logger)}
	if cfg.Docking.Scoring != "" {
		engineOpts = append(engineOpts, vina.WithScoring(cfg.Docking.Scoring))
	}
	engine := vina.NewCLI(cfg.Docking.Binary, engineOpts...)

	opts := []docking.Option{docking.WithLogger(logger)}
	if cfg.RMSD.Enabled {
		calc, err := rmsd.New(rmsd.Options{
			Backend:      cfg.RMSD.Backend,
			OBRMSBinary:  cfg.RMSD.Binary,
			ObabelBinary: cfg.RMSD.ObabelBinary,
			Convert:      cfg.RMSD.Convert,
			ConvertArgs:  cfg.RMSD.ConvertArgs,
			MaxPoses:     cfg.Docking.NumPoses,
		})
		if err != nil {
			return nil, err
		}
		opts = append(opts, docking.WithRMSD(calc, cfg.RMSD.Reference))
	}

	return docking.NewRunner(engine, docking.Config{
		Params:        cfg.Docking.Params(ligand),
		PoseDir:       cfg.Output.PoseDir,
		CPU:           cfg.Docking.CPU,
		Workers:       cfg.Workers,
		RMSDThreshold: cfg.RMSD.Threshold,
		SplitPoses:    cfg.Output.SplitPoses,
	}, opts...)
}

// watchBasename names the result tables of a watched ligand: <ligand>_<basename>.
func watchBasename(ligand, basename string) string {
	stem := strings.TrimSuffix(filepath.Base(ligand), filepath.Ext(ligand))
	return stem + "_" + basename
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file events, engine command lines)")
	existing := fs.Bool("existing", true, "also dock ligands already present in the watched directories")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	for _, d := range fs.Args() {
		abs, _ := filepath.Abs(d)
		cfg.Watch.Directories = append(cfg.Watch.Directories, abs)
	}
	if len(cfg.Watch.Directories) == 0 {
		fmt.Println("No watch directories: set watch.directories in config or pass them as arguments")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedConfigPath), zap.Bool("debug", debugMode))

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open run history", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchSvc, done, err := startLigandWatch(ctx, cfg, store, logger, *existing, debugMode)
	if err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer watchSvc.Stop()

	<-ctx.Done()
	logger.Info("Shutting down...")
	<-done
}

// startLigandWatch starts watching cfg.Watch.Directories and docks every ligand that appears,
// one at a time; each run already spreads its centers over the workers. The returned channel
// is closed once ctx is cancelled and the ligand in progress has been written and recorded.
func startLigandWatch(ctx context.Context, cfg *config.Config, store storage.Storage, logger *zap.Logger, existing, debug bool) (*watcher.Watcher, <-chan struct{}, error) {
	queue := make(chan string, 64)
	enqueue := func(path string) {
		select {
		case queue <- path:
		case <-ctx.Done():
		}
	}
	watchOpts := []watcher.Option{
		watcher.WithDebounce(cfg.Watch.Debounce),
		watcher.WithExclude(cfg.Output.PoseDir),
	}
	if debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.NewWatcher(cfg.Watch.Directories, cfg.Watch.Extensions, cfg.Watch.RecursiveOrDefault(), enqueue, watchOpts...)
	if err := watchSvc.Start(ctx); err != nil {
		return nil, nil, err
	}
	logger.Info("Watching for ligands", zap.Strings("directories", watchSvc.Directories()))

	if existing {
		go func() {
			for _, p := range watchSvc.Existing() {
				enqueue(p)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ligand := <-queue:
				dockWatched(ctx, cfg, ligand, store, logger)
			}
		}
	}()
	return watchSvc, done, nil
}

func dockWatched(ctx context.Context, cfg *config.Config, ligand string, store storage.Storage, logger *zap.Logger) {
	if cfg.Watch.SkipDockedOrDefault() {
		id, err := fileid.LigandID(ligand)
		if err != nil {
			logger.Warn("Skipping unreadable ligand", zap.String("ligand", ligand), zap.Error(err))
			return
		}
		done, err := store.HasLigand(ctx, id)
		if err != nil {
			logger.Warn("Run history lookup failed", zap.String("ligand", ligand), zap.Error(err))
		}
		if done {
			logger.Info("Ligand already docked, skipping", zap.String("ligand", ligand))
			return
		}
	}
	run, files, err := dockLigand(ctx, cfg, ligand, watchBasename(ligand, cfg.Output.Basename), store, logger)
	if err != nil {
		logger.Error("Docking failed", zap.String("ligand", ligand), zap.Error(err))
	}
	if run == nil {
		return
	}
	fields := []zap.Field{zap.String("run_id", run.ID), zap.String("ligand", ligand), zap.Strings("files", files)}
	if best := run.Best(); best != nil {
		fields = append(fields, zap.String("best_center", best.Center.String()), zap.Float64("best_mean", best.Mean))
	}
	logger.Info("Ligand docked", fields...)
}

func runServer() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	host := fs.String("host", "", "listen host (overrides config)")
	port := fs.Int("port", 0, "listen port (overrides config)")
	existing := fs.Bool("existing", true, "with watch.directories set, also dock ligands already present")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	watching := len(cfg.Watch.Directories) > 0
	if watching {
		if err := cfg.Validate(); err != nil {
			fmt.Printf("Invalid configuration: %v\n", err)
			os.Exit(1)
		}
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Info("config loaded", zap.String("config_path", resolvedConfigPath), zap.Bool("debug", debugMode))

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to open run history", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	// Dock dropped ligands in-process so /metrics and /api/v1/status reflect live runs.
	var watchSvc server.WatchService
	var watchDone <-chan struct{}
	if watching {
		w, done, err := startLigandWatch(ctx, cfg, store, logger, *existing, debugMode)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
		watchSvc, watchDone = w, done
	}

	srv := server.NewServer(store, cfg, logger, watchSvc)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
	if watchDone != nil {
		<-watchDone
	}
}

func openStore(configPath string) (storage.Storage, error) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
}

func runList() {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of runs to list")
	offset := fs.Int("offset", 0, "number of runs to skip")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	store, err := openStore(*configPath)
	if err != nil {
		fmt.Printf("Failed to open run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	runs, err := store.ListRuns(ctx, *offset, *limit)
	if err != nil {
		fmt.Printf("Failed to list runs: %v\n", err)
		os.Exit(1)
	}
	total, err := store.CountRuns(ctx)
	if err != nil {
		fmt.Printf("Failed to count runs: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRunList(os.Stdout, runs, total, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

// argsReorder moves flags given after the positional arguments to the front so
// "vinagrid show <id> --output json" parses like "vinagrid show --output json <id>".
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runShow() {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: vinagrid show [flags] <run-id>")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	store, err := openStore(*configPath)
	if err != nil {
		fmt.Printf("Failed to open run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	run, err := store.GetRun(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Printf("Failed to load run: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRun(os.Stdout, run, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: vinagrid delete [flags] <run-id>...")
		os.Exit(1)
	}
	store, err := openStore(*configPath)
	if err != nil {
		fmt.Printf("Failed to open run history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := deleteRuns(context.Background(), store, os.Stdout, fs.Args()); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
}

// deleteRuns removes each run and its points, stopping at the first failure. Result tables
// and pose files on disk are left alone.
func deleteRuns(ctx context.Context, store storage.Storage, w io.Writer, ids []string) error {
	for _, id := range ids {
		if err := store.DeleteRun(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(w, "Run deleted: %s\n", id)
	}
	return nil
}

func printUsage() {
	fmt.Println(`vinagrid - Grid docking with AutoDock Vina

Usage:
  vinagrid run [flags]                 Dock a ligand over the configured grid (or one --center)
  vinagrid watch [flags] [dir...]      Dock every ligand dropped into the watched directories
  vinagrid serve [flags]               Start the HTTP API over stored runs (and watch, if configured)
  vinagrid runs [flags]                List stored runs
  vinagrid show [flags] <run-id>       Show a stored run
  vinagrid delete [flags] <run-id>...  Delete stored runs (result files are kept)
  vinagrid version                     Show version
  vinagrid help                        Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/vinagrid/config.yaml, or ./config.yaml)
  --debug            Enable debug logging

Run Flags:
  --receptor, --ligand string      Input PDBQT files
  --center "x,y,z"                 Single center instead of the grid
  --box "x,y,z"                    Search box size (default: 18,10,13)
  --exhaustiveness, --num-poses, --repeats, --seed int
  --workers int                    Centers docked in parallel (default: number of CPUs)
  --rmsd, --reference string       Pose RMSD against a reference ligand
  --out-dir, --pose-dir, --basename string
  --format string                  Result formats: tsv,csv,xlsx (default: tsv,csv)
  --split-poses                    Also write each pose to its own file
  --no-store                       Do not record the run in the history database
  --output string                  Summary format: text or json

Serve Flags:
  --host string, --port int        Listen address (overrides config)
  --existing                       With watch.directories set, also dock ligands already there (default: true)

Runs/Show Flags:
  --limit, --offset int            Paging for runs
  --output string                  text or json

Examples:
  vinagrid run --receptor receptor.pdbqt --ligand ligand.pdbqt
  vinagrid run --center 75,-30,-60 --repeats 3 --exhaustiveness 32
  vinagrid run --rmsd --reference ligand_ref.pdb --num-poses 10 --format tsv,csv,xlsx
  vinagrid watch ./incoming
  vinagrid runs --output json
  vinagrid show 1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed`)
}
