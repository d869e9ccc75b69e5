package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/viewframe/viewframe/internal/control"
	"github.com/viewframe/viewframe/internal/controller"
	"github.com/viewframe/viewframe/internal/metrics"
	"github.com/viewframe/viewframe/internal/playback"
	"github.com/viewframe/viewframe/internal/screens"
	"github.com/viewframe/viewframe/internal/settings"
	"github.com/viewframe/viewframe/internal/store"
	"github.com/viewframe/viewframe/internal/util"
)

func main() {
	prefsPath := flag.String("config", settings.DefaultPath(), "path to YAML preferences")
	logLevel := flag.String("log-level", "", "log level override (trace|debug|info|warn|error)")
	socketPath := flag.String("socket", "", "control socket path override")
	storePath := flag.String("store", "", "session store path override")
	provider := flag.String("screens", "", "screen provider override (static|x11)")
	metricsEnabled := flag.Bool("metrics", true, "collect transition metrics")
	demo := flag.Bool("demo", false, "replay a scripted playback timeline")
	flag.Parse()

	prefs, rawPrefs, err := loadPreferences(*prefsPath)
	if err != nil {
		exitErr(err)
	}

	level := prefs.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logger := util.NewLogger(util.ParseLogLevel(level))
	if rawPrefs == nil {
		logger.Infof("no preferences at %s, using defaults", *prefsPath)
	}

	screenProvider, closeScreens, err := buildScreenProvider(logger, prefs, *provider)
	if err != nil {
		exitErr(err)
	}
	if closeScreens != nil {
		defer closeScreens()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	binding, runBinding := buildBinding(*demo)
	defer binding.Close()

	sessionPath := prefs.Store.Path
	if *storePath != "" {
		sessionPath = *storePath
	}

	collector := metrics.NewCollector(*metricsEnabled)
	ctrl, err := controller.New(controller.Options{
		Logger:    logger,
		Metrics:   collector,
		Binding:   binding,
		Provider:  screenProvider,
		Prefs:     prefs,
		StorePath: sessionPath,
	})
	if err != nil {
		exitErr(fmt.Errorf("create controller: %w", err))
	}

	session, err := store.Load(sessionPath)
	if err != nil {
		logger.Warnf("load session: %v", err)
	} else if session != nil {
		ctrl.Restore(session)
		logger.Debugf("restored session from %s", sessionPath)
	}

	prefsFullPath, err := filepath.Abs(*prefsPath)
	if err != nil {
		exitErr(fmt.Errorf("resolve preferences path: %w", err))
	}
	prefsFullPath = filepath.Clean(prefsFullPath)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		exitErr(fmt.Errorf("watch preferences: %w", err))
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(prefsFullPath)); err != nil {
		exitErr(fmt.Errorf("watch preferences dir: %w", err))
	}
	if err := watcher.Add(prefsFullPath); err != nil {
		logger.Debugf("unable to watch preferences file directly: %v", err)
	}
	reloadRequests := make(chan string, 1)
	go watchPreferences(logger, watcher, prefsFullPath, reloadRequests)

	lastRaw := rawPrefs
	reload := func(reason string) error {
		logger.Infof("%s, reloading preferences", reason)
		data, err := os.ReadFile(*prefsPath)
		if err != nil {
			return fmt.Errorf("read preferences: %w", err)
		}
		next, err := settings.Parse(data)
		if err != nil {
			return fmt.Errorf("parse preferences: %w", err)
		}
		if diff := settings.DiffSerialized(lastRaw, data); diff != "" {
			logger.Debugf("preferences diff:\n%s", diff)
		}
		lastRaw = data
		logger.SetLevel(util.ParseLogLevel(next.LogLevel))
		ctrl.ApplyPreferences(next)
		return nil
	}

	ctrlSocket := prefs.Control.Socket
	if *socketPath != "" {
		ctrlSocket = *socketPath
	}
	ctrlSrv := control.NewServer(ctrl, collector, logger, reload, ctrlSocket)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	errs := make(chan error, 2)
	go func() {
		errs <- ctrl.Run(ctx)
	}()
	go func() {
		errs <- ctrlSrv.Serve(ctx)
	}()
	if runBinding != nil {
		go runBinding(ctx)
	}

	for {
		select {
		case err := <-errs:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("daemon exited: %v", err)
				os.Exit(1)
			}
			logger.Infof("daemon stopped")
			return
		case reason := <-reloadRequests:
			if err := reload(reason); err != nil {
				logger.Errorf("reload failed: %v", err)
			}
		case sig := <-sigs:
			switch sig {
			case syscall.SIGHUP:
				if err := reload("received SIGHUP"); err != nil {
					logger.Errorf("reload failed: %v", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				logger.Infof("received %s, shutting down", sig)
				cancel()
			}
		}
	}
}

// loadPreferences reads the preferences file, falling back to defaults
// when it does not exist yet. The raw bytes feed the reload diff.
func loadPreferences(path string) (*settings.Preferences, []byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings.Default(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read preferences: %w", err)
	}
	prefs, err := settings.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse preferences: %w", err)
	}
	return prefs, data, nil
}

func buildScreenProvider(logger *util.Logger, prefs *settings.Preferences, override string) (screens.Provider, func(), error) {
	name := prefs.Screens.Provider
	if override != "" {
		name = override
	}
	switch name {
	case "", "static":
		return screens.DefaultStatic(), nil, nil
	case "x11":
		x, err := screens.ConnectX11()
		if err != nil {
			logger.Warnf("x11 screens unavailable (%v), using static fallback", err)
			return screens.DefaultStatic(), nil, nil
		}
		return x, x.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown screen provider %q", name)
	}
}

// buildBinding selects the playback binding. Until a real player client
// lands, the in-memory binding keeps the daemon usable from the control
// socket alone.
func buildBinding(demo bool) (playback.Binding, func(context.Context) error) {
	if demo {
		scripted := playback.NewScripted(demoScript())
		return scripted, scripted.Run
	}
	fake := playback.NewFake()
	fake.SetAspect(16.0 / 9.0)
	return fake, nil
}

// demoScript walks through a few representative aspect ratios so the
// transition pipeline can be watched from vfctl tui.
func demoScript() []playback.ScriptStep {
	return []playback.ScriptStep{
		{After: 1 * time.Second, Aspect: 16.0 / 9.0},
		{After: 5 * time.Second, Aspect: 4.0 / 3.0},
		{After: 5 * time.Second, Aspect: 2.35},
		{After: 5 * time.Second, Aspect: 1.0},
		{After: 5 * time.Second, Aspect: 16.0 / 9.0},
	}
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
