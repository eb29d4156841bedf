// Command pytyled is the PyTyle daemon: it connects to the X11 server,
// builds the World Model, binds a Tiler to every screen, registers
// KEYMAP/CALLBACKS bindings, starts the IPC server, and runs the
// Scheduler's event loop until terminated.
//
// Structure mirrors the teacher's cmd/termtile/main.go runDaemon: load
// configuration, connect the Display Port, build the core components,
// register hotkeys, start IPC, then block on a signal/event select.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pytyle/pytyle/internal/config"
	"github.com/pytyle/pytyle/internal/daemon"
	"github.com/pytyle/pytyle/internal/dispatch"
	"github.com/pytyle/pytyle/internal/event"
	"github.com/pytyle/pytyle/internal/ipc"
	"github.com/pytyle/pytyle/internal/platform"
	"github.com/pytyle/pytyle/internal/tiler"
	"github.com/pytyle/pytyle/internal/world"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default ~/.config/pytyle/config.yaml)")
	flag.Parse()

	res, err := loadConfig(*configPath)
	if err != nil {
		log.Printf("pytyled: load configuration: %v (using built-in defaults)", err)
	}
	for _, verr := range res.Config.Validate() {
		log.Printf("pytyled: config: %v", verr)
	}
	log.Printf("pytyled: configuration loaded from %d file(s)", len(res.Files))

	port, err := platform.NewLinuxPortFromDisplay()
	if err != nil {
		log.Fatalf("pytyled: connect to X11: %v", err)
	}
	defer port.Close()
	log.Println("pytyled: connected to the X server")

	var dp platform.Port = platform.WithWorkareaOverrides(port, res.Config.WorkareaOverrides())

	w := world.New(dp)
	if err := w.LoadAll(); err != nil {
		log.Fatalf("pytyled: build world model: %v", err)
	}

	registry := dispatch.NewRegistry()
	if err := rebindTilers(w, registry, dp, res.Config); err != nil {
		log.Fatalf("pytyled: bind tilers: %v", err)
	}

	d := dispatch.New(w, registry, dp, res.Config.TilerOptions)

	if err := d.RegisterHotkeys(res.Config.Keymap); err != nil {
		log.Fatalf("pytyled: register hotkeys: %v", err)
	}
	if err := d.RegisterButtons(res.Config.Callbacks); err != nil {
		log.Fatalf("pytyled: register mouse callbacks: %v", err)
	}
	log.Printf("pytyled: registered %d hotkey(s), %d mouse callback(s)", len(res.Config.Keymap), len(res.Config.Callbacks))

	watcher, err := event.NewWatcher(dp)
	if err != nil {
		log.Fatalf("pytyled: subscribe to X11 events: %v", err)
	}

	configPathForReload := *configPath
	reload := func() (map[string]string, map[string]string, error) {
		next, err := loadConfig(configPathForReload)
		if err != nil {
			return nil, nil, err
		}
		res = next
		return next.Config.Keymap, next.Config.Callbacks, nil
	}

	timeout := time.Duration(res.Config.Misc.Timeout) * time.Second
	sched := dispatch.NewScheduler(w, d, watcher, reload, timeout)

	server, err := ipc.NewServer(w, registry, d, func() (*config.LoadResult, error) {
		next, err := loadConfig(configPathForReload)
		if err != nil {
			return nil, err
		}
		res = next
		return next, nil
	}, res)
	if err != nil {
		log.Fatalf("pytyled: build IPC server: %v", err)
	}
	if err := server.Start(); err != nil {
		log.Fatalf("pytyled: start IPC server: %v", err)
	}
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
		Interval: 5 * time.Second,
		Logger:   slog.Default(),
	}, dp, func() error {
		d.UngrabHotkeys()
		d.UngrabButtons()
		if err := d.RegisterHotkeys(res.Config.Keymap); err != nil {
			return fmt.Errorf("re-register hotkeys: %w", err)
		}
		if err := d.RegisterButtons(res.Config.Callbacks); err != nil {
			return fmt.Errorf("re-register callbacks: %w", err)
		}
		w.Wipe()
		if err := w.LoadAll(); err != nil {
			return fmt.Errorf("reload world: %w", err)
		}
		if err := rebindTilers(w, registry, dp, res.Config); err != nil {
			return fmt.Errorf("rebind tilers: %w", err)
		}
		return w.ResolveActive(true)
	})
	go reconciler.Run(ctx)

	go port.EventLoop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("pytyled: received %s, shutting down", sig)
		cancel()
	}()

	log.Println("pytyled started successfully")
	if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("pytyled: scheduler exited: %v", err)
	}
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// rebindTilers (re)binds a fresh tiler.Instance to every screen
// currently in w per cfg's TILING table, falling back to Vertical.
// Called at startup and again in the Reconciler's rehook after its
// world.Wipe+LoadAll.
func rebindTilers(w *world.World, registry *dispatch.Registry, port platform.Port, cfg *config.Config) error {
	initialKind := func(screenRawID int) (tiler.Kind, bool) {
		return cfg.InitialKind(screenRawID, nil)
	}
	return dispatch.Bootstrap(w, registry, port, initialKind, cfg.TilerOptions, tiler.KindVertical)
}
