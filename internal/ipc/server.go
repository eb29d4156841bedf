package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/pytyle/pytyle/internal/config"
	"github.com/pytyle/pytyle/internal/dispatch"
	"github.com/pytyle/pytyle/internal/runtimepath"
	"github.com/pytyle/pytyle/internal/world"
)

// ReloadFunc reloads the configuration from disk and returns the full
// LoadResult, for ActionExplain's source tracking and ActionReload's
// response.
type ReloadFunc func() (*config.LoadResult, error)

// Server accepts Request lines on a Unix socket and forwards them to
// a Dispatcher, the same way the teacher's daemon exposed its tiling
// engine over IPC.
type Server struct {
	socketPath string
	listener   net.Listener

	world      *world.World
	registry   *dispatch.Registry
	dispatcher *dispatch.Dispatcher
	reload     ReloadFunc

	mu     sync.Mutex
	latest *config.LoadResult

	shutdownMu   sync.Mutex
	shuttingDown bool
}

// NewServer constructs a Server. latest is the LoadResult the daemon
// started with, used by ActionExplain until the first reload.
func NewServer(w *world.World, registry *dispatch.Registry, d *dispatch.Dispatcher, reload ReloadFunc, latest *config.LoadResult) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("ipc: resolve socket path: %w", err)
	}
	return &Server{
		socketPath: socketPath,
		world:      w,
		registry:   registry,
		dispatcher: d,
		reload:     reload,
		latest:     latest,
	}, nil
}

// Start binds the socket and begins accepting connections in the
// background. Any stale socket file from an unclean shutdown is
// removed first.
func (s *Server) Start() error {
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("ipc: listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		return fmt.Errorf("ipc: chmod %s: %w", s.socketPath, err)
	}
	s.listener = listener

	log.Printf("ipc: listening on %s", s.socketPath)
	go s.acceptLoop()
	return nil
}

// Close stops accepting connections and removes the socket file.
func (s *Server) Close() error {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		_ = s.listener.Close()
	}
	_ = os.Remove(s.socketPath)
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			down := s.shuttingDown
			s.shutdownMu.Unlock()
			if down {
				return
			}
			log.Printf("ipc: accept: %v", err)
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("ipc: read: %v", err)
		return
	}

	var req Request
	resp := func() Response {
		if err := json.Unmarshal(line, &req); err != nil {
			return errResponse(fmt.Errorf("ipc: invalid request: %w", err))
		}
		return s.handle(req)
	}()

	out, err := json.Marshal(resp)
	if err != nil {
		log.Printf("ipc: marshal response: %v", err)
		return
	}
	out = append(out, '\n')
	if _, err := conn.Write(out); err != nil {
		log.Printf("ipc: write response: %v", err)
	}
}

func (s *Server) handle(req Request) Response {
	switch req.Action {
	case ActionReload:
		return s.handleReload()
	case ActionStatus:
		return s.handleStatus()
	case ActionExplain:
		return s.handleExplain(req.Path)
	default:
		return s.handleDispatch(req)
	}
}

func (s *Server) handleReload() Response {
	res, err := s.reload()
	if err != nil {
		return errResponse(fmt.Errorf("ipc: reload config: %w", err))
	}
	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()
	return okResponse(nil)
}

func (s *Server) handleStatus() Response {
	var screens []ScreenStatus
	for _, t := range s.registry.All() {
		store := t.Store()
		screens = append(screens, ScreenStatus{
			Screen:        int(t.ScreenID()),
			Layout:        string(t.Kind()),
			TilingEnabled: isTiling(s.world, t.ScreenID()),
			MasterCount:   len(store.Masters()),
			SlaveCount:    len(store.Slaves()),
		})
	}
	return okResponse(StatusData{Screens: screens})
}

func isTiling(w *world.World, id world.ScreenID) bool {
	scr, ok := w.Screen(id)
	return ok && scr.TilingEnabled
}

func (s *Server) handleExplain(path string) Response {
	if path == "" {
		return errResponse(fmt.Errorf("ipc: explain requires a path"))
	}
	s.mu.Lock()
	res := s.latest
	s.mu.Unlock()
	if res == nil {
		return errResponse(fmt.Errorf("ipc: no configuration loaded yet"))
	}
	val, src, err := config.Explain(res, path)
	if err != nil {
		return errResponse(err)
	}
	source := "builtin"
	if src.Kind == config.SourceFile {
		source = fmt.Sprintf("%s:%d", src.File, src.Line)
	}
	return okResponse(ExplainData{Path: path, Value: val, Source: source})
}

func (s *Server) handleDispatch(req Request) Response {
	screen, ok := s.resolveScreen(req.Screen)
	if !ok {
		return errResponse(fmt.Errorf("ipc: no such screen"))
	}
	if err := s.dispatcher.Dispatch(screen, req.Action, true); err != nil {
		return errResponse(err)
	}
	return okResponse(nil)
}

func (s *Server) resolveScreen(requested *int) (world.ScreenID, bool) {
	if requested != nil {
		id := world.ScreenID(*requested)
		if _, ok := s.world.Screen(id); ok {
			return id, true
		}
		return 0, false
	}
	_, _, screen, _, ok := s.world.ActivePath()
	return screen, ok
}
