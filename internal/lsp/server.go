// Package lsp implements the clone-navigation language server (C8): it
// keeps one engine per language alive across edits, republishes
// "duplicated code" diagnostics as files change, and resolves
// goto-definition requests to a clone's sibling locations. Grounded on the
// echolysis-lsp crate's Server, translated from tower-lsp's async trait
// dispatch to sourcegraph/jsonrpc2's single Handle method.
package lsp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/ingo-eichhorst/echolysis/internal/router"
	"github.com/ingo-eichhorst/echolysis/internal/watcher"
	"github.com/ingo-eichhorst/echolysis/pkg/version"
)

// changeDebounceInterval coalesces a burst of keystrokes into a single
// re-index, matching the ~500ms didChange debounce the filesystem watcher
// applies to its own events (watcher.debounceInterval) so neither path
// republishes diagnostics while the user is still typing.
const changeDebounceInterval = 500 * time.Millisecond

// Server is the jsonrpc2.Handler backing one LSP connection. One Server
// serves exactly one client for the lifetime of the connection.
type Server struct {
	conn    *jsonrpc2.Conn
	router  *router.Router
	watcher *watcher.Watcher

	fileMapMu sync.RWMutex
	fileMap   map[string]string // document URI -> language id

	diagMu  sync.Mutex
	diagSet map[string]struct{} // URIs with an active (non-empty) diagnostics publish

	changeMu     sync.Mutex
	changeTimers map[string]*time.Timer // document URI -> pending debounced re-index

	stopped atomic.Bool
}

// NewServer creates a Server with its own router and filesystem watcher.
// Conn is attached once the jsonrpc2 connection is established (see
// Serve), since the watcher's callbacks need it to push diagnostics.
func NewServer() *Server {
	s := &Server{
		router:       router.New(),
		fileMap:      make(map[string]string),
		diagSet:      make(map[string]struct{}),
		changeTimers: make(map[string]*time.Timer),
	}

	w, err := watcher.New(s.onInsertPaths, s.onRemovePaths)
	if err != nil {
		// A filesystem watcher is a convenience (manual didChange sync
		// still works); log and continue without one rather than fail
		// the whole server.
		fmt.Fprintf(os.Stderr, "echolysis-lsp: filesystem watcher disabled: %v\n", err)
	}
	s.watcher = w

	return s
}

// Serve runs the server's jsonrpc2 connection over stream until the
// connection closes, then returns.
func (s *Server) Serve(ctx context.Context, stream jsonrpc2.ObjectStream) {
	s.conn = jsonrpc2.NewConn(ctx, stream, s)
	<-s.conn.DisconnectNotify()
}

// IsStopped reports whether the client has already sent shutdown.
func (s *Server) IsStopped() bool { return s.stopped.Load() }

func (s *Server) logInfo(ctx context.Context, format string, args ...any) {
	s.log(ctx, MessageInfo, format, args...)
}

func (s *Server) logError(ctx context.Context, format string, args ...any) {
	s.log(ctx, MessageError, format, args...)
}

func (s *Server) log(ctx context.Context, level MessageType, format string, args ...any) {
	if s.conn == nil {
		return
	}
	msg := fmt.Sprintf("[echolysis] "+format, args...)
	_ = s.conn.Notify(ctx, "window/logMessage", LogMessageParams{Type: level, Message: msg})
}

// Version is surfaced in InitializeResult.ServerInfo so clients can report
// it back to users in bug reports.
func serverVersion() string { return version.Version }

func uriToPath(uri string) string {
	const prefix = "file://"
	if len(uri) >= len(prefix) && uri[:len(prefix)] == prefix {
		return filepath.FromSlash(uri[len(prefix):])
	}
	return uri
}

func pathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}
