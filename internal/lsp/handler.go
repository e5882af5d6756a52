package lsp

import (
	"context"
	"encoding/json"

	"github.com/sourcegraph/jsonrpc2"
)

// Handle dispatches one JSON-RPC request or notification. It implements
// jsonrpc2.Handler; sourcegraph/jsonrpc2 calls it from the connection's
// read loop, one message at a time. Debounce timers and the filesystem
// watcher reach the same state from other goroutines, so handlers that touch
// shared state go through the engine's own locking rather than a
// server-wide mutex.
func (s *Server) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	switch req.Method {
	case "initialize":
		s.handleInitialize(ctx, conn, req)
	case "initialized":
		// no-op: nothing to do once the client acknowledges initialize.
	case "shutdown":
		s.stopped.Store(true)
		s.clear(ctx)
		_ = conn.Reply(ctx, req.ID, nil)
	case "exit":
		_ = conn.Close()
	case "textDocument/didOpen":
		s.handleDidOpen(ctx, req)
	case "textDocument/didChange":
		s.handleDidChange(ctx, req)
	case "textDocument/didClose":
		s.handleDidClose(ctx, req)
	case "workspace/didChangeWorkspaceFolders":
		s.handleDidChangeWorkspaceFolders(ctx, req)
	case "textDocument/definition":
		s.handleDefinition(ctx, conn, req)
	default:
		if req.ID != (jsonrpc2.ID{}) && !req.Notif {
			_ = conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
				Code:    jsonrpc2.CodeMethodNotFound,
				Message: "method not found: " + req.Method,
			})
		}
	}
}

func unmarshalParams(req *jsonrpc2.Request, v any) bool {
	if req.Params == nil {
		return false
	}
	return json.Unmarshal(*req.Params, v) == nil
}

func (s *Server) handleInitialize(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params InitializeParams
	unmarshalParams(req, &params)

	s.watch(ctx, params.WorkspaceFolders)

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:   SyncFull,
			DefinitionProvider: true,
			Workspace: WorkspaceServerCapabilities{
				WorkspaceFolders: WorkspaceFoldersServerCapabilities{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
		ServerInfo: ServerInfo{Name: "echolysis-lsp", Version: serverVersion()},
	}
	_ = conn.Reply(ctx, req.ID, result)
}

func (s *Server) handleDidOpen(ctx context.Context, req *jsonrpc2.Request) {
	if s.IsStopped() {
		return
	}
	var params DidOpenTextDocumentParams
	if !unmarshalParams(req, &params) {
		return
	}
	path := uriToPath(params.TextDocument.URI)
	s.onInsertSource(ctx, path, params.TextDocument.Text)
}

func (s *Server) handleDidChange(ctx context.Context, req *jsonrpc2.Request) {
	if s.IsStopped() {
		return
	}
	var params DidChangeTextDocumentParams
	if !unmarshalParams(req, &params) || len(params.ContentChanges) == 0 {
		return
	}
	path := uriToPath(params.TextDocument.URI)
	s.scheduleInsertSource(params.TextDocument.URI, path, params.ContentChanges[0].Text)
}

func (s *Server) handleDidClose(ctx context.Context, req *jsonrpc2.Request) {
	if s.IsStopped() {
		return
	}
	var params DidCloseTextDocumentParams
	if !unmarshalParams(req, &params) {
		return
	}
	// Closing a buffer doesn't remove it from the index: the file still
	// exists on disk and still participates in duplicate detection, it
	// just stops being the source of truth for its own content until the
	// filesystem watcher (or the next didOpen) observes it again. Its own
	// diagnostics are cleared on close regardless, per the editor's
	// expectation that closing a document clears its squiggles.
	s.cancelPendingInsert(params.TextDocument.URI)
	s.clearDiagnostic(ctx, []string{params.TextDocument.URI}, true)
}

func (s *Server) handleDidChangeWorkspaceFolders(ctx context.Context, req *jsonrpc2.Request) {
	if s.IsStopped() {
		return
	}
	var params DidChangeWorkspaceFoldersParams
	if !unmarshalParams(req, &params) {
		return
	}
	s.unwatch(ctx, params.Event.Removed)
	s.watch(ctx, params.Event.Added)
}
