package lsp

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/ingo-eichhorst/echolysis/internal/lang"
)

// TextDocumentPositionParams is the shared payload shape of
// textDocument/definition (and friends) requests.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// handleDefinition resolves a goto-definition request to the other members
// of the clone group enclosing the cursor, so "go to definition" on one
// copy of duplicated code jumps between its siblings instead of a
// conventional symbol definition.
func (s *Server) handleDefinition(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params TextDocumentPositionParams
	if !unmarshalParams(req, &params) {
		_ = conn.Reply(ctx, req.ID, []Location{})
		return
	}

	path := uriToPath(params.TextDocument.URI)
	languageID := lang.IDForPath(path)
	e, ok := s.router.EngineForLanguageID(languageID)
	if !ok {
		_ = conn.Reply(ctx, req.ID, []Location{})
		return
	}

	offset, ok := e.ByteOffset(path, int(params.Position.Line), int(params.Position.Character))
	if !ok {
		_ = conn.Reply(ctx, req.ID, []Location{})
		return
	}

	self, members, ok := e.NodeAt(path, offset)
	if !ok {
		_ = conn.Reply(ctx, req.ID, []Location{})
		return
	}

	locations := make([]Location, 0, len(members))
	for _, m := range members {
		if m == self {
			continue
		}
		locations = append(locations, nodeLocation(m))
	}

	_ = conn.Reply(ctx, req.ID, locations)
}
