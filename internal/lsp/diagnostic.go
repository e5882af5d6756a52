package lsp

import (
	"context"
	"fmt"

	"github.com/ingo-eichhorst/echolysis/internal/engine"
	"github.com/ingo-eichhorst/echolysis/internal/index"
)

// maxGroupsPerEngine bounds how many clone groups each language's engine
// contributes to a single diagnostics pass, mirroring the server's
// detect_duplicates(Some(100)) call.
const maxGroupsPerEngine = 100

// collectDuplicates gathers every engine's current clone groups.
func (s *Server) collectDuplicates() []engine.CloneGroup {
	var all []engine.CloneGroup
	for _, e := range s.router.Engines() {
		all = append(all, e.DetectDuplicates(maxGroupsPerEngine)...)
	}
	return all
}

func nodeLocation(n *index.Node) Location {
	return Location{
		URI: pathToURI(n.Path()),
		Range: Range{
			Start: toLSPPosition(n.StartPoint()),
			End:   toLSPPosition(n.EndPoint()),
		},
	}
}

func toLSPPosition(p index.Point) Position {
	return Position{Line: uint32(p.Row), Character: uint32(p.Column)}
}

func createDuplicateDiagnostic(location Location, others []Location) Diagnostic {
	related := make([]DiagnosticRelatedInformation, 0, len(others))
	for _, other := range others {
		lines := other.Range.End.Line - other.Range.Start.Line + 1
		related = append(related, DiagnosticRelatedInformation{
			Location: other,
			Message:  fmt.Sprintf("Similar code fragment (line %d) %d lines long", other.Range.Start.Line+1, lines),
		})
	}
	return Diagnostic{
		Range:              location.Range,
		Severity:           SeverityInformation,
		Source:             "echolysis",
		Message:            "Duplicated code fragments found",
		RelatedInformation: related,
	}
}

// pushDiagnostic recomputes clone groups across every engine and republishes
// textDocument/publishDiagnostics for every affected document, clearing
// diagnostics for documents that no longer have any.
func (s *Server) pushDiagnostic(ctx context.Context) {
	groups := s.collectDuplicates()

	byURI := make(map[string][]Diagnostic)
	for _, g := range groups {
		locations := make([]Location, len(g.Members))
		for i, m := range g.Members {
			locations[i] = nodeLocation(m)
		}
		for i, m := range g.Members {
			diag := createDuplicateDiagnostic(locations[i], withoutIndex(locations, i))
			uri := pathToURI(m.Path())
			byURI[uri] = append(byURI[uri], diag)
		}
	}

	s.publishDiagnostics(ctx, byURI)
}

func withoutIndex(locs []Location, idx int) []Location {
	out := make([]Location, 0, len(locs)-1)
	for i, l := range locs {
		if i != idx {
			out = append(out, l)
		}
	}
	return out
}

func (s *Server) publishDiagnostics(ctx context.Context, byURI map[string][]Diagnostic) {
	if s.conn == nil {
		return
	}

	s.diagMu.Lock()
	var stale []string
	for uri := range s.diagSet {
		if _, ok := byURI[uri]; !ok {
			stale = append(stale, uri)
		}
	}
	for _, uri := range stale {
		delete(s.diagSet, uri)
	}
	for uri := range byURI {
		s.diagSet[uri] = struct{}{}
	}
	s.diagMu.Unlock()

	for _, uri := range stale {
		_ = s.conn.Notify(ctx, "textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri})
	}

	for uri, diags := range byURI {
		_ = s.conn.Notify(ctx, "textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
	}
}

// clearDiagnostic clears previously published diagnostics for uris. If
// removed is true the URIs are also dropped from diagSet entirely (the
// document is gone); otherwise they're expected to be republished shortly
// by the insert that triggered the clear.
func (s *Server) clearDiagnostic(ctx context.Context, uris []string, removed bool) {
	if s.conn == nil {
		return
	}
	s.diagMu.Lock()
	for _, uri := range uris {
		if removed {
			delete(s.diagSet, uri)
		}
	}
	s.diagMu.Unlock()

	for _, uri := range uris {
		_ = s.conn.Notify(ctx, "textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri})
	}
}
