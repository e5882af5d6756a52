package lsp

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
)

// recordingClient captures every textDocument/publishDiagnostics
// notification sent to it, keyed by document URI, so tests can assert on what the server published without inspecting its
// unexported state directly.
type recordingClient struct {
	mu    sync.Mutex
	diags map[string][]Diagnostic // URI -> last published diagnostics (nil after a clear)
	seen  chan string             // URIs, in publish order
}

func newRecordingClient() *recordingClient {
	return &recordingClient{
		diags: make(map[string][]Diagnostic),
		seen:  make(chan string, 64),
	}
}

func (c *recordingClient) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	if req.Method != "textDocument/publishDiagnostics" {
		return
	}
	var params PublishDiagnosticsParams
	if req.Params != nil {
		_ = json.Unmarshal(*req.Params, &params)
	}

	c.mu.Lock()
	c.diags[params.URI] = params.Diagnostics
	c.mu.Unlock()
	c.seen <- params.URI
}

func (c *recordingClient) waitFor(t *testing.T, uri string) []Diagnostic {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-c.seen:
			if got == uri {
				c.mu.Lock()
				defer c.mu.Unlock()
				return c.diags[uri]
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a publishDiagnostics notification for %s", uri)
			return nil
		}
	}
}

// newTestServerConn wires a Server to one end of an in-process pipe and a
// recordingClient to the other, returning a client *jsonrpc2.Conn for
// sending requests/notifications and the recordingClient for observing
// what the server publishes.
func newTestServerConn(t *testing.T) (*jsonrpc2.Conn, *recordingClient) {
	t.Helper()
	clientSide, serverSide := net.Pipe()
	t.Cleanup(func() { clientSide.Close(); serverSide.Close() })

	server := NewServer()
	ctx := context.Background()
	go server.Serve(ctx, jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}))

	client := newRecordingClient()
	clientConn := jsonrpc2.NewConn(ctx, jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}), client)
	t.Cleanup(func() { clientConn.Close() })

	return clientConn, client
}

func TestInitializeAdvertisesDefinitionProvider(t *testing.T) {
	clientConn, _ := newTestServerConn(t)

	var result InitializeResult
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clientConn.Call(ctx, "initialize", InitializeParams{}, &result); err != nil {
		t.Fatalf("initialize call failed: %v", err)
	}

	if !result.Capabilities.DefinitionProvider {
		t.Error("expected initialize to advertise definitionProvider=true")
	}
}

func TestDidCloseClearsItsOwnDiagnostics(t *testing.T) {
	clientConn, client := newTestServerConn(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := clientConn.Call(ctx, "initialize", InitializeParams{}, &InitializeResult{}); err != nil {
		t.Fatalf("initialize call failed: %v", err)
	}

	uriA := "file:///a.py"
	uriB := "file:///b.py"
	notify := func(uri, text string) {
		_ = clientConn.Notify(ctx, "textDocument/didOpen", DidOpenTextDocumentParams{
			TextDocument: TextDocumentItem{URI: uri, LanguageID: "python", Text: text},
		})
	}
	notify(uriA, dupHandlerSource)
	notify(uriB, dupHandlerSource)

	if got := client.waitFor(t, uriA); len(got) == 0 {
		t.Fatal("expected the first duplicate sibling to receive diagnostics")
	}
	if got := client.waitFor(t, uriB); len(got) == 0 {
		t.Fatal("expected the second duplicate sibling to receive diagnostics")
	}

	_ = clientConn.Notify(ctx, "textDocument/didClose", DidCloseTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uriA},
	})

	if got := client.waitFor(t, uriA); len(got) != 0 {
		t.Errorf("expected closed document %s to have its diagnostics cleared, got %d", uriA, len(got))
	}
}

// dupHandlerSource is a Python function whose cognitive complexity clears
// the default registration threshold, used to force a clone match between
// two files that both contain it.
const dupHandlerSource = `
def handler():
    for i in range(10):
        process(i)
        log(i)
        validate(i)
        notify(i)
        store(i)
`

// otherSource also clears the registration threshold but has no structural
// relationship to dupHandlerSource, so a document holding it never clones
// against documents holding the other.
const otherSource = `
def unrelated():
    value = compute_once()
    while value:
        value = refine(value)
        record(value)
        audit(value)
    return value
`

func TestPublishDiagnosticsClearsStaleSiblingWithoutAffectingOthers(t *testing.T) {
	clientConn, client := newTestServerConn(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := clientConn.Call(ctx, "initialize", InitializeParams{}, &InitializeResult{}); err != nil {
		t.Fatalf("initialize call failed: %v", err)
	}

	uriA := "file:///a.py" // will be edited away from its duplicate partner
	uriB := "file:///b.py" // A's duplicate partner, left untouched
	uriC := "file:///c.py" // an unrelated, independent duplicate pair
	uriD := "file:///d.py"

	open := func(uri, text string) {
		_ = clientConn.Notify(ctx, "textDocument/didOpen", DidOpenTextDocumentParams{
			TextDocument: TextDocumentItem{URI: uri, LanguageID: "python", Text: text},
		})
	}
	open(uriA, dupHandlerSource)
	open(uriB, dupHandlerSource)
	open(uriC, otherSource)
	open(uriD, otherSource)

	for _, uri := range []string{uriA, uriB, uriC, uriD} {
		if got := client.waitFor(t, uri); len(got) == 0 {
			t.Fatalf("expected %s to start with non-empty diagnostics", uri)
		}
	}

	// Edit A away from its duplicate partner via didChange. B no longer has
	// a clone partner and should be republished empty, even though C/D's
	// unrelated duplicate pair is still live.
	_ = clientConn.Notify(ctx, "textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{URI: uriA},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "def standalone():\n    return 1\n"}},
	})

	if got := client.waitFor(t, uriA); len(got) != 0 {
		t.Errorf("expected %s to have no diagnostics after its edit, got %d", uriA, len(got))
	}
	if got := client.waitFor(t, uriB); len(got) != 0 {
		t.Errorf("expected stale sibling %s to be cleared once A no longer duplicates it, got %d", uriB, len(got))
	}
}
