package lsp

import (
	"context"
	"os"
	"time"

	"github.com/ingo-eichhorst/echolysis/internal/lang"
)

// watch registers each workspace folder with the filesystem watcher and
// indexes every file already under it.
func (s *Server) watch(ctx context.Context, folders []WorkspaceFolder) {
	if len(folders) == 0 || s.watcher == nil {
		return
	}
	for _, f := range folders {
		path := uriToPath(f.URI)
		s.logInfo(ctx, "watching folder: %s", path)
		if err := s.watcher.WatchDir(path); err != nil {
			s.logError(ctx, "watch %s: %v", path, err)
		}
	}
}

// unwatch stops watching each folder and drops every file under it from
// the index.
func (s *Server) unwatch(ctx context.Context, folders []WorkspaceFolder) {
	if len(folders) == 0 || s.watcher == nil {
		return
	}
	for _, f := range folders {
		path := uriToPath(f.URI)
		s.logInfo(ctx, "unwatching folder: %s", path)
		if err := s.watcher.UnwatchDir(path); err != nil {
			s.logError(ctx, "unwatch %s: %v", path, err)
		}
	}
}

// clear stops watching everything and empties every engine.
func (s *Server) clear(ctx context.Context) {
	s.logInfo(ctx, "unwatching all folders")
	if s.watcher != nil {
		s.watcher.Clear()
	}
	s.onRemoveAll(ctx)
}

// onInsertPaths is the filesystem watcher's insert callback: it reads each
// path fresh off disk, since the watcher has no buffer content to offer.
func (s *Server) onInsertPaths(paths []string) {
	ctx := context.Background()
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		s.onInsertSource(ctx, path, string(content))
	}
}

// scheduleInsertSource debounces didChange's re-indexing: a burst of
// keystrokes resets the same URI's timer instead of re-indexing on every
// content-change notification, so diagnostics aren't republished while the
// user is still typing.
func (s *Server) scheduleInsertSource(uri, path, source string) {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	if t, ok := s.changeTimers[uri]; ok {
		t.Stop()
	}
	s.changeTimers[uri] = time.AfterFunc(changeDebounceInterval, func() {
		s.onInsertSource(context.Background(), path, source)
	})
}

// cancelPendingInsert drops any debounced re-index scheduled for uri by
// scheduleInsertSource, so a stale buffer snapshot never re-indexes after
// the document that produced it is gone.
func (s *Server) cancelPendingInsert(uri string) {
	s.changeMu.Lock()
	defer s.changeMu.Unlock()

	if t, ok := s.changeTimers[uri]; ok {
		t.Stop()
		delete(s.changeTimers, uri)
	}
}

// onInsertSource indexes one file's content -- from an editor buffer via
// didOpen/didChange, or from disk via the filesystem watcher -- updating
// the file map and republishing diagnostics afterward.
func (s *Server) onInsertSource(ctx context.Context, path, source string) {
	languageID := lang.IDForPath(path)
	if !lang.IsSupported(languageID) {
		return
	}

	uri := pathToURI(path)
	s.clearDiagnostic(ctx, []string{uri}, false)

	s.fileMapMu.Lock()
	s.fileMap[uri] = languageID
	s.fileMapMu.Unlock()
	if s.watcher != nil {
		s.watcher.Track(path)
	}

	e, ok := s.router.EngineForLanguageID(languageID)
	if !ok {
		return
	}
	s.logInfo(ctx, "insert %s file: %s", languageID, path)
	e.Insert(path, []byte(source))

	s.pushDiagnostic(ctx)
}

// onRemovePaths is the filesystem watcher's remove callback.
func (s *Server) onRemovePaths(paths []string) {
	ctx := context.Background()
	uris := make([]string, len(paths))
	for i, p := range paths {
		uris[i] = pathToURI(p)
	}
	s.onRemoveURIs(ctx, uris)
}

// onRemoveURIs drops each document's file from its engine and clears its
// diagnostics, grouping by language the way the original engine's
// remove_many batches work.
func (s *Server) onRemoveURIs(ctx context.Context, uris []string) {
	for _, uri := range uris {
		s.cancelPendingInsert(uri)
	}
	s.clearDiagnostic(ctx, uris, true)

	byLanguage := make(map[string][]string)
	s.fileMapMu.Lock()
	for _, uri := range uris {
		if languageID, ok := s.fileMap[uri]; ok {
			byLanguage[languageID] = append(byLanguage[languageID], uriToPath(uri))
			delete(s.fileMap, uri)
		}
	}
	s.fileMapMu.Unlock()

	if len(byLanguage) == 0 {
		return
	}

	for languageID, paths := range byLanguage {
		if s.watcher != nil {
			for _, p := range paths {
				s.watcher.Untrack(p)
			}
		}
		if e, ok := s.router.EngineForLanguageID(languageID); ok {
			e.RemoveMany(paths)
		}
	}
	s.pushDiagnostic(ctx)
}

// onRemoveAll clears every file and fingerprint from every engine.
func (s *Server) onRemoveAll(ctx context.Context) {
	s.fileMapMu.Lock()
	s.fileMap = make(map[string]string)
	s.fileMapMu.Unlock()

	for _, e := range s.router.Engines() {
		e.RemoveAll()
	}
	s.pushDiagnostic(ctx)
}
