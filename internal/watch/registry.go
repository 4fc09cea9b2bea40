// Package watch owns the shared map of active transcript watches: one
// file watcher per (project, session) key regardless of how many clients
// are subscribed to it. The registry is an explicit service object,
// constructed once at process start and injected where needed.
package watch

import (
	"log/slog"
	"os"
	"sync"

	"sessiontail/internal/paths"
	"sessiontail/internal/tail"
	"sessiontail/internal/types"
)

// Key names exactly one transcript file: the encoded project directory and
// the session id within it.
type Key struct {
	Project string
	Session string
}

func (k Key) String() string {
	return k.Project + "/" + k.Session
}

// entry is the per-key watch state. The registry map owns it; the entry
// mutex serializes replay, change reads, and client-set changes for the
// key, so position and clients are never raced.
type entry struct {
	mu       sync.Mutex
	path     string
	position int64
	clients  map[Client]struct{}
	watcher  watcher
}

// Registry tracks every active watch. The map is the only shared mutable
// state in the engine; only Subscribe, Unsubscribe, fileChanged, and Close
// touch it.
type Registry struct {
	root       string
	log        *slog.Logger
	newWatcher watcherFactory

	mu      sync.Mutex
	entries map[Key]*entry
}

// NewRegistry creates a registry over the given projects root.
func NewRegistry(root string, log *slog.Logger) *Registry {
	return &Registry{
		root:       root,
		log:        log,
		newWatcher: newFSWatcherFactory(log),
		entries:    make(map[Key]*entry),
	}
}

// transcriptPath builds the on-disk path for a key.
func (r *Registry) transcriptPath(key Key) string {
	return paths.Transcript(r.root, key.Project, key.Session)
}

// =============================================================================
// SUBSCRIBE / UNSUBSCRIBE
// =============================================================================

// Subscribe attaches a client to a key, creating the watch on first use,
// and sends the client a full replay of the transcript. Resubscribing an
// already-attached client keeps a single membership and simply replays
// again. The replay is constructed under the entry lock, so an update from
// a change event arriving after subscription can never be delivered before
// it or duplicate it.
func (r *Registry) Subscribe(key Key, client Client) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{
			path:    r.transcriptPath(key),
			clients: make(map[Client]struct{}),
		}
		// An absent transcript is an empty one; the watcher is still armed
		// so the file is picked up on creation.
		if info, err := os.Stat(e.path); err == nil {
			e.position = info.Size()
		}
		w, err := r.newWatcher(e.path, func() { r.fileChanged(key) })
		if err != nil {
			r.log.Warn("watch unavailable, session will not receive live updates",
				"key", key.String(), "error", err)
		} else {
			e.watcher = w
		}
		r.entries[key] = e
	}
	// Membership is taken while the registry lock is still held: an entry
	// is only ever evicted when its client set empties, so from here on a
	// concurrent unsubscribe of another client cannot remove this entry.
	e.mu.Lock()
	e.clients[client] = struct{}{}
	r.mu.Unlock()

	defer e.mu.Unlock()
	r.sendReplay(key, e, client)
}

// Unsubscribe detaches a client from a key. When the last client leaves,
// the watch resource is closed exactly once and the entry is evicted.
func (r *Registry) Unsubscribe(key Key, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return
	}

	e.mu.Lock()
	delete(e.clients, client)
	empty := len(e.clients) == 0
	e.mu.Unlock()

	if !empty {
		return
	}
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			r.log.Warn("close watcher", "key", key.String(), "error", err)
		}
	}
	delete(r.entries, key)
}

// Has reports whether a live watch exists for the key. Read-only; used by
// discovery to annotate liveness.
func (r *Registry) Has(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

// Close shuts down every watch and clears the map. Called once at process
// shutdown; safe even for entries whose client set already emptied.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.entries {
		if e.watcher != nil {
			if err := e.watcher.Close(); err != nil {
				r.log.Warn("close watcher", "key", key.String(), "error", err)
			}
		}
		delete(r.entries, key)
	}
}

// =============================================================================
// CHANGE HANDLING
// =============================================================================

// fileChanged runs on the watcher goroutine for a key after the debounce
// window elapses. It reads the appended byte range, advances the offset,
// and broadcasts each parsed line in file order. The offset advances once
// the read succeeds, before broadcast: sends are non-blocking
// fire-and-forget, so there is nothing to retry downstream. A failed read
// leaves the offset alone and the next change event retries the same range
// (at-least-once; consumers dedupe via message id).
func (r *Registry) fileChanged(key Key) {
	r.mu.Lock()
	e, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		// Raced with the final unsubscribe.
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	lines, pos, err := tail.ReadNew(e.path, e.position)
	if err != nil {
		r.log.Warn("incremental read failed, retrying on next change",
			"key", key.String(), "error", err)
		return
	}
	e.position = pos

	for _, line := range lines {
		msg, err := types.Normalize(line)
		if err != nil {
			r.log.Warn("skipping malformed transcript line", "key", key.String(), "error", err)
			continue
		}
		r.broadcast(e.clients, updatePayload{Type: payloadSessionUpdate, Message: msg})
	}
}

// sendReplay re-reads the whole transcript from offset zero and hands one
// session_state payload to the subscribing client. Malformed lines are
// skipped; valid lines around them are kept in file order. Callers hold the
// entry lock.
func (r *Registry) sendReplay(key Key, e *entry, client Client) {
	messages := make([]*types.TranscriptMessage, 0)

	lines, _, err := tail.ReadNew(e.path, 0)
	if err != nil {
		r.log.Warn("replay read failed", "key", key.String(), "error", err)
	}
	for _, line := range lines {
		msg, err := types.Normalize(line)
		if err != nil {
			r.log.Warn("skipping malformed transcript line", "key", key.String(), "error", err)
			continue
		}
		messages = append(messages, msg)
	}

	r.broadcast(map[Client]struct{}{client: {}}, statePayload{
		Type:     payloadSessionState,
		Messages: messages,
	})
}
