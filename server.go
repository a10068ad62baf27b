package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed ui.html
var content embed.FS

// barServer bridges the presentation layer (the WebView2 page) and the
// control thread. Commands arriving over HTTP are marshalled onto the
// bar thread through invoke; state flows the other way as wholesale
// snapshots over SSE.
type barServer struct {
	ctrl  *dockBarController
	icons iconStore

	invoke    func(func())       // run fn on the control thread
	activate  func(WindowHandle) // restore + foreground a window
	startMenu func()             // open the system start menu
	quit      func()             // tear the application down

	clientsMu sync.RWMutex
	clients   map[chan string]bool

	lastMu  sync.Mutex
	last    barSnapshot
	hasLast bool

	placeholder []byte
}

func newBarServer(ctrl *dockBarController, icons iconStore) *barServer {
	return &barServer{
		ctrl:      ctrl,
		icons:     icons,
		invoke:    func(fn func()) { fn() },
		activate:  func(WindowHandle) {},
		startMenu: func() {},
		quit:      func() {},
		clients:   make(map[chan string]bool),
	}
}

// loadPlaceholder reads the fallback glyph image from the application
// directory. Its absence is a logged, non-fatal condition: the UI draws
// a generic glyph instead.
func (s *barServer) loadPlaceholder() {
	exe, err := os.Executable()
	if err != nil {
		return
	}
	path := filepath.Join(filepath.Dir(exe), "assets", "placeholder.png")
	data, err := os.ReadFile(path)
	if err != nil {
		logf("[SERVER] placeholder icon unavailable at %s: %v", path, err)
		return
	}
	s.placeholder = data
}

func (s *barServer) start(port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHTML)
	mux.HandleFunc("/events", s.handleSSE)
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/activate", s.handleActivate)
	mux.HandleFunc("/api/command", s.handleCommand)
	mux.HandleFunc("/icon/", s.handleIcon)

	addr := "127.0.0.1:" + port
	logf("[HTTP] listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logf("[HTTP] server error: %v", err)
	}
}

func (s *barServer) serveHTML(w http.ResponseWriter, r *http.Request) {
	data, _ := content.ReadFile("ui.html")
	w.Header().Set("Content-Type", "text/html")
	w.Write(data)
}

// broadcast replaces the published snapshot and pushes it to every SSE
// client. Consumers treat each payload as a full replacement.
func (s *barServer) broadcast(snap barSnapshot) {
	s.lastMu.Lock()
	s.last = snap
	s.hasLast = true
	s.lastMu.Unlock()

	jsonData, _ := json.Marshal(snap)
	payload := string(jsonData)

	s.clientsMu.RLock()
	for client := range s.clients {
		select {
		case client <- payload:
		default:
		}
	}
	s.clientsMu.RUnlock()
}

func (s *barServer) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	fmt.Fprint(w, ":ok\n\n")

	s.lastMu.Lock()
	if s.hasLast {
		if j, err := json.Marshal(s.last); err == nil {
			fmt.Fprintf(w, "data: %s\n\n", j)
		}
	}
	s.lastMu.Unlock()
	flusher.Flush()

	messageChan := make(chan string, 8)
	s.clientsMu.Lock()
	s.clients[messageChan] = true
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, messageChan)
		s.clientsMu.Unlock()
	}()

	ctxDone := r.Context().Done()
	for {
		select {
		case <-ctxDone:
			return
		case msg := <-messageChan:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *barServer) handleState(w http.ResponseWriter, r *http.Request) {
	s.lastMu.Lock()
	snap := s.last
	s.lastMu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *barServer) handleActivate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("h")
	if key == "" {
		http.Error(w, "missing handle", http.StatusBadRequest)
		return
	}
	s.invoke(func() {
		if entry, ok := s.ctrl.EntryByKey(key); ok {
			s.activate(entry.Handle)
		}
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *barServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	cmd := r.URL.Query().Get("cmd")
	switch cmd {
	case "toggle-edge":
		s.invoke(s.ctrl.ToggleEdge)
	case "toggle-size":
		s.invoke(s.ctrl.ToggleSize)
	case "cycle-theme":
		s.invoke(s.ctrl.CycleColorTheme)
	case "refresh":
		s.invoke(s.ctrl.Refresh)
	case "start":
		s.invoke(s.startMenu)
	case "quit":
		s.quit()
	default:
		http.Error(w, "unknown command", http.StatusBadRequest)
		return
	}
	logf("[HTTP] command: %s", cmd)
	w.WriteHeader(http.StatusNoContent)
}

func (s *barServer) handleIcon(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/icon/")
	if s.icons != nil {
		if png, ok := s.icons.PNG(key); ok {
			w.Header().Set("Content-Type", "image/png")
			w.Write(png)
			return
		}
	}
	if len(s.placeholder) > 0 {
		w.Header().Set("Content-Type", "image/png")
		w.Write(s.placeholder)
		return
	}
	http.NotFound(w, r)
}
