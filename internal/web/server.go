package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	streamWriteWait  = 5 * time.Second
	streamPingPeriod = 20 * time.Second
	streamPongWait   = 2 * streamPingPeriod
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The page is served from the same host; other tools connect directly.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const indexHTML = `<!doctype html>
<html><head><meta charset="utf-8"><title>gnss-monitor</title></head>
<body>
<h1>gnss-monitor</h1>
<pre id="fix">waiting for data</pre>
<script>
const out = document.getElementById("fix");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/api/stream");
ws.onmessage = (ev) => { out.textContent = JSON.stringify(JSON.parse(ev.data), null, 2); };
ws.onclose = () => { out.textContent += "\n[stream closed]"; };
</script>
<p><a href="/api/status">status</a> | <a href="/api/logs?format=text">logs</a> | <a href="/api/about">about</a></p>
</body></html>
`

type AboutResponse struct {
	Service    string `json:"service"`
	NowUTC     string `json:"now_utc"`
	GoVersion  string `json:"go_version"`
	ModulePath string `json:"module_path,omitempty"`
	Version    string `json:"version,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Dirty      bool   `json:"dirty,omitempty"`
}

func about(now time.Time) AboutResponse {
	resp := AboutResponse{
		Service:   "gnss-monitor",
		NowUTC:    now.UTC().Format(time.RFC3339Nano),
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi == nil {
		return resp
	}
	resp.ModulePath = bi.Main.Path
	resp.Version = bi.Main.Version
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			resp.Commit = s.Value
		case "vcs.modified":
			resp.Dirty = s.Value == "true"
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

// Handler serves the status API, the live fix stream and the log tail.
// hub and logs may be nil.
func Handler(status *Status, hub *Broadcaster, logs *LogBuffer, log zerolog.Logger) http.Handler {
	if status == nil {
		status = NewStatus()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status.Snapshot(time.Now().UTC()))
	}))

	mux.HandleFunc("/api/about", getOnly(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, about(time.Now()))
	}))

	mux.HandleFunc("/api/stream", getOnly(func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			http.Error(w, "stream unavailable", http.StatusNotFound)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug().Err(err).Msg("stream upgrade failed")
			return
		}
		stream(r.Context(), conn, hub, log)
	}))

	if logs != nil {
		mux.Handle("/api/logs", logs.Handler())
	} else {
		mux.HandleFunc("/api/logs", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "logs unavailable", http.StatusNotFound)
		})
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	return mux
}

// stream writes every published snapshot to conn until the client goes away.
func stream(ctx context.Context, conn *websocket.Conn, hub *Broadcaster, log zerolog.Logger) {
	defer conn.Close()

	id, ch := hub.Subscribe(8)
	defer hub.Unsubscribe(id)

	// The reader only services control frames; any read error ends the stream.
	gone := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-gone:
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(snap); err != nil {
				log.Debug().Err(err).Msg("stream write failed")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

// Serve runs the HTTP server until ctx is cancelled. Request contexts derive
// from ctx so open streams end on shutdown.
func Serve(ctx context.Context, listenAddr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
