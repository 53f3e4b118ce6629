package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// LiveRequest is one editor snapshot. Seq must grow with every edit;
// snapshots not newer than the last one seen are ignored.
type LiveRequest struct {
	Seq    int64  `json:"seq"`
	Source string `json:"source"`
}

// LiveResponse is either the session greeting or the result for Seq.
type LiveResponse struct {
	Type        string            `json:"type"`
	SessionID   string            `json:"session_id,omitempty"`
	Seq         int64             `json:"seq,omitempty"`
	Output      string            `json:"output,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
	OK          bool              `json:"ok"`
	Error       *ErrorResponse    `json:"error,omitempty"`
}

// snapshotQueue holds at most one pending snapshot. A newer push replaces
// the pending one, so a slow translator only ever sees the latest edit.
type snapshotQueue struct {
	latest  atomic.Int64
	pending chan LiveRequest
}

func newSnapshotQueue() *snapshotQueue {
	return &snapshotQueue{pending: make(chan LiveRequest, 1)}
}

// Push enqueues req and reports whether it was accepted. Push must be
// called from a single goroutine.
func (q *snapshotQueue) Push(req LiveRequest) bool {
	if req.Seq <= q.latest.Load() {
		return false
	}
	q.latest.Store(req.Seq)
	select {
	case <-q.pending:
	default:
	}
	q.pending <- req
	return true
}

// Next blocks until a snapshot is pending or ctx is done.
func (q *snapshotQueue) Next(ctx context.Context) (LiveRequest, bool) {
	select {
	case req := <-q.pending:
		return req, true
	case <-ctx.Done():
		return LiveRequest{}, false
	}
}

// Superseded reports whether a newer snapshot than seq has arrived.
func (q *snapshotQueue) Superseded(seq int64) bool {
	return seq < q.latest.Load()
}

type liveSession struct {
	id      string
	conn    *websocket.Conn
	queue   *snapshotQueue
	limiter *rate.Limiter
	log     *slog.Logger
	writeMu sync.Mutex
}

func (ls *liveSession) send(resp LiveResponse) error {
	ls.writeMu.Lock()
	defer ls.writeMu.Unlock()
	if err := ls.conn.WriteJSON(resp); err != nil {
		ls.log.Warn("Failed to write websocket message", "error", err)
		return err
	}
	return nil
}

func (s *Server) handleLive(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Failed to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	ls := &liveSession{
		id:      id,
		conn:    conn,
		queue:   newSnapshotQueue(),
		limiter: rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.Burst),
		log:     logger.With("session", id),
	}
	s.addSession(ls)
	defer s.removeSession(ls.id)

	if err := ls.send(LiveResponse{Type: "session", SessionID: ls.id, OK: true}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.translateLoop(ctx, ls)
	}()

	for {
		var req LiveRequest
		if err := conn.ReadJSON(&req); err != nil {
			ls.log.Debug("Live session closed", "error", err)
			break
		}
		if !ls.queue.Push(req) {
			ls.log.Debug("Dropped stale snapshot", "seq", req.Seq)
		}
	}

	cancel()
	wg.Wait()
}

func (s *Server) translateLoop(ctx context.Context, ls *liveSession) {
	for {
		req, ok := ls.queue.Next(ctx)
		if !ok {
			return
		}
		if err := ls.limiter.Wait(ctx); err != nil {
			return
		}
		if ls.queue.Superseded(req.Seq) {
			continue
		}

		resp := LiveResponse{Type: "result", Seq: req.Seq}
		res, err := s.pipeline.Translate(ctx, "live:"+ls.id, []byte(req.Source))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			_, body := errorResponse(err)
			resp.Error = &body
		} else {
			resp.Output = res.Output
			resp.Diagnostics = res.Diagnostics
			resp.OK = res.OK
		}

		if ls.queue.Superseded(req.Seq) {
			continue
		}
		if err := ls.send(resp); err != nil {
			return
		}
	}
}

func (s *Server) addSession(ls *liveSession) {
	s.mu.Lock()
	s.sessions[ls.id] = ls
	s.mu.Unlock()
	ls.log.Info("Live session started")
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	logger.Info("Live session ended", "session", id)
}
