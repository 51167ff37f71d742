package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"portfolio-terminal/internal/console"
)

const (
	maxSignalBytes = 4096
	writeTimeout   = 10 * time.Second
)

// Client signals accepted on the console socket.
const (
	signalActivate   = "activate"
	signalDeactivate = "deactivate"
	signalOutside    = "outside"
	signalSubmit     = "submit"
	signalRecallPrev = "recall_prev"
	signalRecallNext = "recall_next"
	signalInput      = "input"
	signalClose      = "close"
)

const (
	eventFocus = "focus"
	eventClose = "close"
)

type clientFrame struct {
	Signal string `json:"signal"`
	Text   string `json:"text"`
}

type lineFrame struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type serverFrame struct {
	Lines       []lineFrame `json:"lines"`
	Input       string      `json:"input"`
	Active      bool        `json:"active"`
	Initialized bool        `json:"initialized"`
	Modal       bool        `json:"modal"`
	Events      []string    `json:"events"`
}

// socketHost queues console requests until the next frame is sent.
type socketHost struct {
	events []string
}

func (h *socketHost) RequestFocus() { h.events = append(h.events, eventFocus) }
func (h *socketHost) RequestClose() { h.events = append(h.events, eventClose) }

func (h *socketHost) drain() []string {
	out := h.events
	h.events = nil
	if out == nil {
		out = []string{}
	}
	return out
}

func (s *Server) consoleSocket(c *gin.Context) {
	mode := c.DefaultQuery("mode", "inline")
	if mode != "inline" && mode != "modal" {
		logRejection(c, "console_socket", "bad_mode", mode)
		writeErr(c, http.StatusBadRequest, "BAD_MODE", "mode must be inline or modal")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logRejection(c, "console_socket", "upgrade_failed", err.Error())
		return
	}
	defer conn.Close()

	started := time.Now()
	log.Info("console session opened", "event", "console_open", "mode", mode, "remote", c.ClientIP())
	err = s.runConsole(c.Request.Context(), conn, mode == "modal")
	log.Info("console session closed",
		"event", "console_close",
		"mode", mode,
		"remote", c.ClientIP(),
		"duration_ms", time.Since(started).Milliseconds(),
		"err", err,
	)
}

// runConsole owns one console for the life of the connection. Every console
// call happens on this goroutine; the reader and the boot ticker only feed it
// through channels.
func (s *Server) runConsole(ctx context.Context, conn *websocket.Conn, modal bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	doc := s.setup.Document()
	host := &socketHost{}
	con := console.New(console.Options{
		Boot:     doc.BootMessages(modal),
		Commands: s.setup.Commands(),
		Modal:    modal,
		Host:     host,
	})
	defer con.Dispose()

	conn.SetReadLimit(maxSignalBytes)
	signals := make(chan clientFrame)
	readErr := make(chan error, 1)
	go func() {
		for {
			var frame clientFrame
			if err := conn.ReadJSON(&frame); err != nil {
				readErr <- err
				return
			}
			select {
			case signals <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	bootCtx, stopBoot := context.WithCancel(ctx)
	defer stopBoot()
	con.StartBoot()
	var steps <-chan struct{}
	if con.AdvanceBoot() {
		steps = s.player.Steps(bootCtx)
	}
	if err := writeFrame(conn, con, host); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				return nil
			}
			return err
		case _, ok := <-steps:
			if !ok {
				steps = nil
				continue
			}
			if !con.AdvanceBoot() {
				stopBoot()
				steps = nil
			}
			if err := writeFrame(conn, con, host); err != nil {
				return err
			}
		case frame := <-signals:
			applySignal(con, frame)
			closing := containsEvent(host.events, eventClose)
			if err := writeFrame(conn, con, host); err != nil {
				return err
			}
			if closing {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "console closed")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
				return nil
			}
		}
	}
}

func applySignal(con *console.Console, frame clientFrame) {
	switch frame.Signal {
	case signalActivate:
		con.Activate()
	case signalDeactivate:
		con.Cancel()
	case signalOutside:
		con.OutsideInteraction()
	case signalInput:
		con.SetInput(frame.Text)
	case signalSubmit:
		if frame.Text != "" {
			con.SetInput(frame.Text)
		}
		con.Submit()
	case signalRecallPrev:
		con.RecallPrevious()
	case signalRecallNext:
		con.RecallNext()
	case signalClose:
		con.Close()
	default:
		log.Debug("unknown console signal", "event", "console_signal_ignored", "signal", frame.Signal)
	}
}

func writeFrame(conn *websocket.Conn, con *console.Console, host *socketHost) error {
	snap := con.Snapshot()
	frame := serverFrame{
		Lines:       make([]lineFrame, 0, len(snap.Lines)),
		Input:       snap.Input,
		Active:      snap.Active,
		Initialized: snap.Initialized,
		Modal:       snap.Modal,
		Events:      host.drain(),
	}
	for _, line := range snap.Lines {
		frame.Lines = append(frame.Lines, lineFrame{Kind: line.Kind.String(), Text: line.Text})
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("write console frame: %w", err)
	}
	return nil
}

func containsEvent(events []string, want string) bool {
	for _, e := range events {
		if e == want {
			return true
		}
	}
	return false
}
