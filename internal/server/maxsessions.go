package server

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"portfolio-terminal/internal/router"
)

// MaxSessionsMiddleware caps concurrent sessions. A slot is released exactly
// once, when the handler returns (including by panic) or the session context
// ends, whichever happens first.
func MaxSessionsMiddleware(limit int) wish.Middleware {
	if limit <= 0 {
		limit = 1
	}
	slots := make(chan struct{}, limit)

	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			select {
			case slots <- struct{}{}:
			default:
				log.Warn("session rejected", "event", "max_sessions_exceeded", "remote_ip", router.RemoteIP(s), "limit", limit)
				_, _ = s.Write([]byte("max sessions exceeded\n"))
				return
			}

			var once sync.Once
			release := func() { once.Do(func() { <-slots }) }

			done := make(chan struct{})
			go func() {
				select {
				case <-s.Context().Done():
				case <-done:
				}
				release()
			}()

			defer func() {
				close(done)
				release()
				if r := recover(); r != nil {
					log.Error("session handler panic", "event", "session_panic", "remote_ip", router.RemoteIP(s), "panic", r)
				}
			}()
			next(s)
		}
	}
}
