// Package web exposes the avatar over HTTP: a REST surface for intent
// calls (mood, pose, speech, gaze, clips) and a websocket stream of
// per-tick frames.
//
// The animation engine is single-threaded: fiber handlers never touch
// the controller directly. Every intent is a closure handed to the
// tick loop, which drains pending intents at the top of each tick and
// replies with the result.
package web

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/anim"
	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/hub"
)

// ErrBusy is returned when the tick loop cannot accept an intent in
// time, usually because the loop is not running.
var ErrBusy = errors.New("animation loop not accepting intents")

// intentWait bounds how long a handler blocks on the tick loop.
const intentWait = 2 * time.Second

// intent is one controller mutation queued for the tick loop.
type intent struct {
	fn   func(now time.Time) error
	done chan error
}

// Server hosts the avatar control API and the frame stream.
type Server struct {
	app  *fiber.App
	addr string

	ctrl    *avatar.Controller
	frames  *hub.Hub
	intents chan intent
}

// NewServer wires the routes around a controller. The controller must
// only ever be touched from RunLoop's goroutine.
func NewServer(addr string, ctrl *avatar.Controller) *Server {
	s := &Server{
		addr:    addr,
		ctrl:    ctrl,
		frames:  hub.New("frames"),
		intents: make(chan intent, 64),
	}

	app := fiber.New(fiber.Config{
		AppName:               "go-avatar",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/clips", s.handleListClips)
	api.Post("/clips/:name/play", s.handlePlayClip)
	api.Post("/mood/:name", s.handleSetMood)
	api.Post("/pose/:name", s.handleSetPose)
	api.Post("/gesture/:name", s.handleGesture)
	api.Post("/speak", s.handleSpeak)
	api.Post("/look", s.handleLookAt)
	api.Delete("/look", s.handleClearLook)
	api.Post("/hand", s.handleHandTarget)
	api.Delete("/hand/:side", s.handleReleaseHand)
	api.Post("/override", s.handleSetOverride)
	api.Delete("/override/:channel", s.handleClearOverride)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))

	s.app = app
	return s
}

// Start begins serving HTTP. Blocks until shutdown.
func (s *Server) Start() error {
	go s.frames.Run()
	log.Info("avatar server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the web server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// RunLoop drives the animation at the given tick rate until ctx is
// done. Each tick drains queued intents, advances the controller and
// broadcasts the frame plus any side-effect events.
func (s *Server) RunLoop(ctx context.Context, rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.drainIntents(now)
			frame := s.ctrl.Tick(now)
			s.publish(frame)
		}
	}
}

// drainIntents applies every queued intent with the tick's timestamp.
func (s *Server) drainIntents(now time.Time) {
	for {
		select {
		case in := <-s.intents:
			in.done <- in.fn(now)
		default:
			return
		}
	}
}

// publish broadcasts side-effect events and then the frame itself.
func (s *Server) publish(frame avatar.Frame) {
	for _, cmd := range frame.Commands {
		switch v := cmd.(type) {
		case anim.EmitSubtitle:
			s.frames.BroadcastJSON(hub.KindSubtitle, fiber.Map{"text": v.Text})
		case anim.InvokeMarker:
			s.frames.BroadcastJSON(hub.KindMarker, fiber.Map{"name": v.Name})
		case anim.MoveTo:
			s.frames.BroadcastJSON(hub.KindState, fiber.Map{
				"moveTo": []float64{v.X, v.Y, v.Z},
			})
		}
	}
	if err := s.frames.BroadcastJSON(hub.KindFrame, frame); err != nil {
		log.Warn("frame broadcast failed", "err", err)
	}
}

// do runs fn on the tick loop and waits for its result.
func (s *Server) do(fn func(now time.Time) error) error {
	in := intent{fn: fn, done: make(chan error, 1)}
	select {
	case s.intents <- in:
	case <-time.After(intentWait):
		return ErrBusy
	}
	select {
	case err := <-in.done:
		return err
	case <-time.After(intentWait):
		return ErrBusy
	}
}

// handleFramesWS streams frames to one websocket client.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	hub.NewClient(s.frames, c).Run()
}
