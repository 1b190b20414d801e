package web

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-avatar/pkg/anim"
	"github.com/teslashibe/go-avatar/pkg/clip"
	"github.com/teslashibe/go-avatar/pkg/lipsync"
)

// stateResponse is the avatar's discrete state snapshot.
type stateResponse struct {
	Mood      string `json:"mood"`
	Pose      string `json:"pose"`
	Animating int    `json:"animating"`
	Clients   int    `json:"clients"`
}

func (s *Server) handleState(c *fiber.Ctx) error {
	var resp stateResponse
	err := s.do(func(time.Time) error {
		resp = stateResponse{
			Mood:      s.ctrl.Mood(),
			Pose:      s.ctrl.Pose(),
			Animating: s.ctrl.Scheduler().QueueLen(),
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	resp.Clients = s.frames.ClientCount()
	return c.JSON(resp)
}

func (s *Server) handleListClips(c *fiber.Ctx) error {
	reg := s.ctrl.Clips()
	return c.JSON(fiber.Map{
		"gestures": reg.ListKind(clip.KindAnim),
		"poses":    reg.ListKind(clip.KindPose),
	})
}

func (s *Server) handlePlayClip(c *fiber.Ctx) error {
	name := c.Params("name")
	return reply(c, s.do(func(now time.Time) error {
		return s.ctrl.PlayClip(name, now)
	}))
}

func (s *Server) handleSetMood(c *fiber.Ctx) error {
	name := c.Params("name")
	return reply(c, s.do(func(now time.Time) error {
		return s.ctrl.SetMood(name, now)
	}))
}

func (s *Server) handleSetPose(c *fiber.Ctx) error {
	name := c.Params("name")
	return reply(c, s.do(func(now time.Time) error {
		return s.ctrl.SetPose(name, now)
	}))
}

// gestureRequest tunes a gesture playback.
type gestureRequest struct {
	Mirror    bool    `json:"mirror"`
	ScaleTime float64 `json:"scaleTime"`
}

func (s *Server) handleGesture(c *fiber.Ctx) error {
	name := c.Params("name")
	req := gestureRequest{ScaleTime: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, err)
		}
	}
	if req.ScaleTime <= 0 {
		req.ScaleTime = 1
	}
	return reply(c, s.do(func(now time.Time) error {
		return s.ctrl.Gesture(name, req.Mirror, req.ScaleTime, now)
	}))
}

// speakRequest schedules lipsync for one utterance.
type speakRequest struct {
	Text     string          `json:"text"`
	WindowMS float64         `json:"windowMs"`
	Markers  []string        `json:"markers"`
	Visemes  lipsync.Visemes `json:"visemes"`
}

func (s *Server) handleSpeak(c *fiber.Ctx) error {
	var req speakRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, err)
	}
	return reply(c, s.do(func(now time.Time) error {
		return s.ctrl.Speak(&req.Visemes, req.WindowMS, req.Text, req.Markers, now)
	}))
}

// pointRequest is a world-space position.
type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (s *Server) handleLookAt(c *fiber.Ctx) error {
	var req pointRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, err)
	}
	return reply(c, s.do(func(now time.Time) error {
		s.ctrl.LookAt(mgl64.Vec3{req.X, req.Y, req.Z}, now)
		return nil
	}))
}

func (s *Server) handleClearLook(c *fiber.Ctx) error {
	return reply(c, s.do(func(time.Time) error {
		s.ctrl.ClearLookAt()
		return nil
	}))
}

// handRequest targets one hand at a world position.
type handRequest struct {
	Hand string  `json:"hand"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

func parseHand(s string) (anim.HandSide, error) {
	switch s {
	case "left":
		return anim.HandLeft, nil
	case "right":
		return anim.HandRight, nil
	}
	return "", errors.New("hand must be left or right")
}

func (s *Server) handleHandTarget(c *fiber.Ctx) error {
	var req handRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, err)
	}
	hand, err := parseHand(req.Hand)
	if err != nil {
		return fail(c, err)
	}
	return reply(c, s.do(func(time.Time) error {
		s.ctrl.SetHandTarget(hand, mgl64.Vec3{req.X, req.Y, req.Z})
		return nil
	}))
}

func (s *Server) handleReleaseHand(c *fiber.Ctx) error {
	hand, err := parseHand(c.Params("side"))
	if err != nil {
		return fail(c, err)
	}
	return reply(c, s.do(func(time.Time) error {
		s.ctrl.ReleaseHand(hand)
		return nil
	}))
}

// overrideRequest pins a channel to a fixed target.
type overrideRequest struct {
	Channel string  `json:"channel"`
	Target  float64 `json:"target"`
}

func (s *Server) handleSetOverride(c *fiber.Ctx) error {
	var req overrideRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, err)
	}
	return reply(c, s.do(func(time.Time) error {
		return s.ctrl.SetOverride(req.Channel, req.Target)
	}))
}

func (s *Server) handleClearOverride(c *fiber.Ctx) error {
	ch := c.Params("channel")
	return reply(c, s.do(func(time.Time) error {
		s.ctrl.ClearOverride(ch)
		return nil
	}))
}

// reply maps an intent result to a JSON response.
func reply(c *fiber.Ctx, err error) error {
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// fail picks a status code for an error: unknown names are 404,
// loop saturation is 503, everything else is a bad request.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, clip.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, anim.ErrUnknownMood):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrBusy):
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
