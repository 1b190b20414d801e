// avatar-server hosts one procedural avatar: a 30Hz animation loop
// behind a REST control API and a websocket frame stream.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-avatar/internal/config"
	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/web"
)

func main() {
	addr := flag.String("addr", config.ListenAddr(), "listen address")
	clipDir := flag.String("clips", config.ClipDir(), "directory of custom clip files")
	mood := flag.String("mood", "", "initial mood")
	pose := flag.String("pose", "", "initial pose")
	level := flag.String("log-level", config.LogLevel(), "log level: debug, info, warn, error")
	flag.Parse()

	log.Init(*level)

	ctrl, err := avatar.New(avatar.Config{
		Seed:        config.RandomSeed(),
		ClipDir:     *clipDir,
		InitialMood: *mood,
		InitialPose: *pose,
	})
	if err != nil {
		log.Error("avatar init failed", "err", err)
		os.Exit(1)
	}

	srv := web.NewServer(*addr, ctrl)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go srv.RunLoop(ctx, config.TickRate())
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Warn("shutdown", "err", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}
