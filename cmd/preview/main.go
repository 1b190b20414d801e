// preview tails an avatar-server frame stream and prints a compact
// live view of selected channels and events. Useful for checking a
// headless server without a renderer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-avatar/internal/log"
)

// envelope mirrors the hub wire format.
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// frame is the subset of the frame payload the preview renders.
type frame struct {
	Values map[string]float64 `json:"values"`
	Mood   string             `json:"mood"`
	Pose   string             `json:"pose"`
}

func main() {
	url := flag.String("url", "ws://localhost:8800/ws/frames", "frame stream URL")
	watch := flag.String("watch", "eyeBlinkLeft,jawOpen,headRotateY,chestInhale", "comma-separated channels to display")
	every := flag.Int("every", 10, "print one line per N frames")
	flag.Parse()

	log.Init("info")

	channels := strings.Split(*watch, ",")
	sort.Strings(channels)

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Error("dial failed", "url", *url, "err", err)
		os.Exit(1)
	}
	defer conn.Close()
	log.Info("connected", "url", *url)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupt
		conn.Close()
	}()

	n := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Info("stream closed", "err", err)
			return
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Warn("bad envelope", "err", err)
			continue
		}
		switch env.Kind {
		case "frame":
			n++
			if n%*every != 0 {
				continue
			}
			var f frame
			if err := json.Unmarshal(env.Data, &f); err != nil {
				log.Warn("bad frame", "err", err)
				continue
			}
			printFrame(&f, channels)
		case "subtitle", "marker":
			fmt.Printf("\n[%s] %s\n", env.Kind, env.Data)
		}
	}
}

// printFrame renders one status line with simple bar gauges.
func printFrame(f *frame, channels []string) {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-10s", f.Mood, f.Pose)
	for _, ch := range channels {
		fmt.Fprintf(&b, "  %s %s", ch, gauge(f.Values[ch]))
	}
	fmt.Printf("\r%s", b.String())
}

// gauge renders a value in [-1,1] as a 10-cell bar.
func gauge(v float64) string {
	cells := int((v + 1) / 2 * 10)
	if cells < 0 {
		cells = 0
	}
	if cells > 10 {
		cells = 10
	}
	return "[" + strings.Repeat("#", cells) + strings.Repeat("-", 10-cells) + "]"
}
