package main

//go-build: CGO_ENABLED=0

import (
	"bufio"
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/robotalks/badge.go/pkg/badge"
	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/hw/memflash"
	"github.com/robotalks/badge.go/pkg/hw/wsdisplay"
	"github.com/robotalks/badge.go/pkg/link/mqtt"
	"github.com/robotalks/badge.go/pkg/run"
)

var (
	mqttURL    = "mqtt://localhost:1883/badge/"
	listenAddr = ":8070"
	nodeID     = 1
	agentName  = "AGENT"
)

func init() {
	if val := os.Getenv("BADGE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&listenAddr, "listen", listenAddr, "Display mirror listening address.")
	flag.IntVar(&nodeID, "node", nodeID, "Radio node ID.")
	flag.StringVar(&agentName, "agent", agentName, "Agent name.")
}

// stdinKeyboard feeds key codes typed as digits on stdin. Scan is
// non-blocking, one queued key per tick.
type stdinKeyboard struct {
	keyCh chan uint8
}

func newStdinKeyboard() *stdinKeyboard {
	return &stdinKeyboard{keyCh: make(chan uint8, 4)}
}

// Scan implements hw.Keyboard.
func (k *stdinKeyboard) Scan() hw.KeyScan {
	select {
	case key := <-k.keyCh:
		return hw.KeyScan{Key: key, Pressed: true}
	default:
		return hw.KeyScan{Key: hw.NoKey}
	}
}

// Run implements run.Runnable.
func (k *stdinKeyboard) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		n, err := strconv.Atoi(scanner.Text())
		if err != nil || n < 0 || n > 0xfe {
			continue
		}
		select {
		case k.keyCh <- uint8(n):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	queue, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	defer queue.Close()

	display := wsdisplay.New()
	http.Handle("/display", display.Handler())
	go func() {
		if err := http.ListenAndServe(listenAddr, nil); err != nil {
			log.Fatalln(err)
		}
	}()

	cfg := badge.DefaultConfig()
	cfg.NodeID = uint8(nodeID)
	cfg.AgentName = agentName

	kb := newStdinKeyboard()
	b := &badge.Badge{
		Config:   cfg,
		Flash:    memflash.New(256, 2),
		Display:  display,
		Radio:    mqtt.NewRadio(queue),
		Keyboard: kb,
	}
	if err := b.Start(); err != nil {
		log.Fatalln(err)
	}
	log.Printf("badge up, self check mask %#x", b.SelfCheck().Mask)

	err = run.NewRunner().
		HandleSignals().
		Go(run.NamedRun("badge", b), run.NamedRun("keyboard", kb)).
		Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
