package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/badge.go/pkg/hw"
	"github.com/robotalks/badge.go/pkg/link"
	"github.com/robotalks/badge.go/pkg/link/mqtt"
)

// cliNodeID is the node ID the console transmits as.
const cliNodeID uint8 = 0xfe

var (
	mqttURL = "mqtt://localhost:1883/badge/"
	band    = int(hw.Band915MHz)
)

func init() {
	if val := os.Getenv("BADGE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.IntVar(&band, "band", band, "Frequency band to join.")
}

type console struct {
	queue *mqtt.Queue
	seq   link.Seq

	lock     sync.Mutex
	watching bool
	shell    *ishell.Shell
}

func (c *console) handleAir(_ string, payload []byte) {
	c.lock.Lock()
	watching := c.watching
	c.lock.Unlock()
	if !watching || len(payload) < 2 {
		return
	}
	from, to := payload[0], payload[1]
	f, err := link.Decode(payload[2:])
	if err != nil {
		c.shell.Printf("%d -> %d: bad frame: %v\n", from, to, err)
		return
	}
	c.shell.Printf("%d -> %d: seq=%d code=%#x %q\n", from, to, f.Seq, f.Code, string(f.Data))
}

func (c *console) setWatch(on bool) {
	c.lock.Lock()
	c.watching = on
	c.lock.Unlock()
}

func (c *console) send(to uint8, text string) error {
	f := &link.Frame{Seq: c.seq, Code: link.CodeText, Data: []byte(text)}
	payload, err := f.Bytes()
	if err != nil {
		return err
	}
	env := make([]byte, len(payload)+2)
	env[0], env[1] = cliNodeID, to
	copy(env[2:], payload)
	token := c.queue.Pub(mqtt.AirTopic(hw.RadioBand(band)), env)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	c.seq = c.seq.Next()
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	queue, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	defer queue.Close()
	token := queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		log.Fatalln(err)
	}

	c := &console{queue: queue, seq: link.NewSeq(), shell: ishell.New()}
	queue.Sub(mqtt.AirTopic(hw.RadioBand(band)), c.handleAir)

	c.shell.Println("badge console")
	c.shell.SetPrompt(fmt.Sprintf("[band %d] > ", band))
	c.shell.AddCmd(&ishell.Cmd{
		Name: "watch",
		Help: "watch on|off - print frames seen on the air",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) != 1 || (ctx.Args[0] != "on" && ctx.Args[0] != "off") {
				ctx.Err(fmt.Errorf("usage: watch on|off"))
				return
			}
			c.setWatch(ctx.Args[0] == "on")
		},
	})
	c.shell.AddCmd(&ishell.Cmd{
		Name: "send",
		Help: "send <text> - broadcast a text frame",
		Func: func(ctx *ishell.Context) {
			if len(ctx.Args) == 0 {
				ctx.Err(fmt.Errorf("usage: send <text>"))
				return
			}
			if err := c.send(hw.BroadcastNode, strings.Join(ctx.Args, " ")); err != nil {
				ctx.Err(err)
			}
		},
	})
	c.shell.Run()
}
