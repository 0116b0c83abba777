// Package wsdisplay implements hw.Display by mirroring rendered
// frames to websocket clients.
package wsdisplay

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/badge.go/pkg/hw"
)

// Text is one positioned text fragment.
type Text struct {
	X    uint8  `json:"x"`
	Y    uint8  `json:"y"`
	Text string `json:"text"`
}

// Frame is one rendered display frame sent to clients.
type Frame struct {
	List  *hw.ListScreen `json:"list,omitempty"`
	Texts []Text         `json:"texts,omitempty"`
}

// Display implements hw.Display. Draw encodes the accumulated frame
// and pushes it to every connected client; identical consecutive
// frames are sent once.
type Display struct {
	lock  sync.Mutex
	list  *hw.ListScreen
	texts []Text
	conns map[*websocket.Conn]bool
	last  []byte
}

// New creates a Display.
func New() *Display {
	return &Display{conns: make(map[*websocket.Conn]bool)}
}

// Init implements hw.Display.
func (d *Display) Init() error { return nil }

// SetList implements hw.Display.
func (d *Display) SetList(l *hw.ListScreen) {
	d.lock.Lock()
	d.list = l
	d.lock.Unlock()
}

// DrawText implements hw.Display.
func (d *Display) DrawText(x, y uint8, text string) {
	d.lock.Lock()
	d.texts = append(d.texts, Text{X: x, Y: y, Text: text})
	d.lock.Unlock()
}

// Draw implements hw.Display.
func (d *Display) Draw() {
	d.lock.Lock()
	defer d.lock.Unlock()
	frame := Frame{List: d.list, Texts: d.texts}
	d.texts = nil
	b, err := json.Marshal(&frame)
	if err != nil {
		glog.Errorf("encoding frame: %v", err)
		return
	}
	if bytes.Equal(b, d.last) {
		return
	}
	d.last = b
	for conn := range d.conns {
		if err := websocket.Message.Send(conn, string(b)); err != nil {
			glog.V(2).Infof("mirror client gone: %v", err)
			delete(d.conns, conn)
		}
	}
}

// Handler returns the websocket handler serving display frames.
func (d *Display) Handler() websocket.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		d.lock.Lock()
		d.conns[conn] = true
		last := d.last
		d.lock.Unlock()
		if last != nil {
			websocket.Message.Send(conn, string(last))
		}
		// hold the connection until the client goes away
		var buf string
		for {
			if err := websocket.Message.Receive(conn, &buf); err != nil {
				break
			}
		}
		d.lock.Lock()
		delete(d.conns, conn)
		d.lock.Unlock()
	})
}
