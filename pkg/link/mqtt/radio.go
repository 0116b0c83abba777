package mqtt

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/badge.go/pkg/hw"
)

// AirTopic returns the shared topic standing in for a frequency band.
func AirTopic(band hw.RadioBand) string {
	return fmt.Sprintf("air/%d", band)
}

// Radio implements hw.Radio over an MQTT broker. Transmissions carry a
// two byte [from, to] envelope ahead of the payload; receptions drop
// the badge's own transmissions and frames addressed elsewhere.
type Radio struct {
	Queue *Queue

	id     uint8
	band   hw.RadioBand
	power  uint8
	recvCh chan []byte
}

// NewRadio creates a Radio on a queue.
func NewRadio(q *Queue) *Radio {
	return &Radio{Queue: q, recvCh: make(chan []byte, 8)}
}

// Init implements hw.Radio. It connects the broker and joins the
// band's air topic.
func (r *Radio) Init(band hw.RadioBand, nodeID uint8) error {
	r.id, r.band = nodeID, band
	token := r.Queue.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}
	token = r.Queue.Sub(AirTopic(band), r.handle)
	token.Wait()
	return token.Error()
}

// SetPowerLevel implements hw.Radio. Power has no over-broker effect,
// it is only recorded.
func (r *Radio) SetPowerLevel(level uint8) {
	r.power = level
	glog.V(2).Infof("radio power level %d", level)
}

// Send implements hw.Radio. It never blocks on delivery: the broker
// client queues the publish.
func (r *Radio) Send(to uint8, payload []byte) error {
	env := make([]byte, len(payload)+2)
	env[0], env[1] = r.id, to
	copy(env[2:], payload)
	r.Queue.Pub(AirTopic(r.band), env)
	return nil
}

// Receive implements hw.Radio.
func (r *Radio) Receive() ([]byte, bool) {
	select {
	case b := <-r.recvCh:
		return b, true
	default:
		return nil, false
	}
}

func (r *Radio) handle(_ string, payload []byte) {
	if len(payload) < 2 {
		return
	}
	from, to := payload[0], payload[1]
	if from == r.id {
		return
	}
	if to != r.id && to != hw.BroadcastNode {
		return
	}
	select {
	case r.recvCh <- payload[2:]:
	default:
		// the inbox is bounded, late readers lose frames
		glog.V(2).Info("rx overrun, frame dropped")
	}
}
