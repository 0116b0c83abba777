package badge

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/denisbrodbeck/machineid"

	"github.com/robotalks/badge.go/pkg/flashstore"
)

// DefaultIdentity derives provisioning defaults from the host machine
// identity. Simulated badges use it in place of a factory image; the
// derivation is stable, so re-runs on the same host produce the same
// identity.
func DefaultIdentity(cfg Config) *flashstore.Defaults {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	sum := sha256.Sum256([]byte(id + "/" + cfg.AgentName))
	name := cfg.AgentName
	if len(name) > cfg.AgentNameLen {
		name = name[:cfg.AgentNameLen]
	}
	return &flashstore.Defaults{
		ScreenSaverType: 1,
		ScreenSaverTime: 1,
		RadioID:         binary.LittleEndian.Uint32(sum[:4]),
		PublicKey:       expand(sum[4:], cfg.PublicKeyLen),
		PrivateKey:      expand(sum[8:], cfg.PrivateKeyLen),
		AgentName:       name,
	}
}

// expand cycles src to fill n bytes.
func expand(src []byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = src[i%len(src)]
	}
	return out
}
