package uid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"
)

// ObjectID generates 24 character hex ids: 4 bytes of unix seconds, 5 random
// bytes fixed per process and a 3 byte counter. Ids sort by creation second.
type ObjectID struct {
	process [5]byte
	counter atomic.Uint32
	now     func() time.Time
}

func NewObjectID() (*ObjectID, error) {
	g := &ObjectID{now: time.Now}
	if _, err := rand.Read(g.process[:]); err != nil {
		return nil, err
	}

	var seed [4]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	g.counter.Store(binary.BigEndian.Uint32(seed[:]))

	return g, nil
}

func (g *ObjectID) Generate() string {
	var raw [12]byte

	binary.BigEndian.PutUint32(raw[0:4], uint32(g.now().Unix()))
	copy(raw[4:9], g.process[:])

	c := g.counter.Add(1)
	raw[9] = byte(c >> 16)
	raw[10] = byte(c >> 8)
	raw[11] = byte(c)

	return hex.EncodeToString(raw[:])
}
