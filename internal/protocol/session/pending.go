package session

import (
	"sort"
	"sync"
	"time"

	"github.com/danmuck/smppctl/internal/protocol"
	"github.com/danmuck/smppctl/internal/protocol/pdu"
)

// PendingRequest tracks one request awaiting its response.
type PendingRequest struct {
	Sequence uint32
	Command  protocol.CommandID
	SentAt   time.Time
	Deadline time.Time
}

// PendingTable stores in-flight requests by sequence number.
type PendingTable struct {
	mu    sync.RWMutex
	items map[uint32]PendingRequest
}

func NewPendingTable() *PendingTable {
	return &PendingTable{
		items: make(map[uint32]PendingRequest),
	}
}

func (t *PendingTable) Track(item PendingRequest) {
	if item.Sequence == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[item.Sequence] = item
}

// Resolve removes and returns the request a response answers. generic_nack
// answers any request with the same sequence.
func (t *PendingTable) Resolve(resp *pdu.PDU) (PendingRequest, bool) {
	if resp == nil || !resp.IsResponse() {
		return PendingRequest{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[resp.Sequence]
	if !ok {
		return PendingRequest{}, false
	}
	if resp.Command != protocol.GenericNack && resp.Command != item.Command.Response() {
		return PendingRequest{}, false
	}
	delete(t.items, resp.Sequence)
	return item, true
}

func (t *PendingTable) Remove(seq uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, seq)
}

func (t *PendingTable) Get(seq uint32) (PendingRequest, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	item, ok := t.items[seq]
	return item, ok
}

// Expire removes and returns every request whose deadline is before now.
func (t *PendingTable) Expire(now time.Time) []PendingRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PendingRequest, 0)
	for seq, item := range t.items {
		if !item.Deadline.IsZero() && item.Deadline.Before(now) {
			out = append(out, item)
			delete(t.items, seq)
		}
	}
	sortBySequence(out)
	return out
}

func (t *PendingTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

func (t *PendingTable) List() []PendingRequest {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]PendingRequest, 0, len(t.items))
	for _, item := range t.items {
		out = append(out, item)
	}
	sortBySequence(out)
	return out
}

func sortBySequence(items []PendingRequest) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Sequence < items[j].Sequence
	})
}
