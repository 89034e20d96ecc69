package cart

import "sync"

// PendingOps tracks which products have a cart operation in flight, per
// session, so the UI can render per-product spinners. It is owned by the
// engine and handed to whoever needs to query it; there is no process-wide
// singleton.
type PendingOps struct {
	mu       sync.Mutex
	inFlight map[string]map[int64]int
}

func NewPendingOps() *PendingOps {
	return &PendingOps{inFlight: make(map[string]map[int64]int)}
}

// Begin marks a product's cart operation as in flight.
func (p *PendingOps) Begin(sessionID string, productID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.inFlight[sessionID]
	if !ok {
		session = make(map[int64]int)
		p.inFlight[sessionID] = session
	}
	session[productID]++
}

// End marks a product's cart operation as settled.
func (p *PendingOps) End(sessionID string, productID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.inFlight[sessionID]
	if !ok {
		return
	}
	session[productID]--
	if session[productID] <= 0 {
		delete(session, productID)
	}
	if len(session) == 0 {
		delete(p.inFlight, sessionID)
	}
}

// InFlight reports whether the product has a pending cart operation.
func (p *PendingOps) InFlight(sessionID string, productID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.inFlight[sessionID]
	if !ok {
		return false
	}
	return session[productID] > 0
}

// Active returns the product ids with pending operations for the session.
func (p *PendingOps) Active(sessionID string) []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	session := p.inFlight[sessionID]
	ids := make([]int64, 0, len(session))
	for id := range session {
		ids = append(ids, id)
	}
	return ids
}
