// Package hostpool implements per-host admission control: one Host per
// canonical hostname, each gating requests behind a concurrency
// semaphore and a strict-spacing rate limiter before they reach the
// handler chain
package hostpool

import "sync"

// ConfigFunc resolves the admission/transport configuration for a
// given host key, typically derived from global flags plus any
// per-host override table
type ConfigFunc func(hostKey string) Config

// Pool owns the HostKey -> Host map. Insertion is protected by a lock;
// once obtained, callers use a Host's own internal synchronization —
// the map lock is never held across a blocking Admit call.
type Pool struct {
	mu     sync.Mutex
	hosts  map[string]*Host
	cfgFor ConfigFunc
	global map[string]string
}

// New builds an empty Pool. cfgFor is consulted exactly once per
// distinct host key, the first time it is seen.
func New(cfgFor ConfigFunc, globalHeaders map[string]string) *Pool {
	if cfgFor == nil {
		cfgFor = func(string) Config { return Config{} }
	}
	return &Pool{
		hosts:  make(map[string]*Host),
		cfgFor: cfgFor,
		global: globalHeaders,
	}
}

// GetOrCreate returns the Host for hostKey, creating and caching it on
// first use
func (p *Pool) GetOrCreate(hostKey string) *Host {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.hosts[hostKey]; ok {
		return h
	}
	h := newHost(hostKey, p.cfgFor(hostKey))
	p.hosts[hostKey] = h
	return h
}

// GlobalHeaders returns the pool-wide header set applied to every host
// at the lowest merge precedence
func (p *Pool) GlobalHeaders() map[string]string { return p.global }

// AllStats snapshots every host's counters, keyed by host key
func (p *Pool) AllStats() map[string]Snapshot {
	p.mu.Lock()
	hosts := make([]*Host, 0, len(p.hosts))
	keys := make([]string, 0, len(p.hosts))
	for k, h := range p.hosts {
		keys = append(keys, k)
		hosts = append(hosts, h)
	}
	p.mu.Unlock()

	out := make(map[string]Snapshot, len(hosts))
	for i, h := range hosts {
		out[keys[i]] = h.Stats.snapshot()
	}
	return out
}
