package api

import (
	"sync"

	"gutenlens/internal/agent"
	"gutenlens/internal/analyzer"
)

// AgentPool keeps one analyzer and router per user. The analyzer holds
// the per-session result cache, so sessions never see each other's book.
type AgentPool struct {
	mu       sync.Mutex
	sessions map[uint]*agentSession

	source      analyzer.Source
	gen         analyzer.Generator
	index       analyzer.Index
	sampleLimit int
}

type agentSession struct {
	analyzer *analyzer.Analyzer
	router   *agent.Router
}

func NewAgentPool(source analyzer.Source, gen analyzer.Generator, index analyzer.Index, sampleLimit int) *AgentPool {
	return &AgentPool{
		sessions:    make(map[uint]*agentSession),
		source:      source,
		gen:         gen,
		index:       index,
		sampleLimit: sampleLimit,
	}
}

func (p *AgentPool) session(userId uint) *agentSession {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[userId]
	if !ok {
		a := analyzer.New(p.source, p.gen, p.index, p.sampleLimit)
		s = &agentSession{analyzer: a, router: agent.New(a)}
		p.sessions[userId] = s
	}
	return s
}

func (p *AgentPool) Analyzer(userId uint) *analyzer.Analyzer {
	return p.session(userId).analyzer
}

func (p *AgentPool) Router(userId uint) *agent.Router {
	return p.session(userId).router
}
