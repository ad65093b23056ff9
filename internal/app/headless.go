package app

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/service"
)

// Session drives the engine without a terminal. Requests run
// concurrently; their replies are reduced one at a time by the goroutine
// calling Run.
type Session struct {
	store   *calc.Store
	gateway *service.Gateway
	history *History
	log     *log.Entry
}

func NewSession(store *calc.Store, gateway *service.Gateway, historySize int, logger *log.Entry) *Session {
	return &Session{
		store:   store,
		gateway: gateway,
		history: NewHistory(historySize),
		log:     logger,
	}
}

// Run dispatches events in order. After each it waits until every request
// the event produced, and every follow-up request, has been answered.
func (s *Session) Run(ctx context.Context, events ...calc.Event) calc.State {
	for _, ev := range events {
		reqs := s.dispatch(ev)
		switch ev.(type) {
		case calc.CalculateSensitivity, calc.CalculateTime:
			logSkipped(s.log, ev, reqs)
		}
		s.settle(ctx, reqs)
	}
	return s.store.State()
}

func (s *Session) settle(ctx context.Context, reqs []calc.Request) {
	replies := make(chan calc.Event)
	pending := 0
	launch := func(rs []calc.Request) {
		for _, req := range rs {
			pending++
			go func(req calc.Request) {
				replies <- s.gateway.Execute(ctx, req)
			}(req)
		}
	}

	launch(reqs)
	for pending > 0 {
		ev := <-replies
		pending--
		launch(s.dispatch(ev))
	}
}

func (s *Session) dispatch(ev calc.Event) []calc.Request {
	stale := calc.Stale(s.store.State(), ev)
	reqs := s.store.Dispatch(ev)
	if !stale {
		s.history.Record(ev, s.store.State(), time.Now())
	}
	return reqs
}

// History returns the results recorded so far.
func (s *Session) History() *History {
	return s.history
}
