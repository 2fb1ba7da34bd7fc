package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type request struct {
	name   string
	fn     Work[any]
	result chan Result[any]
	ctx    context.Context
}

// Scheduler runs work on a fixed number of workers. Work submitted while all
// workers are busy waits in a FIFO queue.
type Scheduler struct {
	idle     int
	pending  []request
	submit   chan request
	released chan struct{}
	closing  chan struct{}
	stopped  chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	inflight sync.WaitGroup
	once     sync.Once
	logger   *zap.SugaredLogger
}

func NewScheduler(nbWorkers int) *Scheduler {
	if nbWorkers < 1 {
		nbWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		idle:     nbWorkers,
		submit:   make(chan request),
		released: make(chan struct{}, nbWorkers),
		closing:  make(chan struct{}),
		stopped:  make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		logger:   zap.S().Named("scheduler"),
	}
	go s.run()
	return s
}

// AddWork queues w and returns its future. The name is only used for logging.
func (s *Scheduler) AddWork(name string, w Work[any]) *Future[Result[any]] {
	c := make(chan Result[any], 1)
	ctx, cancel := context.WithCancel(s.ctx)

	select {
	case <-s.ctx.Done():
		cancel()
		c <- Result[any]{Err: context.Canceled}
	case s.submit <- request{name: name, fn: w, result: c, ctx: ctx}:
	}

	return NewFuture(c, cancel)
}

// Close cancels all work, fails queued work with context.Canceled and waits
// for running work to return.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.cancel()
		close(s.closing)
		<-s.stopped
	})
}

func (s *Scheduler) run() {
	defer close(s.stopped)
	for {
		select {
		case r := <-s.submit:
			s.pending = append(s.pending, r)
			s.dispatch()
		case <-s.released:
			s.idle++
			s.dispatch()
		case <-s.closing:
			s.failPending()
			s.inflight.Wait()
			return
		}
	}
}

func (s *Scheduler) failPending() {
	for _, r := range s.pending {
		r.result <- Result[any]{Err: context.Canceled}
	}
	s.pending = nil
}

// dispatch starts queued work while workers are idle. Once the scheduler is
// closing, queued work is failed instead.
func (s *Scheduler) dispatch() {
	if s.ctx.Err() != nil {
		s.failPending()
		return
	}
	for s.idle > 0 && len(s.pending) > 0 {
		r := s.pending[0]
		s.pending = s.pending[1:]
		s.idle--
		s.inflight.Add(1)
		go s.execute(r)
	}
}

func (s *Scheduler) execute(r request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Errorw("work panicked", "work", r.name, "panic", rec)
			r.result <- Result[any]{Err: fmt.Errorf("work %q panicked: %v", r.name, rec)}
		}
		s.inflight.Done()
		s.released <- struct{}{}
	}()

	v, err := r.fn(r.ctx)
	r.result <- Result[any]{Data: v, Err: err}
}
