package scheduler_test

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/spo-migrator/pkg/scheduler"
)

var _ = Describe("Scheduler", func() {
	var s *scheduler.Scheduler

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Describe("AddWork", func() {
		It("should add work and return a future", func() {
			s = scheduler.NewScheduler(1)

			future := s.AddWork("upload", func(ctx context.Context) (any, error) {
				return "done", nil
			})
			Expect(future).NotTo(BeNil())

			var result scheduler.Result[any]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Data).To(Equal("done"))
		})

		It("should run at most nbWorkers work items at once", func() {
			s = scheduler.NewScheduler(2)

			var running, peak atomic.Int32
			futures := []*scheduler.Future[scheduler.Result[any]]{}
			for range 6 {
				futures = append(futures, s.AddWork("upload", func(ctx context.Context) (any, error) {
					n := running.Add(1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(20 * time.Millisecond)
					running.Add(-1)
					return nil, nil
				}))
			}

			_, err := scheduler.Gather(context.Background(), futures...)
			Expect(err).NotTo(HaveOccurred())
			Expect(peak.Load()).To(BeNumerically("<=", 2))
		})
	})

	Describe("Run work", func() {
		It("should execute multiple work items", func() {
			s = scheduler.NewScheduler(2)

			results := make(chan int, 3)
			for i := range 3 {
				idx := i
				s.AddWork("item", func(ctx context.Context) (any, error) {
					results <- idx
					return idx, nil
				})
			}

			Eventually(func() int {
				return len(results)
			}, 2*time.Second, 100*time.Millisecond).Should(Equal(3))
		})

		It("should report a panic as an error", func() {
			s = scheduler.NewScheduler(1)

			future := s.AddWork("broken", func(ctx context.Context) (any, error) {
				panic("boom")
			})

			var result scheduler.Result[any]
			Eventually(future.C(), 2*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(ContainSubstring("broken")))

			// the worker slot is released
			next := s.AddWork("next", func(ctx context.Context) (any, error) {
				return 1, nil
			})
			Eventually(next.C(), 2*time.Second).Should(Receive())
		})
	})

	Describe("Cancel work", func() {
		It("should cancel work via future.Stop()", func() {
			s = scheduler.NewScheduler(1)

			cancelled := make(chan bool, 1)
			future := s.AddWork("slow", func(ctx context.Context) (any, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			})
			time.Sleep(100 * time.Millisecond)
			future.Stop()

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})

		It("should cancel work when scheduler is closed", func() {
			s = scheduler.NewScheduler(1)

			cancelled := make(chan bool, 1)
			s.AddWork("slow", func(ctx context.Context) (any, error) {
				select {
				case <-ctx.Done():
					cancelled <- true
					return nil, ctx.Err()
				case <-time.After(5 * time.Second):
					return "completed", nil
				}
			})
			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(cancelled, 2*time.Second).Should(Receive(BeTrue()))
		})
	})

	Describe("Goroutine cleanup", func() {
		It("should not leak goroutines after Close under load", func() {
			base := runtime.NumGoroutine()
			s = scheduler.NewScheduler(4)

			for i := 0; i < 200; i++ {
				s.AddWork("wait", func(ctx context.Context) (any, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				})
			}

			time.Sleep(100 * time.Millisecond)
			s.Close()
			s = nil // prevent AfterEach from closing again

			Eventually(func() int {
				return runtime.NumGoroutine()
			}, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})

	Describe("Close behavior", func() {
		It("should return canceled when AddWork is called after Close", func() {
			s = scheduler.NewScheduler(1)
			s.Close()

			future := s.AddWork("late", func(ctx context.Context) (any, error) {
				return "done", nil
			})

			var result scheduler.Result[any]
			Eventually(future.C(), 1*time.Second).Should(Receive(&result))
			Expect(result.Err).To(MatchError(context.Canceled))
		})

		// Given one worker blocked until cancellation and a queued request
		// When the scheduler is closed
		// Then the queued request never runs and its future holds context.Canceled
		It("should fail queued work on Close", func() {
			for i := 0; i < 50; i++ {
				// Arrange
				sched := scheduler.NewScheduler(1)

				started := make(chan struct{})
				sched.AddWork("blocking", func(ctx context.Context) (any, error) {
					close(started)
					<-ctx.Done()
					return nil, ctx.Err()
				})
				Eventually(started, 1*time.Second).Should(BeClosed())

				var ran atomic.Bool
				queued := sched.AddWork("queued", func(ctx context.Context) (any, error) {
					ran.Store(true)
					return "never", nil
				})

				// Act
				sched.Close()

				// Assert
				var result scheduler.Result[any]
				Eventually(queued.C(), 1*time.Second).Should(Receive(&result))
				Expect(result.Err).To(MatchError(context.Canceled))
				Expect(ran.Load()).To(BeFalse())
			}
		})

		It("should wait for in-flight work to finish on Close", func() {
			s = scheduler.NewScheduler(1)

			started := make(chan struct{})
			unblock := make(chan struct{})
			s.AddWork("blocking", func(ctx context.Context) (any, error) {
				close(started)
				<-unblock
				return "done", nil
			})
			Eventually(started, 1*time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				s.Close()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(closeDone, 1*time.Second).Should(BeClosed())
			s = nil // prevent AfterEach from closing again
		})
	})

	Describe("Gather", func() {
		It("should return data in submission order", func() {
			s = scheduler.NewScheduler(3)

			futures := []*scheduler.Future[scheduler.Result[any]]{}
			for i := range 3 {
				delay := time.Duration(3-i) * 10 * time.Millisecond
				futures = append(futures, s.AddWork("item", func(ctx context.Context) (any, error) {
					time.Sleep(delay)
					return i, nil
				}))
			}

			data, err := scheduler.Gather(context.Background(), futures...)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]any{0, 1, 2}))
		})

		It("should stop remaining work on the first error", func() {
			s = scheduler.NewScheduler(2)

			stopped := make(chan struct{})
			failing := s.AddWork("failing", func(ctx context.Context) (any, error) {
				return nil, errors.New("upload failed")
			})
			slow := s.AddWork("slow", func(ctx context.Context) (any, error) {
				<-ctx.Done()
				close(stopped)
				return nil, ctx.Err()
			})

			_, err := scheduler.Gather(context.Background(), failing, slow)
			Expect(err).To(MatchError("upload failed"))
			Eventually(stopped, 1*time.Second).Should(BeClosed())
		})

		It("should return when the context is cancelled", func() {
			s = scheduler.NewScheduler(1)

			ctx, cancel := context.WithCancel(context.Background())
			f := s.AddWork("wait", func(ctx context.Context) (any, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})
			cancel()

			_, err := scheduler.Gather(ctx, f)
			Expect(err).To(MatchError(context.Canceled))
		})
	})
})
