// Package scheduler runs blob uploads and other short jobs on a bounded
// number of goroutines and hands back a Future per job.
//
// Provisioning pushes one object per source file and packaging pushes the
// eight package documents. Both go through the same Scheduler so that
// agent.num-workers caps the number of concurrent requests against the
// storage backend.
//
// # Layout
//
//	       AddWork("upload Manifest.xml", fn)
//	                    │
//	                    ▼
//	┌──────────────────────────────────────────┐
//	│ run() event loop                         │
//	│                                          │
//	│   submit ──► pending (FIFO) ──► dispatch │
//	│                                    │     │
//	│   released ◄── worker done ◄───────┤     │
//	│                                    │     │
//	│   closing ──► fail pending, wait   │     │
//	└────────────────────────────────────┼─────┘
//	                                     ▼
//	                        execute(request) goroutine
//	                        sends Result{Data, Err}
//	                        on the future's channel
//
// The loop owns idle and pending, nothing else touches them. idle starts at
// the worker count, dispatch decrements it for every started request and a
// message on released gives the slot back. released has one slot per
// worker so a finishing goroutine never blocks on a stopped loop.
//
// # Futures
//
// AddWork returns at once. The future's channel receives exactly one Result.
// Stop cancels the context handed to the work function, it does not remove
// queued work: a stopped request still runs, with an already cancelled
// context.
//
//	f := sched.AddWork("download Manifest.xml", func(ctx context.Context) (any, error) {
//	    return container.Download(ctx, "Manifest.xml")
//	})
//	r := <-f.C()
//
// # Gather
//
// Gather waits for a batch in submission order. The first error, or ctx
// being done, stops every future of the batch and is returned as is:
//
//	futures := make([]*scheduler.Future[scheduler.Result[any]], 0, len(pkg.Blobs))
//	for _, b := range pkg.Blobs {
//	    futures = append(futures, sched.AddWork("upload "+b.Name, func(ctx context.Context) (any, error) {
//	        return nil, container.Upload(ctx, b.Name, b.Contents)
//	    }))
//	}
//	_, err := scheduler.Gather(ctx, futures...)
//
// # Panics and shutdown
//
// A panicking work function is logged and reported as an error on its
// future; the worker slot is released in both cases.
//
// Close cancels the scheduler context, fails every queued request with
// context.Canceled, waits for running work and returns. A worker slot freed
// after the cancellation never picks up queued work. It is safe to call
// more than once. AddWork after Close returns a future already holding
// context.Canceled.
package scheduler
