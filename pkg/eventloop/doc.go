// Package eventloop runs a page's callbacks on a single goroutine.
//
// Everything that touches a page's document (event handlers, fetch
// continuations, toast timers) is posted to one Loop and executed
// sequentially, so page state needs no locking. Timers are scheduled
// through a Clock: RealClock in production, ManualClock in tests, where
// Loop.Advance moves time forward deterministically.
//
//	loop := eventloop.New(eventloop.RealClock{})
//	go loop.Run(ctx)
//
//	loop.AfterFunc(3*time.Second, func() {
//	    // runs on the loop goroutine
//	})
package eventloop
