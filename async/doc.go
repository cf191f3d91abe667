// Package async drives foreign asynchronous tasks.
//
// A foreign call that starts long-running work hands back a task object.
// Operation wraps that object and is parameterized by the error taxonomy E
// of the call that started it:
//
//	op := async.Adopt[SnapshotError](raw)
//	defer op.Release()
//
//	if err := op.Wait(30 * time.Second); err != nil {
//	    var failed *async.Error[async.WaitError, SnapshotError]
//	    switch {
//	    case errors.Is(err, async.ErrTimeout):
//	        // abandoned; cancellation was requested
//	    case errors.As(err, &failed):
//	        log.Println(failed.Underlying().Kind())
//	    }
//	}
//
// # Two Readings of One Code
//
// The control methods Wait, QueryStatus and Cancel report a single status
// code. That code may describe a failure of the control method itself or a
// failure of the operation that started the task. Error keeps the raw code
// and offers both readings through Mechanism and Underlying.
//
// # Timeouts
//
// The foreign wait returns success both when the task finished and when the
// wait budget ran out. Wait therefore re-checks the status and, when the
// task is still pending after an explicit timeout, requests cancellation and
// returns an error matching ErrTimeout. Treat a timed-out operation as
// abandoned: its side effects may or may not have happened.
//
// # Taxonomies
//
// WaitError, QueryStatusError and CancelError are generated from
// errors.md by cmd/comerrgen.
package async
