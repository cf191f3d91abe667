package async

import (
	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

// Task is the method surface of a foreign asynchronous task.
//
// QueryStatus returns the task status code in status and the outcome of
// the query itself in hr.
type Task interface {
	Wait(milliseconds uint32) hresult.HRESULT
	QueryStatus() (status hresult.HRESULT, hr hresult.HRESULT)
	Cancel() hresult.HRESULT
}

// ITask is the task capability.
var ITask = com.Define[Task]("IVssAsync", guid.MustParse("{507C37B4-CF5B-4E95-B0AF-14EB9767467E}"))

// Status is the state a task reports.
type Status uint8

const (
	Pending Status = iota + 1
	Finished
	Canceled
)

// StatusFromCode maps a status code returned by QueryStatus.
func StatusFromCode(hr hresult.HRESULT) (Status, bool) {
	switch hr {
	case hresult.VSS_S_ASYNC_PENDING:
		return Pending, true
	case hresult.VSS_S_ASYNC_FINISHED:
		return Finished, true
	case hresult.VSS_S_ASYNC_CANCELLED:
		return Canceled, true
	}
	return 0, false
}

// Code returns the status code for s.
func (s Status) Code() hresult.HRESULT {
	switch s {
	case Pending:
		return hresult.VSS_S_ASYNC_PENDING
	case Finished:
		return hresult.VSS_S_ASYNC_FINISHED
	case Canceled:
		return hresult.VSS_S_ASYNC_CANCELLED
	}
	return hresult.E_UNEXPECTED
}

// Terminal reports whether s can no longer change.
func (s Status) Terminal() bool {
	return s == Finished || s == Canceled
}

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Finished:
		return "finished"
	case Canceled:
		return "canceled"
	}
	return "unknown"
}
