package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wippyai/comsafe/async"
	"github.com/wippyai/comsafe/com"
	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/foreign"
	"github.com/wippyai/comsafe/guid"
	"github.com/wippyai/comsafe/hresult"
)

// Document is the method surface of the demo object.
type Document interface {
	Title() string
}

// SignedDocument extends Document.
type SignedDocument interface {
	Document
	Signer() string
}

var (
	IDocument       = com.Define[Document]("IDocument", guid.MustParse("{9B0E6C52-4F1A-4C8B-8E3D-5A7F2C1D0B01}"))
	ISignedDocument = com.Derive[SignedDocument](IDocument, "ISignedDocument", guid.MustParse("{9B0E6C52-4F1A-4C8B-8E3D-5A7F2C1D0B02}"))
)

type document struct {
	*foreign.Object
	title string
}

func (d document) Title() string { return d.title }

type signedDocument struct {
	document
}

func (d signedDocument) Signer() string { return "comview" }

// steps lists every action a session understands, in menu order.
var steps = []struct {
	name string
	help string
}{
	{"adopt", "create an object and adopt its IDocument pointer"},
	{"clone", "clone the newest document handle"},
	{"release", "release the newest document handle"},
	{"query", "query ISignedDocument from the newest document"},
	{"upcast", "view the newest signed document as IDocument"},
	{"drop-signed", "release the newest signed handle"},
	{"start-task", "start a task that finishes on its own"},
	{"start-stuck", "start a task that never finishes"},
	{"wait", "wait for the newest task"},
	{"poll", "query the newest task status"},
	{"cancel", "cancel the newest task"},
	{"stats", "show host counters"},
}

// session holds a foreign host and the handles a user has taken from it.
type session struct {
	host    *foreign.Host
	mu      sync.Mutex
	docs    []*com.Ref[Document]
	signed  []*com.Ref[SignedDocument]
	ops     []*async.Operation[hresult.HRESULT]
	taskDur time.Duration
	waitFor time.Duration
	objects int
	tasks   int
}

func newSession(taskDur, waitFor time.Duration) *session {
	return &session{
		host:    foreign.NewHost(),
		taskDur: taskDur,
		waitFor: waitFor,
	}
}

// run executes a comma separated list of steps and returns one line per
// step. It stops at the first failing step.
func (s *session) run(script string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, name := range strings.Split(script, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		line, err := s.step(name)
		if err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, name+": "+line)
	}
	return out, nil
}

// step performs one action. Contract breaks raised by the handle layer
// come back as errors so an inspector can keep going.
func (s *session) step(name string) (line string, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*errors.Error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()

	switch name {
	case "adopt":
		s.objects++
		obj := s.host.NewObject(fmt.Sprintf("report-%d", s.objects))
		doc := document{Object: obj, title: fmt.Sprintf("Quarterly report #%d", s.objects)}
		obj.Implement(IDocument.IID(), doc)
		obj.Implement(ISignedDocument.IID(), signedDocument{doc})
		raw, _ := obj.Surface(IDocument.IID())
		ref := com.Adopt(IDocument, raw)
		s.docs = append(s.docs, ref)
		return ref.String(), nil

	case "clone":
		ref, err := s.lastDoc()
		if err != nil {
			return "", err
		}
		c := ref.Clone()
		s.docs = append(s.docs, c)
		return c.String(), nil

	case "release":
		ref, err := s.lastDoc()
		if err != nil {
			return "", err
		}
		ref.Release()
		s.docs = s.docs[:len(s.docs)-1]
		return ref.String(), nil

	case "query":
		ref, err := s.lastDoc()
		if err != nil {
			return "", err
		}
		signed, ok := com.Query(ref, ISignedDocument)
		if !ok {
			return "E_NOINTERFACE", nil
		}
		s.signed = append(s.signed, signed)
		return fmt.Sprintf("%s signed by %s", signed, signed.Get().Signer()), nil

	case "upcast":
		if len(s.signed) == 0 {
			return "", fmt.Errorf("no signed document, run query first")
		}
		v := com.As(s.signed[len(s.signed)-1], IDocument)
		return fmt.Sprintf("%s: %q", v.Capability().Name(), v.Get().Title()), nil

	case "drop-signed":
		if len(s.signed) == 0 {
			return "", fmt.Errorf("no signed document")
		}
		ref := s.signed[len(s.signed)-1]
		ref.Release()
		s.signed = s.signed[:len(s.signed)-1]
		return ref.String(), nil

	case "start-task", "start-stuck":
		s.tasks++
		opts := foreign.TaskOptions{Duration: s.taskDur}
		if name == "start-stuck" {
			opts = foreign.TaskOptions{Uncancelable: true}
		}
		task := s.host.NewTask(fmt.Sprintf("task-%d", s.tasks), opts)
		op := async.Adopt[hresult.HRESULT](task)
		s.ops = append(s.ops, op)
		return op.String(), nil

	case "wait":
		op, err := s.lastOp()
		if err != nil {
			return "", err
		}
		if err := op.Wait(s.waitFor); err != nil {
			return "", err
		}
		status, err := op.Poll()
		if err != nil {
			return "", err
		}
		return status.String(), nil

	case "poll":
		op, err := s.lastOp()
		if err != nil {
			return "", err
		}
		status, err := op.Poll()
		if err != nil {
			return "", err
		}
		return status.String(), nil

	case "cancel":
		op, err := s.lastOp()
		if err != nil {
			return "", err
		}
		if err := op.Cancel(); err != nil {
			return "", err
		}
		return "cancel requested", nil

	case "stats":
		return s.stats(), nil
	}
	return "", errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown step %q", name))
}

func (s *session) lastDoc() (*com.Ref[Document], error) {
	if len(s.docs) == 0 {
		return nil, fmt.Errorf("no document handle, run adopt first")
	}
	return s.docs[len(s.docs)-1], nil
}

func (s *session) lastOp() (*async.Operation[hresult.HRESULT], error) {
	if len(s.ops) == 0 {
		return nil, fmt.Errorf("no task, run start-task first")
	}
	return s.ops[len(s.ops)-1], nil
}

func (s *session) stats() string {
	st := s.host.Stats()
	return fmt.Sprintf("objects=%d live=%d add-refs=%d releases=%d queries=%d violations=%d",
		st.Objects, st.Live, st.AddRefs, st.Releases, st.Queries, st.Violations)
}

// handles describes every handle the session still owns.
func (s *session) handles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, r := range s.docs {
		out = append(out, r.String())
	}
	for _, r := range s.signed {
		out = append(out, r.String())
	}
	for _, op := range s.ops {
		out = append(out, op.String())
	}
	return out
}

// close releases every handle still held and shuts the host down.
func (s *session) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.signed {
		r.Release()
	}
	for _, r := range s.docs {
		r.Release()
	}
	for _, op := range s.ops {
		op.Release()
	}
	s.docs, s.signed, s.ops = nil, nil, nil
	return s.host.Close()
}
