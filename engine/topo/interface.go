package topo

import (
	"kairos"
)

type Task interface {
	kairos.Stateful
	Name() string
	Start()
	Stop()
	//Dead is closed once the task's work loop returned, a finite
	//source signals end-of-stream this way.
	Dead() <-chan struct{}
}

type NonRootTask interface {
	Task
	kairos.EmitTarget
}

type EmitNextGenerator func() kairos.EmitNext
