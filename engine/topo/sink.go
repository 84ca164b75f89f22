package topo

import (
	"kairos"
	"kairos/record"
)

type SinkTaskOption func(task *SinkTask)

type SinkTask struct {
	*ComponentTask
	ctx  kairos.Context
	sink kairos.Sink
}

func (s *SinkTask) Emit(ptr record.Ptr) {
	s.sink.Emit(ptr)
}

func (s *SinkTask) Starter() error {
	if err := s.sink.Open(s.ctx); err != nil {
		return err
	}
	//sink does not block, so wait
	<-s.ComponentTask.ctx.Done()
	return nil
}

func (s *SinkTask) Stopper() error {
	return s.sink.Close()
}

func NewSinkBox(ctx kairos.Context, name string, sink kairos.Sink, options ...SinkTaskOption) *SinkTask {
	var sinkBoxWrapper = &SinkTask{
		sink: sink,
		ctx:  ctx,
		ComponentTask: &ComponentTask{
			name:      name,
			component: sink,
			ctx:       ctx,
		},
	}
	sinkBoxWrapper.starter = sinkBoxWrapper.Starter
	sinkBoxWrapper.stopper = sinkBoxWrapper.Stopper
	for _, option := range options {
		option(sinkBoxWrapper)
	}
	return sinkBoxWrapper
}

var _ NonRootTask = &SinkTask{}
