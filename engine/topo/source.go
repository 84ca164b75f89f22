package topo

import (
	"kairos"
)

type SourceTaskOption func(task *SourceTask)

type SourceTask struct {
	*ComponentTask
	ctx kairos.Context

	source            kairos.Source
	emitNextGenerator EmitNextGenerator
}

func (s *SourceTask) Starter() error {
	if err := s.source.Open(s.ctx); err != nil {
		return err
	}
	return s.source.Collect(s.emitNextGenerator())
}

func (s *SourceTask) Stopper() error {
	return s.source.Close()
}

func NewSourceBox(ctx kairos.Context, name string, source kairos.Source, emitNextGenerator EmitNextGenerator, options ...SourceTaskOption) *SourceTask {
	sourceBox := &SourceTask{source: source,
		ComponentTask: &ComponentTask{
			name:      name,
			component: source,
			ctx:       ctx,
		},
		ctx:               ctx,
		emitNextGenerator: emitNextGenerator,
	}
	sourceBox.starter = sourceBox.Starter
	sourceBox.stopper = sourceBox.Stopper
	for _, option := range options {
		option(sourceBox)
	}
	return sourceBox
}

var _ Task = &SourceTask{}
