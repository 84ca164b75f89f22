package topo

import (
	"kairos"
	"kairos/record"
)

type OperatorTaskOption func(task *OperatorTask)

type OperatorTask struct {
	*ComponentTask
	ctx      kairos.Context
	operator kairos.Operator

	emitNextGenerator EmitNextGenerator
}

func (o *OperatorTask) Emit(ptr record.Ptr) {
	o.operator.Emit(ptr)
}

func (o *OperatorTask) Starter() error {
	if err := o.operator.Open(o.ctx); err != nil {
		return err
	}

	return o.operator.Collect(o.emitNextGenerator())
}

func (o *OperatorTask) Stopper() error {
	return o.operator.Close()
}

func NewOperatorBox(ctx kairos.Context, name string, operator kairos.Operator, emitNextGenerator EmitNextGenerator, options ...OperatorTaskOption) *OperatorTask {
	operatorBox := &OperatorTask{
		ComponentTask:     &ComponentTask{ctx: ctx, name: name, component: operator},
		operator:          operator,
		ctx:               ctx,
		emitNextGenerator: emitNextGenerator,
	}
	operatorBox.starter = operatorBox.Starter
	operatorBox.stopper = operatorBox.Stopper
	for _, option := range options {
		option(operatorBox)
	}
	return operatorBox
}

var _ NonRootTask = &OperatorTask{}
