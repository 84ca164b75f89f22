package sample

import (
	"sync/atomic"

	"kairos"
	"kairos/properties"
	"kairos/record"
)

var (
	RateProperty = properties.NewProperty[uint64]("rate", "", 10)
)

//operator passes 1 in rate records through, for thinning high rate
//sources before aggregation.
type operator struct {
	ctx kairos.Context

	rate     uint64
	ops      uint64
	emitNext kairos.EmitNext
}

func (o *operator) Open(ctx kairos.Context) error {
	o.ctx = ctx
	o.rate = ctx.Properties().GetUint64(RateProperty.Name())

	return nil
}

func (o *operator) Close() error {
	return nil
}

func (o *operator) PropertyDef() kairos.PropertyDef {
	return kairos.PropertyDef{RateProperty}
}

func (o *operator) Collect(emitNext kairos.EmitNext) error {
	o.emitNext = emitNext
	<-o.ctx.Done()
	return nil
}

func (o *operator) Emit(ptr record.Ptr) {
	if atomic.AddUint64(&o.ops, 1) == o.rate {
		atomic.AddUint64(&o.ops, -o.rate)
		o.emitNext(ptr)
	}
}

func New() kairos.Operator {
	return &operator{}
}
