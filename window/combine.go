package window

//Accumulate is the accumulator half of a combine operation, everything
//the Store needs to build per (key, window) state.
type Accumulate[ACC any] interface {
	//CreateAccumulator returns the identity accumulator.
	CreateAccumulator() ACC
	//AddInput incorporates one value. For order insensitive reducers
	//the order of adds must not change the extracted result.
	AddInput(acc ACC, value float64) ACC
	//MergeAccumulators combines partial accumulators from parallel
	//execution. merge([a]) == a and merge is commutative.
	MergeAccumulators(accs []ACC) ACC
}

//CombineFn is the pluggable reduce contract fired once per
//(key, window): create / add / merge / extract.
type CombineFn[ACC, OUT any] interface {
	Accumulate[ACC]
	//ExtractOutput is a pure projection of the accumulator to the
	//output value, it must not mutate the accumulator.
	ExtractOutput(acc ACC) OUT
}
