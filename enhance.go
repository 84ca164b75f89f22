package kairos

//Stateful components survive restarts: the engine snapshots them on
//stop and restores them on start.
type Stateful interface {
	//Snapshot will snapshot component state after close
	Snapshot() ([]byte, error)

	//Restore will restore component state after open
	Restore(snapshot []byte) error
}

//EmitConfigurator components wire their own downstream targets instead
//of the engine's outputs property.
type EmitConfigurator interface {
	Config(emitNextMap map[string]EmitNext) EmitNext
}
