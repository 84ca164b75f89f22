package component

import (
	"kairos/component/operator/aggregate"
	"kairos/component/operator/sample"
	"kairos/component/sink/echo"
	"kairos/component/sink/httppost"
	"kairos/component/source/kafka"
	"kairos/component/source/memory"
	"kairos/component/source/random"
	"kairos/component/source/spooldir"
	"kairos/registry"
)

func registrySource() {
	registry.RegisterNewSourceFunc("memory", memory.New)
	registry.RegisterNewSourceFunc("kafka", kafka.New)
	registry.RegisterNewSourceFunc("random", random.New)
	registry.RegisterNewSourceFunc("spooldir", spooldir.New)
}

func registryOperator() {
	registry.RegisterNewOperatorFunc("aggregate", aggregate.New)
	registry.RegisterNewOperatorFunc("sample", sample.New)
}

func registrySink() {
	registry.RegisterNewSinkFunc("echo", echo.New)
	registry.RegisterNewSinkFunc("http-post", httppost.New)
}

func init() {
	registrySource()
	registryOperator()
	registrySink()
}
