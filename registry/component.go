package registry

import (
	"kairos"
)

var (
	sinkMap     = map[string]kairos.NewSinkFunc{}
	sourceMap   = map[string]kairos.NewSourceFunc{}
	operatorMap = map[string]kairos.NewOperatorFunc{}
)

func RegisterNewSinkFunc(_type string, sinkFunc kairos.NewSinkFunc) {
	sinkMap[_type] = sinkFunc
}

func RegisterNewSourceFunc(_type string, sourceFunc kairos.NewSourceFunc) {
	sourceMap[_type] = sourceFunc
}

func RegisterNewOperatorFunc(_type string, operatorFunc kairos.NewOperatorFunc) {
	operatorMap[_type] = operatorFunc
}

func NewSourceFunc(_type string) kairos.NewSourceFunc {
	return sourceMap[_type]
}

func NewOperatorFunc(_type string) kairos.NewOperatorFunc {
	return operatorMap[_type]
}

func NewSinkFunc(_type string) kairos.NewSinkFunc {
	return sinkMap[_type]
}

func ListSourceDef() map[string]kairos.PropertyDef {
	sourceDefMap := map[string]kairos.PropertyDef{}
	for name, sourceFunc := range sourceMap {
		sourceDefMap[name] = sourceFunc().PropertyDef()
	}
	return sourceDefMap
}

func ListOperatorDef() map[string]kairos.PropertyDef {
	operatorDefMap := map[string]kairos.PropertyDef{}
	for name, operatorFunc := range operatorMap {
		operatorDefMap[name] = operatorFunc().PropertyDef()
	}
	return operatorDefMap
}

func ListSinkDef() map[string]kairos.PropertyDef {
	sinkDefMap := map[string]kairos.PropertyDef{}
	for name, sinkFunc := range sinkMap {
		sinkDefMap[name] = sinkFunc().PropertyDef()
	}
	return sinkDefMap
}
