package core

import "gymcore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewDemoQuotaRule())
	engine.Register(NewClassCapacityRule())
	return engine
}
