package pricing

import "go.uber.org/fx"

// Module provides the quote engine with the default multiplier tables.
var Module = fx.Provide(func() *Engine {
	return NewEngine(DefaultTables())
})
