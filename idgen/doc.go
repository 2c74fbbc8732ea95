// Package idgen provides the identifiers hqueue assigns to queues and wire
// connections: a Snowflake generator for monotonic, collision-free queue
// ids that stay unique even across a manager restart, and google/uuid for
// the human-correlatable debug tag ManagerDispatcher.Serve attaches to a
// control connection's open/close log lines and to any panic it recovers
// on that connection.
//
// Snowflake usage:
//
//	gen, err := idgen.NewSnowflake(workerID)
//	id := gen.Generate()
//
// UUID usage:
//
//	tag := idgen.UUID()
package idgen
