// Package bus implements the cross-context request/response protocol: a
// closed set of typed message kinds, a dispatcher that routes each kind to
// its registered handler, and a worker pool that delegates CPU-heavy work
// through correlation-id tagged requests with a per-call timeout.
package bus
