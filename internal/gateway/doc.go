// Package gateway orchestrates the exchange client, the pair cache, and the
// database store behind the service's operations. Handlers call the gateway
// and never touch an upstream directly.
package gateway
