// Package types defines the ledger entities, the association reference type,
// pagination, configuration, the executor interfaces consumed by the
// repository layer, and the standard errors.
package types
