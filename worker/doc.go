// Package worker runs the caller side of a signed transaction:
// it asks the wallet owner to sign, waits for the answer and submits the result.
package worker
