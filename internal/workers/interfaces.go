// Package workers provides abstractions for managing background workers
// on the client side. It defines the Worker interface, a Workers aggregate
// that runs multiple workers in a unified way, and the sync worker that
// drives the periodic offline-queue synchronization job.
package workers

// Worker is the interface implemented by any background worker. Run starts
// the worker; implementations are expected to spawn goroutines internally
// and stop when Stop is called.
type Worker interface {
	Run()
	Stop()
}
