// Package site assembles the immutable site snapshot.
//
// Loader runs the load stages in a fixed order (config, output, fonts, themes,
// favicons, assets, pages, routes); the favicon and asset stages share the
// output directory and must never run concurrently. The resulting Snapshot is
// never mutated, so any number of goroutines may read it without locking.
// Holder publishes the current snapshot through an atomic pointer.
package site
