// Package buffer provides the bounded sample ring that sits between a
// real-time chunk source and the streaming analyzers.
//
// A [Ring] keeps the most recent K fixed-size chunks in a single
// preallocated backing store and tracks absolute sample time, so callers can
// hand a time-stamped copy of the retained audio to an analyzer on every
// cycle:
//
//	ring, _ := buffer.NewRing(buffer.DefaultChunkSize, buffer.ChunksForWindow(2048, buffer.DefaultChunkSize))
//	_ = ring.Push(chunk)
//	start, samples := ring.Snapshot()
//
// Pushing never blocks; once the ring is full the oldest chunk is evicted.
// A Ring is not safe for concurrent use.
package buffer
