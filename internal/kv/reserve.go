package kv

// Reserve implements the environment's zero-copy write primitive:
// instead of handing the caller a `Put(key, value []byte)` that forces
// them to fully serialize a value before the call, Reserve hands back
// an appropriately-sized buffer the caller serializes directly into.
//
// bbolt has no native reservation API (unlike the mmap'd cursor puts
// the original LMDB-backed design assumed), so this layer emulates it:
// Reserve allocates the buffer immediately and defers the actual bucket
// Put until the transaction commits, via Tx.flushReservations (see
// tx.go). The buffer is safe for the caller to write into at any point
// between the Reserve call and Update returning, since bbolt's writer
// lock guarantees no concurrent writer observes it early.
//
// Reservations only make sense inside a writable transaction; a
// read-only Tx returns an error immediately rather than handing back a
// buffer nothing will ever persist.
