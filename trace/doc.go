// Package trace records the exchanges between a host and a card slot.
//
// A Recorder wraps any ntrcard.Platform and keeps one Exchange per
// command, reset, delay and KEY2 seed. The resulting Trace can be encoded
// as CBOR and kept in an Archive, a bbolt file keyed by session id, for
// offline analysis of handshake desyncs.
//
//	rec := trace.NewRecorder(slot)
//	card := ntrcard.New(rec, keys)
//	...
//	err := archive.Save(rec.Trace())
package trace
