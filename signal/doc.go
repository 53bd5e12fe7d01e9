// Package signal holds the pre-recorded multi-channel signal a strip chart
// plays back.
//
// A [Store] is an ordered set of named channels that share one sample rate
// and one length. It is immutable after construction: [NewStore] copies the
// caller's samples, and the loaders hand ownership of freshly decoded
// buffers to the store.
//
// Stores come from three places:
//   - [NewStore] for samples already in memory
//   - [Decode] / [LoadFile] for the JSON recording format {"data": {"I": [...], ...}}
//   - [Synthesize] for a deterministic ECG-like demo signal
package signal
