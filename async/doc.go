// Package async provides the two synchronization primitives the streaming
// swarm is built on:
//
//   - Future: a single-assignment slot. Set once, read many times; readers
//     block until the value (or error) is available.
//   - Queue: a multi-producer queue whose producers are either whole
//     channels spliced in (drained one at a time, first spliced first
//     emitted) or single pushed values, terminated by an explicit Close.
//     Every element is retained so any number of readers can replay the full
//     sequence independently.
package async
