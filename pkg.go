// Package queenio is a low-level I/O readiness notification library.
//
// It exposes the operating system's readiness polling facility (epoll on
// Linux, kqueue on the BSDs) behind a portable Poll type. File descriptors
// are registered against a Poll with a Token, an interest set and
// edge/level trigger options; Poll.Wait fills a reusable Events buffer
// with whatever became ready.
//
// Subpackages build on this core: non-blocking TCP and Unix sockets (net),
// a pollable cross-goroutine message channel (channel), pollable and
// blocking queues (queue), LRU and TTL caches (cache), and a small
// dispatch loop (evloop).
package queenio
