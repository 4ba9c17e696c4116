package queenio

import "strings"

// Ready is a set of readiness states for a registered handle.
//
// Readable and writable are the two states callers express interest in.
// Error and hup are delivered by Poll.Wait regardless of interest when the
// operating system reports them.
type Ready int

const (
	// ReadyReadable means the handle can be read without blocking.
	ReadyReadable Ready = 1 << iota
	// ReadyWritable means the handle can be written without blocking.
	ReadyWritable
	// ReadyError means the handle has a pending error condition.
	ReadyError
	// ReadyHup means the peer closed its end, or shut down writing.
	ReadyHup
)

// ReadyEmpty is the empty readiness set.
const ReadyEmpty Ready = 0

func (r Ready) IsEmpty() bool    { return r == 0 }
func (r Ready) IsReadable() bool { return r&ReadyReadable != 0 }
func (r Ready) IsWritable() bool { return r&ReadyWritable != 0 }
func (r Ready) IsError() bool    { return r&ReadyError != 0 }
func (r Ready) IsHup() bool      { return r&ReadyHup != 0 }

// Insert returns r with all states in other added.
func (r Ready) Insert(other Ready) Ready { return r | other }

// Remove returns r with all states in other removed.
func (r Ready) Remove(other Ready) Ready { return r &^ other }

// Contains reports whether every state in other is present in r.
func (r Ready) Contains(other Ready) bool { return r&other == other }

func (r Ready) String() string {
	if r.IsEmpty() {
		return "(empty)"
	}
	var parts []string
	if r.IsReadable() {
		parts = append(parts, "Readable")
	}
	if r.IsWritable() {
		parts = append(parts, "Writable")
	}
	if r.IsError() {
		parts = append(parts, "Error")
	}
	if r.IsHup() {
		parts = append(parts, "Hup")
	}
	return strings.Join(parts, " | ")
}
