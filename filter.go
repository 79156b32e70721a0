package kterm

// WriteDisposition tells the terminal whether to emit the caller's byte
// after a filter has run, mirroring tilck's TERM_FILTER_FUNC_RET_WRITE_C /
// TERM_FILTER_FUNC_RET_BLANK.
type WriteDisposition int

const (
	// WriteChar emits the (possibly mutated) character and color.
	WriteChar WriteDisposition = iota
	// Blank suppresses emission of the caller's byte. The filter may
	// already have called innerWrite itself zero or more times.
	Blank
)

// InnerWriteFunc lets a filter emit bytes directly into the write
// pipeline, bypassing the filter itself (so a filter never recurses into
// its own interception).
type InnerWriteFunc func(ch byte, color uint8)

// FilterFunc is the per-byte intercept contract (spec.md §6). It may
// rewrite ch and color in place, call innerWrite any number of times to
// emit side-effect bytes or enqueue further actions, and returns whether
// the caller's own byte should still be written. This is the layering
// point an escape-sequence interpreter (see package escfilter) attaches
// at, without the core ever parsing escape grammar itself (§1 Non-goals).
type FilterFunc func(ch *byte, color *uint8, innerWrite InnerWriteFunc, ctx any) WriteDisposition
