package kterm

import "log"

// Logger is the minimal logging capability the terminal needs: the two
// diagnostics tilck's init_term emits via printk when scrollback or
// tab-map allocation "fails" (SPEC_FULL.md §B). Any *log.Logger satisfies
// this, which is the default.
type Logger interface {
	Printf(format string, args ...any)
}

var _ Logger = (*log.Logger)(nil)

var stdlog = log.Default()
