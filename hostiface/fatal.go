package hostiface

import "fmt"

// FatalError is the panic value HI host functions raise for the "runtime
// fatal" class of failure: write in a read-only context, memory out
// of bounds, unbalanced enter/exit brackets. wazero surfaces the panic as
// the call's error, which propagates out of every open call bracket the
// way a Wasm trap would.
type FatalError struct {
	Op  string
	Msg string
}

func (e *FatalError) Error() string { return fmt.Sprintf("%s: %s", e.Op, e.Msg) }

func fatal(op, msg string) { panic(&FatalError{Op: op, Msg: msg}) }
