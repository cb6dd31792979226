package rt

import (
	"errors"
	"fmt"

	"github.com/mna/tamarin/lang/token"
)

// Kind classifies a runtime error per spec.md §7's taxonomy.
type Kind int

const (
	KindTypeError Kind = iota
	KindArityError
	KindNameError
	KindTopLevelReturnError
)

func (k Kind) String() string {
	switch k {
	case KindTypeError:
		return "type error"
	case KindArityError:
		return "arity error"
	case KindNameError:
		return "name error"
	case KindTopLevelReturnError:
		return "top-level return type error"
	default:
		return "error"
	}
}

// RuntimeError is a VM error carrying the source span of the
// currently-dispatching instruction (spec.md §7).
type RuntimeError struct {
	Kind Kind
	Pos  token.Pos
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
}

func newRuntimeErr(kind Kind, pos token.Pos, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

var (
	errJumpOverflow    = errors.New("jump/loop offset overflow")
	errTooManyLiterals = errors.New("too many literals in chunk")
)
