package rt

import (
	"strings"
	"testing"
)

func TestOpcodeString(t *testing.T) {
	for op := Opcode(0); op <= OpcodeMax; op++ {
		if opcodeNames[op] == "" {
			t.Errorf("missing string representation of opcode %d", op)
		}
		if s := op.String(); strings.Contains(s, "Unknown") {
			t.Errorf("invalid string representation of opcode %d", op)
		}
	}
}

func TestOpcodeStringOutOfRange(t *testing.T) {
	if s := Opcode(255).String(); s != "Unknown" {
		t.Errorf("want Unknown for out-of-range opcode, got %q", s)
	}
}
