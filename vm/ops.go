package vm

import (
	"fmt"
	"math/big"
)

// OpCode is the operation part of an instruction.
type OpCode uint16

// The lower 3 bits of an opcode tell the kind of argument.
const (
	OpArgNone OpCode = 0
	OpArgI    OpCode = 1 // int argument, e.g. a variable slot
	OpArgR    OpCode = 2 // rational argument
)

const (
	OpNop OpCode = 0

	Const OpCode = (1 << 3) + OpArgR // CONST ⟪rat⟫ : push a rational constant
	Load  OpCode = (2 << 3) + OpArgI // LOAD ⟪slot⟫ : push the value of a variable

	Add OpCode = 3 << 3 // pop b, pop a, push a+b
	Sub OpCode = 4 << 3 // pop b, pop a, push a-b
	Mul OpCode = 5 << 3 // pop b, pop a, push a*b
	Div OpCode = 6 << 3 // pop b, pop a, push a/b
	Pow OpCode = 7 << 3 // pop b, pop a, push a**b
	Neg OpCode = 8 << 3 // pop a, push -a
	Abs OpCode = 9 << 3 // pop a, push |a|

	// comparisons pop b, pop a and set the flag register

	Lt OpCode = 16 << 3
	Le OpCode = 17 << 3
	Gt OpCode = 18 << 3
	Ge OpCode = 19 << 3
	Eq OpCode = 20 << 3
	Ne OpCode = 21 << 3
)

var opnames = map[OpCode]string{
	OpNop: "NOP", Const: "CONST", Load: "LOAD",
	Add: "ADD", Sub: "SUB", Mul: "MUL", Div: "DIV", Pow: "POW", Neg: "NEG", Abs: "ABS",
	Lt: "LT", Le: "LE", Gt: "GT", Ge: "GE", Eq: "EQ", Ne: "NE",
}

func (code OpCode) String() string {
	if n, ok := opnames[code]; ok {
		return n
	}
	return fmt.Sprintf("OP(%02x)", uint16(code))
}

// IsComparison is a predicate: does code set the flag register?
func (code OpCode) IsComparison() bool {
	return code >= Lt && code <= Ne
}

// Op is a single instruction.
type Op struct {
	opcode OpCode
	arg    interface{}
}

// Code returns the opcode of an instruction.
func (op Op) Code() OpCode {
	return op.opcode
}

func (op Op) String() string {
	switch op.opcode & 0x07 {
	case OpArgI:
		return fmt.Sprintf("%s %d", op.opcode, op.arg.(int))
	case OpArgR:
		return fmt.Sprintf("%s %s", op.opcode, op.arg.(*big.Rat).RatString())
	}
	return op.opcode.String()
}

// RegisterSet holds the decoded argument of the current instruction and the
// result of the last comparison.
type RegisterSet struct {
	I    int
	R    *big.Rat
	Flag bool
}

// DecodeArg loads the argument of op into the registers.
func (rset *RegisterSet) DecodeArg(op Op) {
	switch op.opcode & 0x07 {
	case OpArgI:
		rset.I = op.arg.(int)
	case OpArgR:
		rset.R = op.arg.(*big.Rat)
	}
}
