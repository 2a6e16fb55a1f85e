package vm

import (
	"math/big"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
)

func rat(s string) *big.Rat {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		panic("bad rational " + s)
	}
	return r
}

func TestRunArithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.vm")
	defer teardown()
	//
	env := []*big.Rat{rat("4"), rat("-8")}
	for i, x := range []struct {
		prog   *Program
		result string
	}{
		{new(Program).EmitLoad(0).EmitConst(rat("1/2")).Emit(Add), "9/2"},
		{new(Program).EmitLoad(1).EmitLoad(0).Emit(Sub), "-12"},
		{new(Program).EmitLoad(0).EmitLoad(1).Emit(Mul).Emit(Neg), "32"},
		{new(Program).EmitLoad(1).Emit(Abs), "8"},
		{new(Program).EmitLoad(0).EmitConst(rat("3")).Emit(Div), "4/3"},
		{new(Program).EmitLoad(1).EmitConst(rat("2")).Emit(Pow), "64"},
		{new(Program).EmitLoad(0).EmitConst(rat("-1")).Emit(Pow), "1/4"},
		{new(Program).EmitLoad(0).EmitConst(rat("1/2")).Emit(Pow), "2"},
		{new(Program).EmitConst(rat("9/4")).EmitConst(rat("3/2")).Emit(Pow), "27/8"},
	} {
		r, err := x.prog.Run(env)
		if err != nil {
			t.Errorf("test %d: %s: unexpected error %v", i, x.prog, err)
			continue
		}
		if r.RatString() != x.result {
			t.Errorf("test %d: %s: expected %s, have %s", i, x.prog, x.result, r.RatString())
		}
	}
}

func TestRunFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.vm")
	defer teardown()
	//
	env := []*big.Rat{rat("0"), rat("2")}
	for i, x := range []struct {
		prog *Program
		err  error
	}{
		{new(Program).EmitLoad(1).EmitLoad(0).Emit(Div), ErrUndefined},
		{new(Program).EmitLoad(0).EmitConst(rat("-2")).Emit(Pow), ErrUndefined},
		{new(Program).EmitLoad(1).EmitConst(rat("1/2")).Emit(Pow), ErrInexact},
		{new(Program).EmitLoad(1).EmitConst(rat("1/3")).Emit(Pow), ErrInexact},
		{new(Program).EmitLoad(1).EmitConst(rat("100000")).Emit(Pow), ErrInexact},
		{new(Program), ErrNoProgramToExecute},
	} {
		_, err := x.prog.Run(env)
		if !errors.Is(err, x.err) {
			t.Errorf("test %d: %s: expected %v, have %v", i, x.prog, x.err, err)
		}
	}
	if _, err := new(Program).EmitLoad(3).Run(env); err == nil {
		t.Errorf("expected unbound slot to fail")
	}
	if _, err := new(Program).EmitLoad(0).Emit(Add).Run(env); err == nil {
		t.Errorf("expected stack underflow")
	}
}

func TestConditions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "bearsolve.vm")
	defer teardown()
	//
	env := []*big.Rat{rat("4")}
	for i, x := range []struct {
		code OpCode
		c    string
		flag bool
	}{
		{Le, "5", true}, {Le, "4", true}, {Lt, "4", false},
		{Gt, "3.9", true}, {Ge, "4.1", false},
		{Eq, "4", true}, {Ne, "4", false}, {Ne, "0", true},
	} {
		p := new(Program).EmitLoad(0).EmitConst(rat(x.c)).Emit(x.code)
		flag, err := p.Test(env)
		if err != nil {
			t.Errorf("test %d: %v", i, err)
			continue
		}
		if flag != x.flag {
			t.Errorf("test %d: %s: expected %v", i, p, x.flag)
		}
	}
	if _, err := new(Program).EmitLoad(0).Test(env); err == nil {
		t.Errorf("expected non-condition to be rejected by Test")
	}
}

func TestProgramString(t *testing.T) {
	p := new(Program).EmitLoad(0).EmitConst(rat("0.4")).Emit(Mul)
	if p.String() != "LOAD 0; CONST 2/5; MUL" {
		t.Errorf("unexpected listing %q", p.String())
	}
	if p.Len() != 3 || p.IsCondition() {
		t.Errorf("unexpected program properties")
	}
}
