package vm

import (
	"math/big"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// RatStack is an operand stack of rationals.
type RatStack struct {
	stack *arraystack.Stack
}

// NewRatStack creates an empty stack.
func NewRatStack() *RatStack {
	return &RatStack{stack: arraystack.New()}
}

// Push puts r on top of the stack.
func (s *RatStack) Push(r *big.Rat) {
	s.stack.Push(r)
}

// Pop removes and returns the top of the stack, or nil if empty.
func (s *RatStack) Pop() *big.Rat {
	r, ok := s.stack.Pop()
	if !ok {
		return nil
	}
	return r.(*big.Rat)
}

// Top returns the top of the stack without removing it, or nil if empty.
func (s *RatStack) Top() *big.Rat {
	r, ok := s.stack.Peek()
	if !ok {
		return nil
	}
	return r.(*big.Rat)
}

// Size returns the number of values on the stack.
func (s *RatStack) Size() int {
	return s.stack.Size()
}
