// Copyright 2026 The veil Authors
// This file is part of the veil library.
//
// The veil library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The veil library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the veil library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"fmt"

	"github.com/veilchain/veil/params"
)

// Stack is the explicit LIFO of message frames driving execution. Using an
// owned stack instead of native recursion keeps nesting depth bounded and
// auditable regardless of goroutine stack limits.
type Stack struct {
	frames  []*Frame
	maxSize int
}

// NewStack returns an empty frame stack bounded by the protocol's maximum
// frame count.
func NewStack() *Stack {
	return &Stack{maxSize: params.MaxFrameStackSize}
}

// Push places a frame on top of the stack. Growing the stack past its bound
// is a programming error: the depth check in the message processors rejects
// over-deep frames before they are spawned.
func (s *Stack) Push(f *Frame) {
	if len(s.frames) >= s.maxSize {
		panic(fmt.Sprintf("frame stack exceeds %d frames", s.maxSize))
	}
	s.frames = append(s.frames, f)
}

// Pop removes and returns the top frame, or nil when empty.
func (s *Stack) Pop() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Peek returns the top frame without removing it, or nil when empty.
func (s *Stack) Peek() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Empty reports whether the stack holds no frames.
func (s *Stack) Empty() bool {
	return len(s.frames) == 0
}

// Len returns the number of frames on the stack.
func (s *Stack) Len() int {
	return len(s.frames)
}
