// Package graphfile loads expression graphs written in HCL.
//
// A graph file declares named leaves and named values built from them:
//
//	leaf "a" { value = 2 }
//	leaf "b" { value = -3 }
//	leaf "d" { value = 1 }
//
//	value "c" { expr = a + b }
//	value "e" { expr = d + 2 }
//	value "L" { expr = c * e }
//
//	output = "L"
//
// Value expressions use HCL native syntax restricted to arithmetic: names of
// leaves and values (in any declaration order), numeric literals (lifted to
// constant leaves), the operators + - * / and unary -, parentheses, and the
// functions exp, tanh, relu, neg and pow.
//
// Parse and Load produce a Definition; Compile turns it into nodes of an
// autodiff arena, optionally binding some leaves to existing handles.
package graphfile
