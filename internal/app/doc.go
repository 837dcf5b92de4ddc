// Package app wires the graph loader, the differentiation engine, the
// renderer and the gradient checker into the gradgraph command.
package app
