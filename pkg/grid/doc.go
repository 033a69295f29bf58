// Package grid computes parametric column and row grids for a canvas.
//
// Given a canvas size and grid parameters (pillar count, gutter, margins) it
// solves for the missing dimension, reconciles margins that do not fit, and
// walks an ordered stack of fallback corrections when the requested layout
// is infeasible. A "pillar" is either a column or a row; the row axis is
// computed on a transposed state so every calculator is written once.
//
// The package is pure: calculators take a CalcState by value and return the
// transformed state together with their results. Diagnostics are values of
// type GridCalcError and never panic.
package grid
