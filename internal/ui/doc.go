// Package ui implements the terminal icon grid for foldergrid using Bubbletea.
//
// The grid is drawn on a Canvas that is only repainted inside the dirty
// regions reported by the controller. Terminal cells are the layout unit.
package ui
