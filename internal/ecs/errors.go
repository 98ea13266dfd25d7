package ecs

import "github.com/rotisserie/eris"

var (
	// ErrNotRegistered is returned when a component type is used before Register.
	ErrNotRegistered = eris.New("component type not registered")
	// ErrBorrowConflict is returned when a view would alias a writer.
	ErrBorrowConflict = eris.New("component storage already borrowed")
	// ErrEntityNotAlive is returned for stale or never-committed entities.
	ErrEntityNotAlive = eris.New("entity is not alive")
)
