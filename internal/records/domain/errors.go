package domain

import (
	"errors"
	"fmt"
)

// Sentinelles pour errors.Is
var (
	ErrFormat           = errors.New("format error")
	ErrJoinKeyCollision = errors.New("join key collision")
	ErrNoSnapshot       = errors.New("no snapshot loaded")
)

// FormatError signale un champ obligatoire absent ou une valeur numérique
// impossible à convertir lors du chargement. Fatal pour le chargement.
type FormatError struct {
	Table  TableName
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s line %d: %s", e.Table, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s line %d, column %q (%q): %s", e.Table, e.Line, e.Column, e.Value, e.Reason)
}

// Is rend la FormatError compatible avec ErrFormat
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// JoinKeyCollisionError signale deux lignes pour le même couple (location, date)
type JoinKeyCollisionError struct {
	Table TableName
	Key   Key
}

func (e *JoinKeyCollisionError) Error() string {
	return fmt.Sprintf("%s: duplicate row for %s", e.Table, e.Key)
}

// Is rend l'erreur compatible avec ErrJoinKeyCollision
func (e *JoinKeyCollisionError) Is(target error) bool {
	return target == ErrJoinKeyCollision
}
