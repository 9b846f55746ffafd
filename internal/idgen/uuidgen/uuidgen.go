package uuidgen

import "github.com/google/uuid"

// Generator hands out random request ids.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) NewID() string {
	return uuid.NewString()
}
