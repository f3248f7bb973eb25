package ports

import "github.com/aretw0/cascade/pkg/domain"

// ChangeAlgebra computes the next value of a target attribute from its
// current value and a declared change. A false result means "emit nothing"
// and is never an error.
type ChangeAlgebra interface {
	Compute(current domain.Attribute, change domain.Change, session *domain.Session) (domain.Attribute, bool)
}

// AlgebraFunc adapts a plain function to ChangeAlgebra.
type AlgebraFunc func(current domain.Attribute, change domain.Change, session *domain.Session) (domain.Attribute, bool)

// Compute implements ChangeAlgebra.
func (f AlgebraFunc) Compute(current domain.Attribute, change domain.Change, session *domain.Session) (domain.Attribute, bool) {
	return f(current, change, session)
}
