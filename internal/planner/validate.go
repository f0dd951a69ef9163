package planner

import "github.com/ethanolivertroy/modinstall/internal/models"

// supportedTypes lists the dependency types an installer exists for
var supportedTypes = map[models.DependencyType]bool{
	models.DependencyTypePackage: true,
}

// ValidateDependency reports whether dep is well formed: it has a name and
// a supported type, and every fact constraint is itself valid.
// It never fails; callers use it to filter or report bad entries.
func ValidateDependency(dep models.PackageDependency) bool {
	if dep.Name == "" || dep.Type == "" {
		return false
	}
	if !supportedTypes[dep.Type] {
		return false
	}
	for _, fc := range dep.Facts {
		if !ValidateFactConstraint(fc) {
			return false
		}
	}
	return true
}

// ValidateFactConstraint reports whether fc carries a name, a known
// operator and a value whose shape fits the operator: a list for in and
// not_in, a single string for equal and not_equal.
func ValidateFactConstraint(fc models.FactConstraint) bool {
	if fc.Name == "" || fc.Value == nil {
		return false
	}

	switch fc.Operator {
	case models.FactIn, models.FactNotIn:
		_, ok := fc.Value.([]string)
		return ok
	case models.FactEqual, models.FactNotEqual:
		_, ok := fc.Value.(string)
		return ok
	default:
		return false
	}
}
