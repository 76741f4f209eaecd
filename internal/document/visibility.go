package document

import (
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
)

// Requester is the identity context visibility is resolved against.
type Requester struct {
	ID         int64
	Role       user.Role
	Department user.Department
}

// Clause is one OR-branch of a visibility filter. TargetDepartment and
// TargetEmployee constrain the match only when set.
type Clause struct {
	Audience         Audience
	TargetDepartment user.Department
	TargetEmployee   int64
}

// Filter is the declarative predicate selecting the documents a requester may
// see. Either unrestricted, or a logical OR of clauses. Deterministic and
// order-independent.
type Filter struct {
	Unrestricted bool
	Clauses      []Clause
}

// ResolveFilter maps a requester to its visibility filter. Pure; role
// matching is case-insensitive.
func ResolveFilter(req Requester) Filter {
	switch req.Role.Normalized() {
	case "superadmin":
		return Filter{Unrestricted: true}

	case "dean":
		return Filter{Clauses: []Clause{
			{Audience: AudienceAll},
			{Audience: AudienceDean},
			{Audience: AudienceDepartment, TargetDepartment: req.Department},
			{Audience: AudienceDepartmentHead, TargetDepartment: req.Department},
		}}

	case "departmenthead":
		return Filter{Clauses: []Clause{
			{Audience: AudienceAll},
			{Audience: AudienceDepartment, TargetDepartment: req.Department},
			{Audience: AudienceDepartmentHead, TargetDepartment: req.Department},
			{Audience: AudienceEmployee, TargetEmployee: req.ID},
		}}

	default:
		// every other role sees what a plain employee sees
		return Filter{Clauses: []Clause{
			{Audience: AudienceAll},
			{Audience: AudienceDepartment, TargetDepartment: req.Department},
			{Audience: AudienceEmployee, TargetEmployee: req.ID},
		}}
	}
}

// Matches evaluates the clause against a document in memory.
func (c Clause) Matches(d *Document) bool {
	if d.Audience != c.Audience {
		return false
	}
	if c.TargetDepartment != "" && d.TargetDepartment != c.TargetDepartment {
		return false
	}
	if c.TargetEmployee != 0 {
		if d.TargetEmployee == nil || *d.TargetEmployee != c.TargetEmployee {
			return false
		}
	}
	return true
}

// Matches reports whether the document is visible under the filter.
func (f Filter) Matches(d *Document) bool {
	if f.Unrestricted {
		return true
	}
	for _, c := range f.Clauses {
		if c.Matches(d) {
			return true
		}
	}
	return false
}
