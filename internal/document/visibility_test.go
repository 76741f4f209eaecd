package document_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/abhay-gupta-199/kmrl-backend/internal/document"
	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
)

func targeted(aud document.Audience, dept user.Department, employee int64) *document.Document {
	d := &document.Document{
		Audience:         aud,
		TargetDepartment: dept,
	}
	if employee != 0 {
		d.TargetEmployee = &employee
	}
	return d
}

var _ = Describe("ResolveFilter", func() {
	Describe("SuperAdmin", func() {
		It("should see everything regardless of targeting", func() {
			filter := document.ResolveFilter(document.Requester{
				ID:         1,
				Role:       user.RoleSuperAdmin,
				Department: user.DepartmentAdministration,
			})

			Expect(filter.Unrestricted).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceEmployee, "", 999))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceDean, "", 0))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceDepartment, user.DepartmentFinance, 0))).To(BeTrue())
		})
	})

	Describe("Dean", func() {
		var filter document.Filter

		BeforeEach(func() {
			filter = document.ResolveFilter(document.Requester{
				ID:         10,
				Role:       user.RoleDean,
				Department: user.DepartmentEngineering,
			})
		})

		It("should see all-audience and dean-audience documents", func() {
			Expect(filter.Matches(targeted(document.AudienceAll, "", 0))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceDean, "", 0))).To(BeTrue())
		})

		It("should see department documents only for the own department", func() {
			Expect(filter.Matches(targeted(document.AudienceDepartment, user.DepartmentEngineering, 0))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceDepartment, user.DepartmentFinance, 0))).To(BeFalse())
		})

		It("should see departmentHead documents only for the own department", func() {
			Expect(filter.Matches(targeted(document.AudienceDepartmentHead, user.DepartmentEngineering, 0))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceDepartmentHead, user.DepartmentHR, 0))).To(BeFalse())
		})

		It("should not see employee-targeted documents", func() {
			Expect(filter.Matches(targeted(document.AudienceEmployee, "", 10))).To(BeFalse())
		})
	})

	Describe("DepartmentHead", func() {
		var filter document.Filter

		BeforeEach(func() {
			filter = document.ResolveFilter(document.Requester{
				ID:         20,
				Role:       user.RoleDepartmentHead,
				Department: user.DepartmentFinance,
			})
		})

		It("should see all-audience documents", func() {
			Expect(filter.Matches(targeted(document.AudienceAll, "", 0))).To(BeTrue())
		})

		It("should see department and departmentHead documents for the own department", func() {
			Expect(filter.Matches(targeted(document.AudienceDepartment, user.DepartmentFinance, 0))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceDepartmentHead, user.DepartmentFinance, 0))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceDepartment, user.DepartmentEngineering, 0))).To(BeFalse())
			Expect(filter.Matches(targeted(document.AudienceDepartmentHead, user.DepartmentEngineering, 0))).To(BeFalse())
		})

		It("should see employee documents addressed to themselves only", func() {
			Expect(filter.Matches(targeted(document.AudienceEmployee, "", 20))).To(BeTrue())
			Expect(filter.Matches(targeted(document.AudienceEmployee, "", 21))).To(BeFalse())
		})

		It("should not see dean-audience documents", func() {
			Expect(filter.Matches(targeted(document.AudienceDean, "", 0))).To(BeFalse())
		})
	})

	Describe("everyone else", func() {
		It("should give Employee, Admin and unknown roles the same visibility", func() {
			for _, role := range []user.Role{user.RoleEmployee, user.RoleAdmin, user.Role("Intern")} {
				filter := document.ResolveFilter(document.Requester{
					ID:         30,
					Role:       role,
					Department: user.DepartmentOperations,
				})

				Expect(filter.Unrestricted).To(BeFalse())
				Expect(filter.Matches(targeted(document.AudienceAll, "", 0))).To(BeTrue())
				Expect(filter.Matches(targeted(document.AudienceDepartment, user.DepartmentOperations, 0))).To(BeTrue())
				Expect(filter.Matches(targeted(document.AudienceDepartment, user.DepartmentHR, 0))).To(BeFalse())
				Expect(filter.Matches(targeted(document.AudienceEmployee, "", 30))).To(BeTrue())
				Expect(filter.Matches(targeted(document.AudienceEmployee, "", 31))).To(BeFalse())
				Expect(filter.Matches(targeted(document.AudienceDean, "", 0))).To(BeFalse())
				Expect(filter.Matches(targeted(document.AudienceDepartmentHead, user.DepartmentOperations, 0))).To(BeFalse())
			}
		})
	})

	Describe("role matching", func() {
		It("should resolve roles case-insensitively", func() {
			filter := document.ResolveFilter(document.Requester{
				ID:   40,
				Role: user.Role("dEaN"),
			})
			Expect(filter.Matches(targeted(document.AudienceDean, "", 0))).To(BeTrue())

			filter = document.ResolveFilter(document.Requester{
				ID:   41,
				Role: user.Role("SUPERADMIN"),
			})
			Expect(filter.Unrestricted).To(BeTrue())
		})
	})
})

var _ = Describe("ParseAudience", func() {
	It("should canonicalize case-insensitive values", func() {
		aud, ok := document.ParseAudience("DepartmentHead")
		Expect(ok).To(BeTrue())
		Expect(aud).To(Equal(document.AudienceDepartmentHead))

		aud, ok = document.ParseAudience(" ALL ")
		Expect(ok).To(BeTrue())
		Expect(aud).To(Equal(document.AudienceAll))
	})

	It("should reject unknown audiences", func() {
		_, ok := document.ParseAudience("everyone")
		Expect(ok).To(BeFalse())
	})
})
