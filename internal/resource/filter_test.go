package resource_test

import (
	"encoding/json"

	"github.com/frahmantamala/resource-management/internal/resource"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func names(resources []resource.Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Name
	}
	return out
}

var _ = Describe("Filter", func() {
	var (
		resources   []resource.Resource
		allocations []resource.Allocation
	)

	BeforeEach(func() {
		resources = []resource.Resource{
			{ID: 1, Name: "Ada", Email: "ada@example.com", Department: "Engineering", Role: "Change Lead", WeeklyCapacity: 40, Skills: resource.Skills{"Java", "SQL"}, IsActive: true},
			{ID: 2, Name: "Ben", Email: "ben@example.com", Department: "Finance", Role: "Business Controller", WeeklyCapacity: 40, Skills: resource.Skills{"Excel"}, IsActive: true},
			{ID: 3, Name: "Cy", Email: "cy@example.com", Department: "Engineering", Role: "Developer", WeeklyCapacity: 20, Skills: resource.Skills{"Python"}, IsActive: true},
			{ID: 4, Name: "Di", Email: "di@example.com", Department: "Engineering", Role: "Developer", Skills: resource.Skills{"Go"}, IsActive: false},
		}
		allocations = []resource.Allocation{
			{ID: 1, ResourceID: 1, AllocatedHours: "20"},
			{ID: 2, ResourceID: 1, AllocatedHours: "12"},
			{ID: 3, ResourceID: 3, AllocatedHours: "25"},
			{ID: 4, ResourceID: 4, AllocatedHours: "abc"},
		}
	})

	Describe("utilization", func() {
		It("should sum allocations and ignore unparsable hours", func() {
			Expect(resource.AllocatedHours(1, allocations)).To(Equal(32.0))
			Expect(resource.AllocatedHours(4, allocations)).To(Equal(0.0))
		})

		It("should fall back to the default capacity", func() {
			Expect(resources[3].Capacity()).To(Equal(resource.DefaultWeeklyCapacity))
			Expect(resource.Utilization(resources[0], 32)).To(Equal(80.0))
			Expect(resource.Utilization(resources[2], 25)).To(Equal(125.0))
		})
	})

	Describe("Apply", func() {
		It("should return everything for the zero filter, in order", func() {
			f := resource.Filter{Department: "all", Status: "ALL"}
			Expect(f.IsZero()).To(BeTrue())
			Expect(names(resource.Apply(resources, allocations, f))).To(Equal([]string{"Ada", "Ben", "Cy", "Di"}))
		})

		It("should search name, email, role and department case-insensitively", func() {
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Search: "BEN@"}))).To(Equal([]string{"Ben"}))
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Search: "engineer"}))).To(Equal([]string{"Ada", "Cy", "Di"}))
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Search: "controller"}))).To(Equal([]string{"Ben"}))
		})

		It("should match department and role exactly", func() {
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Department: "engineering", Role: "Developer"}))).To(Equal([]string{"Cy", "Di"}))
			Expect(resource.Apply(resources, allocations, resource.Filter{Role: "Develop"})).To(BeEmpty())
		})

		It("should treat exactly 80 percent as near capacity", func() {
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Status: resource.StatusNearCapacity}))).To(Equal([]string{"Ada"}))
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Capacity: resource.Capacity80To100}))).To(Equal([]string{"Ada"}))
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Capacity: resource.Capacity50To80}))).To(BeEmpty())
		})

		It("should place exactly 50 and exactly 100 percent in the lower buckets", func() {
			edge := []resource.Resource{
				{ID: 10, Name: "Half", WeeklyCapacity: 40, IsActive: true},
				{ID: 11, Name: "Full", WeeklyCapacity: 40, IsActive: true},
			}
			hours := []resource.Allocation{
				{ID: 10, ResourceID: 10, AllocatedHours: "20"},
				{ID: 11, ResourceID: 11, AllocatedHours: "40"},
			}
			apply := func(f resource.Filter) []string { return names(resource.Apply(edge, hours, f)) }

			Expect(apply(resource.Filter{Capacity: resource.Capacity50To80})).To(Equal([]string{"Half"}))
			Expect(apply(resource.Filter{Capacity: resource.CapacityUnder50})).To(BeEmpty())
			Expect(apply(resource.Filter{Status: resource.StatusAvailable})).To(Equal([]string{"Half"}))

			Expect(apply(resource.Filter{Status: resource.StatusNearCapacity})).To(Equal([]string{"Full"}))
			Expect(apply(resource.Filter{Capacity: resource.Capacity80To100})).To(Equal([]string{"Full"}))
			Expect(apply(resource.Filter{Status: resource.StatusOverallocated})).To(BeEmpty())
			Expect(apply(resource.Filter{Capacity: resource.CapacityOver100})).To(BeEmpty())
		})

		It("should only consider active resources for status filters", func() {
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Status: resource.StatusUnassigned}))).To(Equal([]string{"Ben"}))
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Status: resource.StatusAvailable}))).To(Equal([]string{"Ben"}))
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Status: resource.StatusOverallocated}))).To(Equal([]string{"Cy"}))
		})

		It("should bucket utilization for the capacity filter", func() {
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Capacity: resource.CapacityUnder50}))).To(Equal([]string{"Ben", "Di"}))
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Capacity: resource.CapacityOver100}))).To(Equal([]string{"Cy"}))
		})

		It("should require every skill term", func() {
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Skill: "java sql"}))).To(Equal([]string{"Ada"}))
			Expect(resource.Apply(resources, allocations, resource.Filter{Skill: "java python"})).To(BeEmpty())
			Expect(names(resource.Apply(resources, allocations, resource.Filter{Skill: "PYTH"}))).To(Equal([]string{"Cy"}))
		})

		It("should combine criteria", func() {
			f := resource.Filter{Department: "Engineering", Status: resource.StatusOverallocated, Skill: "python"}
			Expect(names(resource.Apply(resources, allocations, f))).To(Equal([]string{"Cy"}))
		})
	})

	Describe("Validate", func() {
		It("should reject unknown status and capacity values", func() {
			Expect(resource.Filter{Status: "busy"}.Validate()).To(HaveOccurred())
			Expect(resource.Filter{Capacity: "0-10"}.Validate()).To(HaveOccurred())
			Expect(resource.Filter{Status: "Near-Capacity", Capacity: "80-100"}.Validate()).To(Succeed())
		})
	})
})

var _ = Describe("Skills", func() {
	It("should decode a comma separated string", func() {
		var r resource.Resource
		Expect(json.Unmarshal([]byte(`{"id":1,"skills":"Java, SQL ,, Go"}`), &r)).To(Succeed())
		Expect(r.Skills).To(Equal(resource.Skills{"Java", "SQL", "Go"}))
	})

	It("should decode a list", func() {
		var r resource.Resource
		Expect(json.Unmarshal([]byte(`{"id":1,"skills":["Java"," SQL",""]}`), &r)).To(Succeed())
		Expect(r.Skills).To(Equal(resource.Skills{"Java", "SQL"}))
	})

	It("should decode null as empty and encode nil as a list", func() {
		var r resource.Resource
		Expect(json.Unmarshal([]byte(`{"skills":null}`), &r)).To(Succeed())
		Expect(r.Skills).To(BeEmpty())

		data, err := json.Marshal(resource.Resource{})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"skills":[]`))
	})

	It("should reject other shapes", func() {
		var r resource.Resource
		Expect(json.Unmarshal([]byte(`{"skills":42}`), &r)).NotTo(Succeed())
	})
})

var _ = Describe("Facets", func() {
	It("should lead the role facet with the baseline roles", func() {
		resources := []resource.Resource{
			{Role: "Developer"},
			{Role: "Change Lead"},
			{Role: " Analyst "},
			{Role: ""},
			{Role: "Developer"},
		}
		Expect(resource.RoleOptions(resources)).To(Equal([]string{
			"Change Lead", "Manager Change", "Business Controller", "Developer", "Analyst",
		}))
	})

	It("should not repeat a role that differs only in case", func() {
		resources := []resource.Resource{
			{Role: "change lead"},
			{Role: "Developer"},
			{Role: "DEVELOPER"},
		}
		Expect(resource.RoleOptions(resources)).To(Equal([]string{
			"Change Lead", "Manager Change", "Business Controller", "Developer",
		}))
	})

	It("should list distinct skills and departments sorted", func() {
		resources := []resource.Resource{
			{Department: "Finance", Skills: resource.Skills{"SQL", "Java"}},
			{Department: "Engineering", Skills: resource.Skills{"Java"}},
			{Department: ""},
		}
		Expect(resource.SkillOptions(resources)).To(Equal([]string{"Java", "SQL"}))
		Expect(resource.DepartmentOptions(resources)).To(Equal([]string{"Engineering", "Finance"}))
	})
})
