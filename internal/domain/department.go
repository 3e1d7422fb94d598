package domain

// Department identifies the municipal unit that owns an issue.
type Department string

const (
	DepartmentPublicWorks     Department = "Public Works"
	DepartmentSanitation      Department = "Sanitation"
	DepartmentStreetLighting  Department = "Street Lighting"
	DepartmentWaterSupply     Department = "Water Supply"
	DepartmentGeneralServices Department = "General Services"
)

var departmentByCategory = map[IssueCategory]Department{
	CategoryPothole:           DepartmentPublicWorks,
	CategoryGarbageOverflow:   DepartmentSanitation,
	CategoryStreetlightOutage: DepartmentStreetLighting,
	CategoryWaterLeakage:      DepartmentWaterSupply,
	CategoryOther:             DepartmentGeneralServices,
}

// RouteDepartment maps a report category to its owning department. Total over
// any input: unknown categories fall back to General Services.
func RouteDepartment(category IssueCategory) Department {
	if dept, ok := departmentByCategory[category]; ok {
		return dept
	}
	return DepartmentGeneralServices
}

// ValidDepartment reports whether the value belongs to the department enumeration.
func ValidDepartment(dept Department) bool {
	switch dept {
	case DepartmentPublicWorks, DepartmentSanitation, DepartmentStreetLighting,
		DepartmentWaterSupply, DepartmentGeneralServices:
		return true
	}
	return false
}
