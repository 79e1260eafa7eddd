package domain

import "strings"

// Department es un valor de la taxonomia cerrada de especialidades.
type Department string

const (
	DepartmentCardiology       Department = "Cardiology"
	DepartmentDermatology      Department = "Dermatology"
	DepartmentNeurology        Department = "Neurology"
	DepartmentGeneralMedicine  Department = "General Medicine"
	DepartmentGastroenterology Department = "Gastroenterology"
	DepartmentOrthopedics      Department = "Orthopedics"
	DepartmentOphthalmology    Department = "Ophthalmology"
)

// El orden de declaracion importa: la extraccion devuelve la primera coincidencia.
var taxonomy = [...]Department{
	DepartmentCardiology,
	DepartmentDermatology,
	DepartmentNeurology,
	DepartmentGeneralMedicine,
	DepartmentGastroenterology,
	DepartmentOrthopedics,
	DepartmentOphthalmology,
}

// Departments devuelve la taxonomia en orden de declaracion. El slice es una copia.
func Departments() []Department {
	out := make([]Department, len(taxonomy))
	copy(out, taxonomy[:])
	return out
}

// ParseDepartment resuelve un nombre a su valor de taxonomia, sin distinguir
// mayusculas ni espacios alrededor.
func ParseDepartment(name string) (Department, bool) {
	name = strings.TrimSpace(name)
	for _, d := range taxonomy {
		if strings.EqualFold(string(d), name) {
			return d, true
		}
	}
	return "", false
}

func (d Department) String() string {
	return string(d)
}
