package models

// UnknownEmployeeName labels rows whose employee is missing from the directory.
const UnknownEmployeeName = "Unknown Employee"

// Employee is the directory view of a staff member.
type Employee struct {
	ID         string `db:"id" json:"id" yaml:"id"`
	Name       string `db:"name" json:"name" yaml:"name"`
	Department string `db:"department" json:"department" yaml:"department"`
}
