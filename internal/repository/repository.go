package repository

import "gorm.io/gorm"

// Repository aggregates all repositories.
type Repository struct {
	Employee EmployeeRepository
	Shift    ShiftRepository
	Punch    PunchRepository
	Anomaly  AnomalyRepository
}

// NewRepository creates the repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee: NewEmployeeRepo(db),
		Shift:    NewShiftRepo(db),
		Punch:    NewPunchRepo(db),
		Anomaly:  NewAnomalyRepo(db),
	}
}
