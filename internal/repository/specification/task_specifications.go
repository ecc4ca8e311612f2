package specification

import "gorm.io/gorm"

// ByCompleted filters tasks by completion flag
type ByCompleted struct {
	Completed bool
}

func (s ByCompleted) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("completed = ?", s.Completed)
}
