package models

import "time"

// Session: one inventory-count episode (legacy table Groupe_stock).
// valide is monotonic: 0 (open) -> 1 (validated), never back.
type Session struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Depot        string    `gorm:"column:depot;size:100" json:"depot"`
	GroupArticle string    `gorm:"column:group_article;size:100" json:"group_article"`
	Date         time.Time `gorm:"column:date" json:"date"`
	IDChef       string    `gorm:"column:id_chef;size:50" json:"id_chef"`
	Valide       int       `gorm:"column:valide;not null;default:0" json:"valide"`
	IDControl    *string   `gorm:"column:id_control;size:50" json:"id_control"`
}

func (Session) TableName() string { return "Groupe_stock" }

const (
	SessionOpen      = 0
	SessionValidated = 1
)
