package models

// Depot: warehouse reference table, selection UI only.
type Depot struct {
	Nom string `gorm:"column:nom;primaryKey;size:100" json:"nom"`
}

func (Depot) TableName() string { return "depot" }

// Groupe: article-group reference table. Column is capital-N Nom in the
// legacy schema.
type Groupe struct {
	Nom string `gorm:"column:Nom;primaryKey;size:100" json:"Nom"`
}

func (Groupe) TableName() string { return "Groupe" }
