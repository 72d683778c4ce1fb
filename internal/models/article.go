package models

// Article: master catalog row (legacy schema, one table per branch database).
// New codes arriving through a count import are registered here on the fly.
type Article struct {
	CodeArticle  string  `gorm:"column:code_article;primaryKey;size:50" json:"code_article"`
	Article      string  `gorm:"column:article;size:255" json:"article"`
	Groupe       string  `gorm:"column:groupe;size:100" json:"groupe"`
	Famille      string  `gorm:"column:famille;size:100" json:"famille"`
	SoussFamille string  `gorm:"column:souss_famille;size:100" json:"souss_famille"`
	Qrcode       *string `gorm:"column:Qrcode;size:255" json:"Qrcode,omitempty"`
	Prix         float64 `gorm:"column:Prix" json:"Prix"`
}

func (Article) TableName() string { return "Article" }
