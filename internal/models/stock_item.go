package models

import "time"

// StockItem: one counted line within a session (legacy table Stock_item).
// qte_globale is the expected quantity fixed at import time; qte_physique is
// the counted quantity, starting at 0. ordre carries the import order of the
// line within its session so listings are stable.
type StockItem struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	IDGroupStock uint      `gorm:"column:id_group_stock;index;not null" json:"id_group_stock"`
	IDArticle    string    `gorm:"column:id_article;size:50;index" json:"id_article"`
	QteGlobale   float64   `gorm:"column:qte_globale;not null" json:"qte_globale"`
	QtePhysique  float64   `gorm:"column:qte_physique;not null;default:0" json:"qte_physique"`
	Ordre        int       `gorm:"column:ordre;not null" json:"ordre"`
	Date         time.Time `gorm:"column:date" json:"date"`
	IDControl    *string   `gorm:"column:id_control;size:50" json:"id_control"`
	QtePerimePh  float64   `gorm:"column:qte_perime_ph" json:"qte_perime_ph"`
	QtePerimeNr  float64   `gorm:"column:qte_perime_nr" json:"qte_perime_nr"`
	Description  *string   `gorm:"column:description;size:255" json:"description,omitempty"`
}

func (StockItem) TableName() string { return "Stock_item" }
