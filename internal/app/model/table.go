package model

import (
	"time"
)

// Table テーブル別の未会計累計金額
// 1テーブルにつき1行。会計完了時に CumulativeAmount を 0 に戻す。
type Table struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                    // 行ID
	TableNumber      string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"table_number"` // テーブル番号
	CumulativeAmount int       `gorm:"not null;default:0" json:"cumulative_amount"`             // 未会計累計金額 (円)
	CreatedAt        time.Time `json:"created_at"`                                              // 作成日時
	UpdatedAt        time.Time `json:"updated_at"`                                              // 更新日時
}

func (Table) TableName() string {
	return "tables"
}
