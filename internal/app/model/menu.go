package model

import (
	"time"
)

// Category メニューカテゴリー
type Category struct {
	ID           uint      `gorm:"primarykey" json:"id"`                 // カテゴリーID
	Name         string    `gorm:"not null" json:"name"`                 // カテゴリー名
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"` // 表示順
	IsDogMenu    bool      `gorm:"default:false" json:"is_dog_menu"`     // 犬用メニューかどうか
	CreatedAt    time.Time `json:"created_at"`                           // 作成日時
	UpdatedAt    time.Time `json:"updated_at"`                           // 更新日時

	MenuItems []MenuItem `gorm:"foreignKey:CategoryID" json:"menu_items,omitempty"` // 所属メニュー一覧
}

func (Category) TableName() string {
	return "categories"
}

// MenuItem メニューアイテム
type MenuItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`               // メニューID
	Name        string    `gorm:"not null" json:"name"`               // 品名
	Description string    `gorm:"type:text" json:"description,omitempty"` // 説明 (任意)
	Price       int       `gorm:"not null" json:"price"`              // 価格 (円、税抜)
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`  // 所属カテゴリーID
	IsAvailable bool      `gorm:"default:true" json:"is_available"`   // 提供可能かどうか
	IsDogItem   bool      `gorm:"default:false" json:"is_dog_item"`   // 犬用メニューかどうか
	ImageURL    string    `json:"image_url,omitempty"`                // 商品画像URL
	CreatedAt   time.Time `json:"created_at"`                         // 作成日時
	UpdatedAt   time.Time `json:"updated_at"`                         // 更新日時

	Category Category `gorm:"foreignKey:CategoryID" json:"-"` // 所属カテゴリー情報
}

func (MenuItem) TableName() string {
	return "menu_items"
}
