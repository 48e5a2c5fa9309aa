package domain

import "time"

// Link представляет сокращенную ссылку вместе со счетчиком переходов
type Link struct {
	ID          int64      `gorm:"primaryKey;column:id" json:"id"`
	Code        string     `gorm:"column:code;size:8;uniqueIndex;not null" json:"code"`
	TargetURL   string     `gorm:"column:target_url;type:text;not null" json:"target_url"`
	TotalClicks int64      `gorm:"column:total_clicks;not null;default:0" json:"total_clicks"`
	LastClicked *time.Time `gorm:"column:last_clicked" json:"last_clicked"` // null до первого перехода
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName возвращает название таблицы для GORM
func (Link) TableName() string {
	return "links"
}
