package entity

import (
	"time"

	"gorm.io/datatypes"
)

// WidgetConfig is the fixed, write-only options blob for an embedded
// calculator widget. The service only pushes these out; nothing reads
// data back from the widgets.
type WidgetConfig struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Calculator  string         `gorm:"not null" json:"calculator"`
	ContainerID string         `gorm:"not null" json:"container_id"`
	Options     datatypes.JSON `gorm:"type:jsonb" json:"options"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (WidgetConfig) TableName() string {
	return "widget_configs"
}
