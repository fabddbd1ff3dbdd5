package repository

import (
	"time"

	"github.com/nimasrn/ledger-api/internal/model"
)

type TemplateEntity struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Content   string    `gorm:"column:content;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (TemplateEntity) TableName() string {
	return "templates"
}

func toTemplateModel(e *TemplateEntity) *model.Template {
	if e == nil {
		return nil
	}
	return &model.Template{
		ID:        e.ID,
		Name:      e.Name,
		Content:   e.Content,
		UpdatedAt: e.UpdatedAt,
	}
}
