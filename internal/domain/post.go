package domain

import "context"

type Post struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title   string `gorm:"size:500;not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	Author  string `gorm:"size:255" json:"author"`
	BaseTimeEntity
}

func (Post) TableName() string { return "posts" }

// Update 只修改传入的字段，nil 表示保持原值
func (p *Post) Update(title, content *string) {
	if title != nil {
		p.Title = *title
	}
	if content != nil {
		p.Content = *content
	}
}

type PostRepository interface {
	Save(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id int64) (*Post, error)
	FindAllDesc(ctx context.Context) ([]Post, error)
	Delete(ctx context.Context, p *Post) error
	DeleteAll(ctx context.Context) error
	// Transaction 在同一个事务内执行 fn，fn 返回错误则回滚
	Transaction(ctx context.Context, fn func(r PostRepository) error) error
}
