package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-gin-blog/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

// Save 无 ID 时 insert（ID 由数据库回填），否则整行 update
func (r *PostRepo) Save(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PostRepo) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.PostNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) FindAllDesc(ctx context.Context) ([]domain.Post, error) {
	var ps []domain.Post
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *PostRepo) Delete(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Delete(p).Error
}

func (r *PostRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Post{}).Error
}

func (r *PostRepo) Transaction(ctx context.Context, fn func(domain.PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostRepo{db: tx})
	})
}
