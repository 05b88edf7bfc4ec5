package service

import (
	"time"

	"go-gin-blog/internal/domain"
)

type PostSaveRequest struct {
	Title   string `json:"title"   binding:"required,max=500"`
	Content string `json:"content" binding:"required"`
	Author  string `json:"author"  binding:"omitempty,max=255"`
}

func (r PostSaveRequest) ToEntity() *domain.Post {
	return &domain.Post{Title: r.Title, Content: r.Content, Author: r.Author}
}

// PostUpdateRequest 字段缺省表示不修改
type PostUpdateRequest struct {
	Title   *string `json:"title"   binding:"omitempty,max=500"`
	Content *string `json:"content"`
}

type PostResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

func NewPostResponse(p *domain.Post) *PostResponse {
	return &PostResponse{ID: p.ID, Title: p.Title, Content: p.Content, Author: p.Author}
}

type PostListResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	ModifiedDate time.Time `json:"modifiedDate"`
}

func NewPostListResponse(p *domain.Post) PostListResponse {
	return PostListResponse{ID: p.ID, Title: p.Title, Author: p.Author, ModifiedDate: p.ModifiedDate}
}
