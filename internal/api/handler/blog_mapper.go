package handler

import (
	"github.com/blogplatform/blog-api/internal/core/domain"
)

// --- Request → Domain ---

func toCategory(req categoryRequest) *domain.Category {
	return &domain.Category{Name: req.Name, Description: req.Description}
}

func toPost(req postRequest) *domain.Post {
	return &domain.Post{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
	}
}

func toComment(req commentRequest) *domain.Comment {
	return &domain.Comment{Name: req.Name, Email: req.Email, Body: req.Body}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

func toTokenResponse(t *domain.AccessToken) tokenResponse {
	return tokenResponse{AccessToken: t.Token, TokenType: t.TokenType, ExpiresAt: t.ExpiresAt}
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryResponses(cs []*domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toPostResponse(p *domain.Post) postResponse {
	resp := postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if len(p.Comments) > 0 {
		resp.Comments = toCommentResponses(p.Comments)
	}
	return resp
}

func toPostResponses(ps []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toPostPageResponse(page *domain.Page[*domain.Post]) postPageResponse {
	return postPageResponse{
		Content:       toPostResponses(page.Content),
		PageNo:        page.PageNo,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Last:          page.Last,
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Name:      c.Name,
		Email:     c.Email,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentResponses(cs []*domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCommentResponse(c))
	}
	return out
}
