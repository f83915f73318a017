package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"github.com/satriohq/blognest-api/internal/domain/entity"
	"github.com/satriohq/blognest-api/internal/domain/repository"
	"github.com/satriohq/blognest-api/pkg/apperror"
	"github.com/satriohq/blognest-api/pkg/helpers"
)

// GetProfile loads an account by id with credentials stripped.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return u.Sanitize(), nil
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Bio       string
}

// UpdateProfile applies the mutable profile fields. Credentials, role, and
// flags are not reachable from here.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	if in.FirstName != "" {
		u.FirstName = strings.TrimSpace(in.FirstName)
	}
	if in.LastName != "" {
		u.LastName = strings.TrimSpace(in.LastName)
	}
	if in.Bio != "" {
		u.Bio = strings.TrimSpace(in.Bio)
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.indexAuthor(ctx, u)
	return u.Sanitize(), nil
}

// UploadAvatar stores the image in GCS and records its public URL.
func (s *AuthService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", apperror.Internal("avatar storage not configured")
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperror.NotFound("user not found")
		}
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	s.indexAuthor(ctx, u)
	return url, nil
}

// SetBlocked blocks or unblocks an account (admin operation).
func (s *AuthService) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	if err := s.Repo.SetBlocked(ctx, userID, blocked); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	return nil
}

// SetRole assigns a role to an account (admin operation).
func (s *AuthService) SetRole(ctx context.Context, userID string, role entity.Role) error {
	if !role.Valid() {
		return apperror.Validation("invalid role")
	}
	if err := s.Repo.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}
	return nil
}

// indexAuthor mirrors public author fields into Elasticsearch, best-effort.
func (s *AuthService) indexAuthor(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESAuthorsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.FullName(),
		"bio":        u.Bio,
		"avatar_url": u.AvatarURL,
		"role":       u.Role,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESAuthorsIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("author index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("author index response error")
	}
}

// SearchAuthors performs a multi_match query over name, email, and bio.
func (s *AuthService) SearchAuthors(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESAuthorsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "email", "bio"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESAuthorsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
