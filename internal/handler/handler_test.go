package handler_test

// Shared fixtures for the handler tests: in-memory implementations of the
// store interfaces and a fully routed test server.  The fakes mirror the
// repository error semantics (sql.ErrNoRows for absence, the repository
// sentinels for duplicates and foreign ownership) so handlers are
// exercised against the same contract the MySQL repositories honor.

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/handler"
	"github.com/iliyamo/blog-platform/internal/model"
	"github.com/iliyamo/blog-platform/internal/repository"
	"github.com/iliyamo/blog-platform/internal/router"
	"github.com/iliyamo/blog-platform/internal/utils"
)

const testSecret = "handler-secret"

// ----- fake user store -----

type fakeUserStore struct {
	mu    sync.Mutex
	seq   uint64
	users map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]*model.User{}}
}

func (s *fakeUserStore) Create(ctx context.Context, name, email, password string, cost int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return nil, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	s.seq++
	u := &model.User{
		ID:           s.seq,
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Avatar:       model.DefaultAvatar,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) EmailTaken(ctx context.Context, email string, excludeID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.ID != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Update(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[u.ID]
	if !ok {
		return sql.ErrNoRows
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range s.users {
		if other.ID != u.ID && other.Email == email {
			return repository.ErrEmailExists
		}
	}
	stored.Name = strings.TrimSpace(u.Name)
	stored.Email = email
	stored.Avatar = u.Avatar
	stored.PasswordHash = u.PasswordHash
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

// ----- fake post store -----

type fakePostStore struct {
	mu    sync.Mutex
	seq   uint64
	posts []*model.Post
	users *fakeUserStore
}

func newFakePostStore(users *fakeUserStore) *fakePostStore {
	return &fakePostStore{users: users}
}

func (s *fakePostStore) fillAuthor(p *model.Post) {
	if u, ok := s.users.users[p.AuthorID]; ok {
		p.AuthorName = u.Name
		p.AuthorEmail = u.Email
	}
}

func (s *fakePostStore) Create(ctx context.Context, p *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.posts {
		if existing.Slug == p.Slug {
			return repository.ErrSlugExists
		}
	}
	s.seq++
	p.ID = s.seq
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	s.fillAuthor(p)
	cp := *p
	s.posts = append(s.posts, &cp)
	return nil
}

func (s *fakePostStore) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakePostStore) List(ctx context.Context, category string) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Post{}
	for i := len(s.posts) - 1; i >= 0; i-- { // newest first
		p := s.posts[i]
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakePostStore) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Post{}
	for i := len(s.posts) - 1; i >= 0; i-- {
		if p := s.posts[i]; p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakePostStore) UpdateBySlugAndAuthor(ctx context.Context, slug string, authorID uint64, in *model.Post) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.Slug != slug {
			continue
		}
		if p.AuthorID != authorID {
			return nil, repository.ErrForbidden
		}
		p.Title = in.Title
		p.Content = in.Content
		p.ImageURL = in.ImageURL
		p.Category = in.Category
		p.Tags = in.Tags
		p.UpdatedAt = time.Now().UTC()
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakePostStore) DeleteBySlugAndAuthor(ctx context.Context, slug string, authorID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.posts {
		if p.Slug != slug {
			continue
		}
		if p.AuthorID != authorID {
			return repository.ErrForbidden
		}
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		return nil
	}
	return sql.ErrNoRows
}

// ----- test server and request helpers -----

func newTestServer(t *testing.T) (*echo.Echo, *fakeUserStore, *fakePostStore) {
	t.Helper()
	cfg := config.Config{
		Env:          "test",
		JWTSecret:    testSecret,
		TokenTTLDays: 7,
		BcryptCost:   bcrypt.MinCost,
	}
	users := newFakeUserStore()
	posts := newFakePostStore(users)
	ph := handler.NewPostHandler(cfg, posts)
	ph.Publish = nil // no broker under test
	e := echo.New()
	router.Register(e, cfg, nil,
		handler.NewAuthHandler(cfg, users), ph, handler.NewProfileHandler(cfg, users))
	return e, users, posts
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return m
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "token" {
			return ck
		}
	}
	t.Fatalf("no token cookie in response")
	return nil
}

// registerUser creates an account through the API and returns its session
// cookie.
func registerUser(t *testing.T, e *echo.Echo, name, email, password string) *http.Cookie {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/auth/register",
		map[string]string{"name": name, "email": email, "password": password})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: code %d body %s", email, rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}

// createPost creates a post through the API and returns its slug.
func createPost(t *testing.T, e *echo.Echo, cookie *http.Cookie, title, content string) string {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/posts",
		map[string]any{"title": title, "content": content}, cookie)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post: code %d body %s", rec.Code, rec.Body.String())
	}
	post := decodeBody(t, rec)["post"].(map[string]any)
	return post["slug"].(string)
}
