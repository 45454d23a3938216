package handler_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestCreatePostRequiresAuth(t *testing.T) {
	e, _, _ := newTestServer(t)
	rec := doJSON(t, e, http.MethodPost, "/posts",
		map[string]any{"title": "Hello", "content": "hi"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("code %d", rec.Code)
	}
}

func TestCreatePostValidation(t *testing.T) {
	e, _, _ := newTestServer(t)
	ck := registerUser(t, e, "Ann", "a@x.com", "secret1")

	for _, body := range []map[string]any{
		{"content": "hi"},
		{"title": "Hello"},
		{"title": "   ", "content": "hi"},
		{"title": "Hello", "content": "hi", "category": "Nonsense"},
	} {
		rec := doJSON(t, e, http.MethodPost, "/posts", body, ck)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %v: code %d", body, rec.Code)
		}
	}
}

func TestCreatePost(t *testing.T) {
	e, _, _ := newTestServer(t)
	ck := registerUser(t, e, "Ann", "a@x.com", "secret1")

	rec := doJSON(t, e, http.MethodPost, "/posts", map[string]any{
		"title":    "Hello World",
		"content":  "hi",
		"tags":     []string{"go", " web ", ""},
		"category": "Design",
	}, ck)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code %d body %s", rec.Code, rec.Body.String())
	}
	post := decodeBody(t, rec)["post"].(map[string]any)
	slug := post["slug"].(string)
	if !strings.HasPrefix(slug, "hello-world-") {
		t.Fatalf("slug = %q", slug)
	}
	if post["category"] != "Design" {
		t.Fatalf("category = %v", post["category"])
	}
	author := post["author"].(map[string]any)
	if author["name"] != "Ann" || author["email"] != "a@x.com" {
		t.Fatalf("author = %v", author)
	}
	tags := post["tags"].([]any)
	if len(tags) != 2 || tags[0] != "go" || tags[1] != "web" {
		t.Fatalf("tags = %v", tags)
	}
}

func TestCreatePostDefaultCategory(t *testing.T) {
	e, _, _ := newTestServer(t)
	ck := registerUser(t, e, "Ann", "a@x.com", "secret1")
	rec := doJSON(t, e, http.MethodPost, "/posts",
		map[string]any{"title": "No Category", "content": "hi"}, ck)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code %d", rec.Code)
	}
	if post := decodeBody(t, rec)["post"].(map[string]any); post["category"] != "Technology" {
		t.Fatalf("category = %v", post["category"])
	}
}

func TestIdenticalTitlesGetDistinctSlugs(t *testing.T) {
	e, _, _ := newTestServer(t)
	ck := registerUser(t, e, "Ann", "a@x.com", "secret1")

	s1 := createPost(t, e, ck, "Same Title", "one")
	s2 := createPost(t, e, ck, "Same Title", "two")
	if s1 == s2 {
		t.Fatalf("identical slugs %q", s1)
	}
	for _, slug := range []string{s1, s2} {
		rec := doJSON(t, e, http.MethodGet, "/posts/"+slug, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("get %q: code %d", slug, rec.Code)
		}
	}
}

func TestGetPostBySlug(t *testing.T) {
	e, _, _ := newTestServer(t)
	ck := registerUser(t, e, "Ann", "a@x.com", "secret1")
	slug := createPost(t, e, ck, "Hello World", "hi")

	rec := doJSON(t, e, http.MethodGet, "/posts/"+slug, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d", rec.Code)
	}
	if post := decodeBody(t, rec)["post"].(map[string]any); post["title"] != "Hello World" {
		t.Fatalf("post = %v", post)
	}

	rec = doJSON(t, e, http.MethodGet, "/posts/no-such-slug", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing slug: code %d", rec.Code)
	}
}

func TestListPostsAndCategoryFilter(t *testing.T) {
	e, _, _ := newTestServer(t)
	ck := registerUser(t, e, "Ann", "a@x.com", "secret1")

	doJSON(t, e, http.MethodPost, "/posts",
		map[string]any{"title": "First", "content": "x", "category": "Design"}, ck)
	doJSON(t, e, http.MethodPost, "/posts",
		map[string]any{"title": "Second", "content": "x", "category": "Travel"}, ck)

	rec := doJSON(t, e, http.MethodGet, "/posts", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: code %d", rec.Code)
	}
	posts := decodeBody(t, rec)["posts"].([]any)
	if len(posts) != 2 {
		t.Fatalf("len = %d", len(posts))
	}
	// Newest first.
	if posts[0].(map[string]any)["title"] != "Second" {
		t.Fatalf("order = %v", posts)
	}

	rec = doJSON(t, e, http.MethodGet, "/posts?category=Design", nil)
	posts = decodeBody(t, rec)["posts"].([]any)
	if len(posts) != 1 || posts[0].(map[string]any)["title"] != "First" {
		t.Fatalf("filtered = %v", posts)
	}

	rec = doJSON(t, e, http.MethodGet, "/posts?category=Bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus category: code %d", rec.Code)
	}
}

func TestMyPosts(t *testing.T) {
	e, _, _ := newTestServer(t)
	ann := registerUser(t, e, "Ann", "a@x.com", "secret1")
	bob := registerUser(t, e, "Bob", "b@x.com", "secret2")

	createPost(t, e, ann, "Ann Post", "x")
	createPost(t, e, bob, "Bob Post", "x")

	rec := doJSON(t, e, http.MethodGet, "/posts/my-posts", nil, ann)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d", rec.Code)
	}
	posts := decodeBody(t, rec)["posts"].([]any)
	if len(posts) != 1 || posts[0].(map[string]any)["title"] != "Ann Post" {
		t.Fatalf("posts = %v", posts)
	}

	rec = doJSON(t, e, http.MethodGet, "/posts/my-posts", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous my-posts: code %d", rec.Code)
	}
}

func TestUpdatePost(t *testing.T) {
	e, _, _ := newTestServer(t)
	ann := registerUser(t, e, "Ann", "a@x.com", "secret1")
	slug := createPost(t, e, ann, "Hello World", "hi")

	rec := doJSON(t, e, http.MethodPut, "/posts/"+slug,
		map[string]any{"title": "Hello Again", "content": "updated"}, ann)
	if rec.Code != http.StatusOK {
		t.Fatalf("code %d body %s", rec.Code, rec.Body.String())
	}
	post := decodeBody(t, rec)["post"].(map[string]any)
	if post["title"] != "Hello Again" || post["content"] != "updated" {
		t.Fatalf("post = %v", post)
	}
	// Slug is immutable even though the title changed.
	if post["slug"] != slug {
		t.Fatalf("slug changed to %v", post["slug"])
	}
}

func TestUpdatePostCheckOrder(t *testing.T) {
	e, _, _ := newTestServer(t)
	ann := registerUser(t, e, "Ann", "a@x.com", "secret1")
	bob := registerUser(t, e, "Bob", "b@x.com", "secret2")
	slug := createPost(t, e, ann, "Owned By Ann", "hi")

	// Missing post reports 404 even with an invalid body: existence first.
	rec := doJSON(t, e, http.MethodPut, "/posts/no-such-slug",
		map[string]any{"title": "", "content": ""}, ann)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing post: code %d", rec.Code)
	}

	// Foreign post reports 403 before validation.
	rec = doJSON(t, e, http.MethodPut, "/posts/"+slug,
		map[string]any{"title": "", "content": ""}, bob)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign post: code %d", rec.Code)
	}

	// Owner with invalid body reports 400.
	rec = doJSON(t, e, http.MethodPut, "/posts/"+slug,
		map[string]any{"title": "", "content": ""}, ann)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("owner invalid body: code %d", rec.Code)
	}

	// Anonymous update reports 401 before anything else.
	rec = doJSON(t, e, http.MethodPut, "/posts/"+slug,
		map[string]any{"title": "X", "content": "y"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous update: code %d", rec.Code)
	}
}

func TestDeletePostOwnership(t *testing.T) {
	e, _, _ := newTestServer(t)
	ann := registerUser(t, e, "Ann", "a@x.com", "secret1")
	bob := registerUser(t, e, "Bob", "b@x.com", "secret2")
	slug := createPost(t, e, ann, "Hello World", "hi")

	rec := doJSON(t, e, http.MethodDelete, "/posts/"+slug, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous delete: code %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, "/posts/"+slug, nil, bob)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: code %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, "/posts/"+slug, nil, ann)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: code %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodDelete, "/posts/"+slug, nil, ann)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete deleted: code %d", rec.Code)
	}
}

// TestEndToEndScenario walks the full register/login/create/delete flow.
func TestEndToEndScenario(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/auth/register",
		map[string]string{"name": "Ann", "email": "a@x.com", "password": "secret1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: code %d", rec.Code)
	}
	ann := sessionCookie(t, rec)

	rec = doJSON(t, e, http.MethodPost, "/auth/login",
		map[string]string{"email": "a@x.com", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: code %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/posts",
		map[string]any{"title": "Hello World", "content": "hi"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: code %d", rec.Code)
	}

	rec = doJSON(t, e, http.MethodPost, "/posts",
		map[string]any{"title": "Hello World", "content": "hi"}, ann)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: code %d", rec.Code)
	}
	slug := decodeBody(t, rec)["post"].(map[string]any)["slug"].(string)
	if !strings.HasPrefix(slug, "hello-world-") {
		t.Fatalf("slug = %q", slug)
	}

	bob := registerUser(t, e, "Bob", "b@x.com", "secret2")
	if rec := doJSON(t, e, http.MethodDelete, "/posts/"+slug, nil, bob); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: code %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodDelete, "/posts/"+slug, nil, ann); rec.Code != http.StatusOK {
		t.Fatalf("owner delete: code %d", rec.Code)
	}
	if rec := doJSON(t, e, http.MethodGet, "/posts/"+slug, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: code %d", rec.Code)
	}
}
