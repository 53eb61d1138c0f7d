package web

import (
	"Townhall/config"
	"Townhall/database"
	"Townhall/model"
	"Townhall/services/conversations"
	"Townhall/services/forum"
	"Townhall/services/users"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(&config.SQLite3{File: config.SQLiteMemory}, false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userService := users.New(db, model.AuthConfig{SecretKey: "web-secret", Admins: []string{"admin"}})
	_, err = userService.Register(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	_, err = userService.PromoteAdmins(context.Background(), []string{"admin"})
	require.NoError(t, err)

	engine := NewEngine(Services{
		DB:            db,
		Users:         userService,
		Forum:         forum.New(db),
		Conversations: conversations.New(db),
	})

	return &testServer{t: t, engine: engine}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("u-token", token)
	}

	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) form(path, cookie string, values url.Values) *httptest.ResponseRecorder {
	ts.t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: tokenCookie, Value: cookie})
	}

	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(username, password string) string {
	ts.t.Helper()

	w := ts.do(http.MethodPost, "/api/users/login", "", gin.H{"username": username, "password": password})
	require.Equal(ts.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct{ Token string }
	require.NoError(ts.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(ts.t, resp.Token)
	return resp.Token
}

func (ts *testServer) signup(username, password string) string {
	ts.t.Helper()

	w := ts.do(http.MethodPost, "/api/users/register", "", gin.H{"username": username, "password": password})
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	return ts.login(username, password)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, w)["error"]
}

// seed creates a category and a topic owned by author.
func (ts *testServer) seed(adminToken, authorToken string) (model.Category, model.Topic) {
	ts.t.Helper()

	w := ts.do(http.MethodPost, "/api/categories", adminToken, gin.H{"name": "General"})
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	category := decode[model.Category](ts.t, w)

	w = ts.do(http.MethodPost, "/api/topics", authorToken, gin.H{"title": "Hello", "content": "World", "category_id": category.Id})
	require.Equal(ts.t, http.StatusCreated, w.Code, w.Body.String())
	return category, decode[model.Topic](ts.t, w)
}

func TestHealth(t *testing.T) {
	ts := setupServer(t)

	w := ts.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsers(t *testing.T) {
	ts := setupServer(t)

	w := ts.do(http.MethodPost, "/api/users/register", "", gin.H{"username": "bad name", "password": "abc1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := ts.signup("alice", "alice1")

	w = ts.do(http.MethodGet, "/api/users/info", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]any](t, w)
	assert.Equal(t, "alice", info["username"])
	assert.NotContains(t, info, "password_hash")
	assert.Equal(t, false, info["is_admin"])

	w = ts.do(http.MethodGet, "/api/users/info", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodGet, "/api/users/info", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token.", errorOf(t, w))

	req := httptest.NewRequest(http.MethodGet, "/api/users/info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	w = ts.do(http.MethodPatch, "/api/users/avatar", token, gin.H{"avatar_url": "https://example.com/me.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/me.png", decode[model.User](t, w).AvatarURL)

	w = ts.do(http.MethodPost, "/api/users/login", "", gin.H{"username": "alice", "password": "wrong1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategories(t *testing.T) {
	ts := setupServer(t)
	admin := ts.login("admin", "admin123")
	alice := ts.signup("alice", "alice1")

	w := ts.do(http.MethodPost, "/api/categories", alice, gin.H{"name": "General"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	category, _ := ts.seed(admin, alice)

	w = ts.do(http.MethodPost, "/api/categories", admin, gin.H{"name": "General"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/categories/%d/lock", category.Id)
	w = ts.do(http.MethodPatch, path, alice, gin.H{"is_locked": true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPatch, path, admin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPatch, path, admin, gin.H{"is_locked": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[model.Category](t, w).IsLocked)

	w = ts.do(http.MethodPost, "/api/topics", alice, gin.H{"title": "t", "content": "c", "category_id": category.Id})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPatch, fmt.Sprintf("/api/categories/%d/privacy", category.Id), admin, gin.H{"is_private": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[model.Category](t, w).IsPrivate)

	w = ts.do(http.MethodGet, "/api/categories/999/topics", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, fmt.Sprintf("/api/categories/%d/topics?sort=desc&sort_by=title", category.Id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listing := decode[struct {
		Category model.Category
		Topics   []model.Topic
	}](t, w)
	assert.Equal(t, category.Id, listing.Category.Id)
	assert.Len(t, listing.Topics, 1)

	w = ts.do(http.MethodGet, "/api/categories/abc/topics", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTopicFlow(t *testing.T) {
	ts := setupServer(t)
	admin := ts.login("admin", "admin123")
	author := ts.signup("author", "author1")
	other := ts.signup("other", "other1")
	_, topic := ts.seed(admin, author)

	repliesPath := fmt.Sprintf("/api/topics/%d/replies", topic.Id)
	w := ts.do(http.MethodPost, repliesPath, "", gin.H{"text": "anonymous"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, repliesPath, other, gin.H{"text": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode[model.Reply](t, w)

	w = ts.do(http.MethodPost, repliesPath, admin, gin.H{"text": "second"})
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[model.Reply](t, w)

	votePath := fmt.Sprintf("/api/topics/%d/replies/%d/votes", topic.Id, first.Id)
	for _, voter := range []string{author, admin} {
		w = ts.do(http.MethodPost, votePath, voter, gin.H{"type_vote": "up"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w = ts.do(http.MethodPost, votePath, author, gin.H{"type_vote": "down"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.VoteDown, decode[model.Vote](t, w).TypeVote)

	w = ts.do(http.MethodPost, votePath, author, gin.H{"type_vote": "meh"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bestPath := fmt.Sprintf("/api/topics/%d/best", topic.Id)
	w = ts.do(http.MethodPost, bestPath, other, gin.H{"reply_id": second.Id})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPost, bestPath, author, gin.H{"reply_id": 999})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, bestPath, author, gin.H{"reply_id": second.Id})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do(http.MethodGet, fmt.Sprintf("/api/topics/%d", topic.Id), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[struct {
		Topic   model.Topic
		Replies []model.Reply
		Votes   map[string]model.Tally
	}](t, w)
	assert.True(t, details.Topic.IsBestReply(second.Id))
	require.Len(t, details.Replies, 2)
	assert.Equal(t, second.Id, details.Replies[0].Id)
	assert.Equal(t, model.Tally{Up: 1, Down: 1}, details.Votes[fmt.Sprint(first.Id)])
	assert.Equal(t, model.Tally{}, details.Votes[fmt.Sprint(second.Id)])

	w = ts.do(http.MethodGet, "/api/topics/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	lockPath := fmt.Sprintf("/api/topics/%d/lock", topic.Id)
	w = ts.do(http.MethodPatch, lockPath, other, gin.H{"is_locked": true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPatch, lockPath, author, gin.H{"is_locked": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodPost, repliesPath, other, gin.H{"text": "locked out"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, "/api/topics?search=Hel", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Topic](t, w), 1)
}

func TestConversations(t *testing.T) {
	ts := setupServer(t)
	alice := ts.signup("alice", "alice1")
	bob := ts.signup("bob", "bob1")
	carol := ts.signup("carol", "carol1")

	w := ts.do(http.MethodGet, "/api/users/info", bob, nil)
	bobId := decode[model.User](t, w).Id

	w = ts.do(http.MethodPost, "/api/conversations", alice, gin.H{"name": "chat", "user_ids": []int64{bobId}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	conversation := decode[model.Conversation](t, w)
	path := fmt.Sprintf("/api/conversations/%d", conversation.Id)

	w = ts.do(http.MethodPost, path, bob, gin.H{"text": "hi alice"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodGet, path, carol, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(http.MethodPut, path+"/users", alice, gin.H{"username": "carol"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodPut, path+"/users", alice, gin.H{"username": "carol"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodGet, path, carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[conversations.ConversationDetails](t, w)
	require.Len(t, details.Messages, 2)
	assert.Equal(t, "bob", details.Messages[0].Sender)
	assert.Equal(t, "* alice added carol to this conversation *", details.Messages[1].Text)

	w = ts.do(http.MethodGet, "/api/conversations?contains_user=carol", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Conversation](t, w), 1)

	w = ts.do(http.MethodDelete, path+"/users", alice, gin.H{"username": "carol"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodDelete, path+"/users", alice, gin.H{"username": "carol"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodGet, "/api/conversations?contains_user=nobody", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFormRoutes(t *testing.T) {
	ts := setupServer(t)
	admin := ts.login("admin", "admin123")
	author := ts.signup("author", "author1")
	category, topic := ts.seed(admin, author)
	topicPath := fmt.Sprintf("/topics/%d", topic.Id)

	w := ts.form(topicPath+"/replies", "", url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/login", w.Header().Get("Location"))

	w = ts.form("/users/login", "", url.Values{"username": {"author"}, "password": {"nope1"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/login?error=Invalid+login+data.", w.Header().Get("Location"))

	w = ts.form("/users/login", "", url.Values{"username": {"author"}, "password": {"author1"}})
	require.Equal(t, http.StatusFound, w.Code)
	var cookie string
	for _, c := range w.Result().Cookies() {
		if c.Name == tokenCookie {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)

	w = ts.form(topicPath+"/replies", cookie, url.Values{"text": {"hi"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, topicPath, w.Header().Get("Location"))

	w = ts.form(topicPath+"/replies", cookie, url.Values{"text": {" "}})
	assert.Equal(t, topicPath+"?error=Reply+text+cannot+be+empty.", w.Header().Get("Location"))

	w = ts.form(topicPath+"/toggle-lock", cookie, nil)
	assert.Equal(t, topicPath, w.Header().Get("Location"))

	w = ts.form(topicPath+"/replies", cookie, url.Values{"text": {"again"}})
	assert.Equal(t, topicPath+"?error=Topic+is+locked.+Cannot+accept+new+replies.", w.Header().Get("Location"))

	w = ts.form(fmt.Sprintf("/categories/%d/topics", category.Id), cookie, url.Values{"title": {"Second"}, "content": {"Body"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/topics/%d", topic.Id+1), w.Header().Get("Location"))

	w = ts.form("/conversations", cookie, url.Values{"name": {"solo"}})
	assert.Equal(t, "/conversations/1", w.Header().Get("Location"))

	w = ts.form("/conversations/1/add_user", cookie, url.Values{"username": {"admin"}})
	assert.Equal(t, "/conversations/1", w.Header().Get("Location"))

	w = ts.form("/conversations/1/add_user", cookie, url.Values{"username": {"ghost"}})
	assert.Equal(t, "/conversations/1?error=User+%27ghost%27+not+found.", w.Header().Get("Location"))

	w = ts.form("/users/logout", cookie, nil)
	assert.Equal(t, "/users/login", w.Header().Get("Location"))
}

func (ts *testServer) formLogin(username, password string) string {
	ts.t.Helper()

	w := ts.form("/users/login", "", url.Values{"username": {username}, "password": {password}})
	require.Equal(ts.t, "/", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		if c.Name == tokenCookie {
			return c.Value
		}
	}

	ts.t.Fatal("no token cookie")
	return ""
}

func TestFormSignup(t *testing.T) {
	ts := setupServer(t)

	w := ts.form("/users/register", "", url.Values{"username": {"bob"}, "password": {"bob1"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/users/login", w.Header().Get("Location"))

	w = ts.form("/users/register", "", url.Values{"username": {"bob"}, "password": {"bob2"}})
	assert.Equal(t, "/users/register?error=Username+%27bob%27+is+already+in+use.", w.Header().Get("Location"))

	w = ts.form("/users/register", "", url.Values{"username": {"carol"}})
	assert.Equal(t, "/users/register?error=Invalid+request+body.", w.Header().Get("Location"))

	assert.NotEmpty(t, ts.formLogin("bob", "bob1"))
}

func TestFormCreateTopicAndReply(t *testing.T) {
	ts := setupServer(t)
	admin := ts.login("admin", "admin123")
	author := ts.signup("author", "author1")
	category, topic := ts.seed(admin, author)
	cookie := ts.formLogin("author", "author1")

	values := url.Values{"title": {"From form"}, "content": {"Body"}, "category_id": {fmt.Sprint(category.Id)}}
	w := ts.form("/topics/create", "", values)
	assert.Equal(t, "/users/login", w.Header().Get("Location"))

	w = ts.form("/topics/create", cookie, values)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/topics/%d", topic.Id+1), w.Header().Get("Location"))

	values.Set("category_id", "999")
	w = ts.form("/topics/create", cookie, values)
	assert.Equal(t, "/topics?error=Category+does+not+exist.", w.Header().Get("Location"))

	topicPath := fmt.Sprintf("/topics/%d", topic.Id)
	w = ts.form(topicPath+"/replies", cookie, url.Values{"content": {"via content"}})
	assert.Equal(t, topicPath, w.Header().Get("Location"))

	w = ts.do(http.MethodGet, "/api"+topicPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[forum.TopicDetails](t, w)
	require.Len(t, details.Replies, 1)
	assert.Equal(t, "via content", details.Replies[0].Text)
}
