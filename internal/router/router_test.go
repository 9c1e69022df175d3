package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kefu/config"
	"kefu/internal/database"
	"kefu/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() { gin.SetMode(gin.TestMode) }

type stubBlob struct{}

func (stubBlob) Upload(_ context.Context, r io.Reader, name, _ string) (*cloudinary.Object, error) {
	b, _ := io.ReadAll(r)
	return &cloudinary.Object{URL: "https://cdn.example/" + name, PublicID: name, Bytes: int64(len(b))}, nil
}

func (stubBlob) Delete(context.Context, string, string) error { return nil }

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

type option func(*Deps)

func withDB(t *testing.T) option { return withDSN(t, ":memory:") }

// withForeignKeys opens a database that enforces foreign keys the way
// Postgres and MySQL do.
func withForeignKeys(t *testing.T) option {
	return withDSN(t, "file::memory:?_pragma=foreign_keys(1)")
}

func withDSN(t *testing.T, dsn string) option {
	return func(d *Deps) {
		db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { sqlDB.Close() })
		require.NoError(t, database.AutoMigrate(db))
		require.NoError(t, database.Seed(db))
		d.DB = db
	}
}

func withBlob() option { return func(d *Deps) { d.Blob = stubBlob{} } }

func withPassword(p string) option { return func(d *Deps) { d.Config.Admin.Password = p } }

func newServer(t *testing.T, opts ...option) *testServer {
	t.Helper()
	d := Deps{Config: config.Default(), Log: zap.NewNop()}
	for _, o := range opts {
		o(&d)
	}
	engine, err := Setup(d)
	require.NoError(t, err)
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["database"])
	assert.Equal(t, false, body["blob"])

	w = s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kefu_http_requests_total")
}

func TestMessagesFlow(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/messages", gin.H{"content": "hi", "type": "user", "userId": "v1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]interface{}
	decode(t, w, &created)
	assert.Equal(t, "USER", created["type"])
	assert.NotEmpty(t, created["id"])

	w = s.do(http.MethodGet, "/api/messages?userId=v1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "hi", list[0]["content"])
	assert.Equal(t, "ADMIN", list[1]["type"])
	assert.Equal(t, config.Default().Chat.AutoReply, list[1]["content"])

	w = s.do(http.MethodPost, "/api/messages", gin.H{"content": "x", "type": "bot"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, "/api/messages", gin.H{"content": "  ", "type": "USER"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/messages", nil)
	decode(t, w, &list)
	assert.Empty(t, list)
}

func TestMessagesCreateReferencedRows(t *testing.T) {
	s := newServer(t, withForeignKeys(t))

	w := s.do(http.MethodPost, "/api/messages", gin.H{"type": "admin", "content": "hi", "adminId": "2"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/messages", gin.H{"type": "admin", "content": "hi", "userId": "never-seen"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/messages", gin.H{"type": "user", "content": "hi", "userId": "v9"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/messages?userId=never-seen", nil)
	var list []map[string]interface{}
	decode(t, w, &list)
	assert.Len(t, list, 2)
}

func TestProfile(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p map[string]interface{}
	decode(t, w, &p)
	assert.Equal(t, "在线客服", p["nickname"])

	w = s.do(http.MethodPut, "/api/profile", gin.H{"nickname": "小王", "avatar": ""})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &p)
	assert.Equal(t, "小王", p["nickname"])
	assert.NotEmpty(t, p["avatar"])
}

func TestTemplatesWithoutDatabase(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = s.do(http.MethodPost, "/api/templates", gin.H{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = s.do(http.MethodPost, "/api/templates", gin.H{"title": "t"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTemplatesWithDatabase(t *testing.T) {
	s := newServer(t, withDB(t))

	w := s.do(http.MethodPost, "/api/templates", gin.H{"title": "问候", "content": "您好"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tpl map[string]interface{}
	decode(t, w, &tpl)
	assert.Equal(t, "general", tpl["category"])
	id := tpl["id"].(string)

	w = s.do(http.MethodPut, "/api/templates/"+id, gin.H{"content": "您好，请问有什么可以帮您"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &tpl)
	assert.Equal(t, "问候", tpl["title"])

	w = s.do(http.MethodGet, "/api/templates", nil)
	var list []map[string]interface{}
	decode(t, w, &list)
	require.Len(t, list, 1)

	w = s.do(http.MethodPut, "/api/templates/missing", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, "/api/templates", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodDelete, "/api/templates?id="+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodDelete, "/api/templates?id="+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLinks(t *testing.T) {
	for name, opts := range map[string][]option{"memory": nil, "database": {withDB(t)}} {
		t.Run(name, func(t *testing.T) {
			s := newServer(t, opts...)

			w := s.do(http.MethodPost, "/api/links", gin.H{"name": "售后", "title": "售后服务"})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var created struct {
				Success bool                   `json:"success"`
				Link    map[string]interface{} `json:"link"`
			}
			decode(t, w, &created)
			assert.True(t, created.Success)
			assert.Equal(t, "开始咨询", created.Link["buttonText"])
			id := created.Link["id"].(string)

			w = s.do(http.MethodGet, "/api/links", nil)
			var list struct {
				Links []map[string]interface{} `json:"links"`
			}
			decode(t, w, &list)
			require.NotEmpty(t, list.Links)
			assert.Equal(t, id, list.Links[0]["id"])

			w = s.do(http.MethodPut, "/api/links", gin.H{"id": id, "isActive": false})
			require.Equal(t, http.StatusOK, w.Code)
			w = s.do(http.MethodGet, "/api/links/"+id, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = s.do(http.MethodPut, "/api/links", gin.H{"name": "x"})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			w = s.do(http.MethodPut, "/api/links", gin.H{"id": "nope", "name": "x"})
			assert.Equal(t, http.StatusNotFound, w.Code)
			w = s.do(http.MethodPost, "/api/links", gin.H{"title": "no name"})
			assert.Equal(t, http.StatusBadRequest, w.Code)

			w = s.do(http.MethodDelete, "/api/links?id="+id, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			w = s.do(http.MethodDelete, "/api/links", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestWelcomeConfig(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/api/welcome-config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cfg map[string]interface{}
	decode(t, w, &cfg)
	assert.Equal(t, "开始咨询", cfg["buttonText"])

	w = s.do(http.MethodPost, "/api/welcome-config", gin.H{"title": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	var res map[string]interface{}
	decode(t, w, &res)
	assert.Equal(t, false, res["success"])

	s = newServer(t, withDB(t))
	w = s.do(http.MethodPost, "/api/welcome-config", gin.H{"title": "欢迎光临", "redirectDelay": -4})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &res)
	assert.Equal(t, true, res["success"])
	w = s.do(http.MethodGet, "/api/welcome-config", nil)
	decode(t, w, &cfg)
	assert.Equal(t, "欢迎光临", cfg["title"])
	assert.EqualValues(t, 0, cfg["redirectDelay"])
}

func multipartBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (s *testServer) upload(body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestUpload(t *testing.T) {
	s := newServer(t)
	body, ct := multipartBody(t, "file", "a.png", pngHeader)
	w := s.upload(body, ct)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	body, ct = multipartBody(t, "other", "a.png", pngHeader)
	w = s.upload(body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s = newServer(t, withBlob())
	body, ct = multipartBody(t, "file", "a.png", pngHeader)
	w = s.upload(body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var rec map[string]interface{}
	decode(t, w, &rec)
	assert.Equal(t, "IMAGE", rec["fileType"])
	assert.Contains(t, rec["fileUrl"], "a.png")

	body, ct = multipartBody(t, "file", "run.sh", []byte("#!/bin/sh\necho hi\n"))
	w = s.upload(body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/upload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var files []map[string]interface{}
	decode(t, w, &files)
	assert.Len(t, files, 1)
}

func TestUploadTooLarge(t *testing.T) {
	s := newServer(t, withBlob())
	for _, size := range []int{10<<20 + 100, 12 << 20} {
		content := append(append([]byte{}, pngHeader...), make([]byte, size-len(pngHeader))...)
		body, ct := multipartBody(t, "file", "big.png", content)
		w := s.upload(body, ct)
		assert.Equal(t, http.StatusBadRequest, w.Code, size)
		assert.JSONEq(t, `{"error":"File too large. Max size is 10MB"}`, w.Body.String(), size)
	}

	s = newServer(t, withBlob(), func(d *Deps) { d.Config.Upload.MaxBytes = 500000 })
	body, ct := multipartBody(t, "file", "big.png", append(append([]byte{}, pngHeader...), make([]byte, 500000)...))
	w := s.upload(body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"File too large. Max size is 500000 bytes"}`, w.Body.String())
}

func TestAdminAuth(t *testing.T) {
	s := newServer(t, withPassword("secret"))

	w := s.do(http.MethodGet, "/api/admin/session", nil)
	assert.JSONEq(t, `{"login_required":true}`, w.Body.String())

	w = s.do(http.MethodDelete, "/api/messages", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/messages", gin.H{"type": "admin", "content": "visit evil.example"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPost, "/api/messages", gin.H{"type": "ADMIN", "content": "x", "userId": "v1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPost, "/api/messages", gin.H{"type": "user", "content": "hello", "userId": "v1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/admin/login", gin.H{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/admin/login", gin.H{"password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"access_token"`
	}
	decode(t, w, &login)
	require.NotEmpty(t, login.Token)
	s.token = login.Token

	w = s.do(http.MethodPost, "/api/messages", gin.H{"type": "admin", "content": "您好", "userId": "v1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reply map[string]interface{}
	decode(t, w, &reply)
	assert.Equal(t, "1", reply["adminId"])

	w = s.do(http.MethodDelete, "/api/messages", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	open := newServer(t)
	w = open.do(http.MethodPost, "/api/admin/login", gin.H{"password": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPages(t *testing.T) {
	s := newServer(t)
	for _, path := range []string{"/", "/chat", "/chat/default", "/admin", "/l/1"} {
		w := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"), path)
	}
	w := s.do(http.MethodGet, "/l/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}
