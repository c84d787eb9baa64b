package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonbelle/salon-site/internal/config"
	"github.com/maisonbelle/salon-site/internal/domain/admin"
	"github.com/maisonbelle/salon-site/internal/domain/bulkupload"
	"github.com/maisonbelle/salon-site/internal/domain/chat"
	"github.com/maisonbelle/salon-site/internal/domain/content"
	"github.com/maisonbelle/salon-site/internal/domain/inquiry"
	"github.com/maisonbelle/salon-site/internal/domain/media"
	"github.com/maisonbelle/salon-site/internal/domain/query"
	"github.com/maisonbelle/salon-site/internal/domain/site"
	"github.com/maisonbelle/salon-site/internal/infrastructure/audit"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/dbtest"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/adminrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/chatrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/contentrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/database/repository/inquiryrepo"
	"github.com/maisonbelle/salon-site/internal/infrastructure/knowledgebase"
	"github.com/maisonbelle/salon-site/internal/infrastructure/storage"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/middlewares"
	"github.com/maisonbelle/salon-site/internal/interfaces/httpserver/responses"
	"github.com/maisonbelle/salon-site/pkg/telemetry"
)

type MockSender struct {
	sent []string
}

func (m *MockSender) SendMagicLink(_ context.Context, email string) error {
	m.sent = append(m.sent, email)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	admins   *admin.Service
	audit    *audit.Logger
	sender   *MockSender
	mediaDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	db := dbtest.NewDatabase(t)
	sanitizer := telemetry.NewSanitizer(telemetry.PIILevelHashed, "test")
	kb, err := knowledgebase.NewStore("", log)
	require.NoError(t, err)

	mediaDir := t.TempDir()
	local, err := storage.NewLocalStorage(&config.Config{
		LocalStoragePath:    mediaDir,
		LocalStorageBaseURL: "http://localhost:8080/media",
	}, log)
	require.NoError(t, err)

	sender := &MockSender{}
	contentSvc := content.NewService(contentrepo.NewContentGormRepository(db), log)
	chatSvc := chat.NewService(chatrepo.NewChatGormRepository(db), kb, sanitizer, 500, log)
	adminSvc := admin.NewService(adminrepo.NewAdminGormRepository(db), sender, sanitizer, log)
	auditLogger := audit.NewLogger(db, log)

	provider := NewProvider(&config.Config{}, Services{
		Site:     site.NewService(contentSvc, chatSvc, 0, log),
		Content:  contentSvc,
		Importer: bulkupload.NewImporter(contentSvc, bulkupload.Options{MaxBytes: 1 << 20, MaxRows: 100}, log),
		Media:    media.NewService(local, 1<<20, log),
		Chat:     chatSvc,
		Inquiry:  inquiry.NewService(inquiryrepo.NewInquiryGormRepository(db), sanitizer, log),
		Admin:    adminSvc,
	}, auditLogger, log)

	router := gin.New()
	router.Use(middlewares.RequestID())
	pub := router.Group("/v1")
	pub.GET("/site/home", provider.Site.Home)
	pub.GET("/content", provider.Content.ListPublic)
	pub.GET("/content/:id", provider.Content.GetPublic)
	pub.GET("/chat/greeting", provider.Chat.Greeting)
	pub.POST("/chat/messages", provider.Chat.Send)
	pub.POST("/inquiries", provider.Inquiry.Submit)
	pub.POST("/auth/magic-link", provider.Auth.RequestMagicLink)

	adm := pub.Group("/admin", middlewares.AdminAuthMiddleware(nil, adminSvc, log))
	adm.GET("/me", provider.Auth.Me)
	adm.GET("/content", provider.Content.List)
	adm.POST("/content", provider.Content.Create)
	adm.POST("/content/import", provider.Import.Import)
	adm.GET("/content/import/template", provider.Import.Template)
	adm.PATCH("/content/:id", provider.Content.Update)
	adm.DELETE("/content/:id", provider.Content.Delete)
	adm.POST("/media", provider.Media.Upload)
	adm.GET("/inquiries", provider.Inquiry.List)
	adm.PATCH("/inquiries/:id", provider.Inquiry.Update)
	adm.GET("/chat/sessions", provider.Chat.ListSessions)
	adm.GET("/chat/sessions/:id", provider.Chat.GetTranscript)
	adm.GET("/admins", provider.AdminUser.List)
	adm.POST("/admins", provider.AdminUser.Add)
	adm.DELETE("/admins/:email", provider.AdminUser.Remove)
	adm.GET("/audit", provider.Audit.List)

	return &testEnv{router: router, admins: adminSvc, audit: auditLogger, sender: sender, mediaDir: mediaDir}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestContentAdminLifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/admin/content", map[string]any{
		"title":     "Balayage",
		"category":  "hair",
		"url":       "https://cdn.example.com/balayage.jpg",
		"placement": "gallery",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[content.Item](t, w)
	assert.Equal(t, content.MediaTypeImage, created.MediaType)
	assert.Equal(t, "local-admin", created.CreatedBy)

	w = env.do(t, http.MethodGet, "/v1/content?category=hair", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[responses.ListResponse[content.Item]](t, w)
	assert.Equal(t, int64(1), list.Total)

	w = env.do(t, http.MethodPatch, "/v1/admin/content/"+created.ID, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/v1/content/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/v1/admin/content?active=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[responses.ListResponse[content.Item]](t, w)
	require.Len(t, list.Data, 1)
	assert.False(t, list.Data[0].IsActive)

	w = env.do(t, http.MethodDelete, "/v1/admin/content/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	records, total, err := env.audit.List(context.Background(), &query.Pagination{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "content.delete", records[0].Action)
	assert.Equal(t, "local-admin", records[0].AdminEmail)
}

func TestContentCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/admin/content", map[string]any{
		"title":    "Bad",
		"category": "tattoo",
		"url":      "ftp://example.com/x.jpg",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[responses.ErrorResponse](t, w)
	assert.Contains(t, body.Error, "category")
	assert.NotEmpty(t, body.RequestID)
}

func TestContentListRejectsUnknownFilter(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/content?category=tattoo", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/v1/content?featured=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportCSVBody(t *testing.T) {
	env := newTestEnv(t)

	csvData := "title,description,category,media_type,url,thumbnail_url,is_featured\n" +
		"Balayage,,hair,image,https://cdn.example.com/a.jpg,,yes\n" +
		"Gel set,,nails,image,https://cdn.example.com/b.jpg,,\n" +
		"Bad,,tattoo,image,https://cdn.example.com/c.jpg,,\n"
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/content/import", strings.NewReader(csvData))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[bulkupload.Result](t, w)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)
}

func TestImportMultipart(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "gallery.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("title,description,category,media_type,url,thumbnail_url,is_featured\nLashes,,lashes_brows,,https://cdn.example.com/l.jpg,,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/content/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[bulkupload.Result](t, w)
	assert.Equal(t, 1, result.Inserted)
}

func TestImportMultipartOverLimit(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "huge.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("title,description,category,media_type,url,thumbnail_url,is_featured\n"))
	require.NoError(t, err)
	row := []byte("Lashes," + strings.Repeat("x", 1000) + ",lashes_brows,image,https://cdn.example.com/l.jpg,,\n")
	for written := 0; written < 2<<20; written += len(row) {
		_, err = part.Write(row)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/content/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/v1/admin/content", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), decode[responses.ListResponse[content.Item]](t, w).Total)
}

func TestImportRejectsJSONBody(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/v1/admin/content/import", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportTemplate(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/v1/admin/content/import/template", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "title,"))
}

func TestMediaUpload(t *testing.T) {
	env := newTestEnv(t)

	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "look.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	asset := decode[media.Asset](t, w)
	assert.Equal(t, "image/png", asset.MimeType)
	assert.True(t, strings.HasPrefix(asset.URL, "http://localhost:8080/media/content/"))
}

func TestMediaUploadRequiresFile(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/v1/admin/media", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatSendAndTranscript(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/chat/greeting", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[GreetingResponse](t, w).Greeting)

	w = env.do(t, http.MethodPost, "/v1/chat/messages", SendMessageRequest{Message: "What are your opening hours?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reply := decode[chat.Reply](t, w)
	assert.True(t, reply.Matched)
	assert.Equal(t, "hours", reply.EntryID)

	w = env.do(t, http.MethodPost, "/v1/chat/messages", SendMessageRequest{SessionID: reply.SessionID, Message: "zzz"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[chat.Reply](t, w)
	assert.Equal(t, reply.SessionID, second.SessionID)
	assert.False(t, second.Matched)

	w = env.do(t, http.MethodGet, "/v1/admin/chat/sessions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sessions := decode[responses.ListResponse[chat.Session]](t, w)
	assert.Equal(t, int64(1), sessions.Total)

	w = env.do(t, http.MethodGet, "/v1/admin/chat/sessions/"+reply.SessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	transcript := decode[chat.Transcript](t, w)
	require.Len(t, transcript.Messages, 4)
	texts := make([]string, 0, len(transcript.Messages))
	for _, m := range transcript.Messages {
		texts = append(texts, string(m.Role)+":"+m.Text)
	}
	assert.Equal(t, []string{
		"user:What are your opening hours?",
		"bot:" + reply.Reply,
		"user:zzz",
		"bot:" + second.Reply,
	}, texts)
}

func TestChatSendRequiresMessage(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/v1/chat/messages", map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInquirySubmitAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/inquiries", inquiry.SubmitInput{
		Name:            "Ana",
		Email:           "ana@example.com",
		ServiceInterest: "bridal",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	submitted := decode[SubmitInquiryResponse](t, w)
	assert.Equal(t, "new", submitted.Status)

	w = env.do(t, http.MethodPost, "/v1/inquiries", inquiry.SubmitInput{Name: "Bo", Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	notes := "Saturday trial"
	w = env.do(t, http.MethodPatch, "/v1/admin/inquiries/"+submitted.ID, UpdateInquiryRequest{Status: "booked", AdminNotes: &notes})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[inquiry.Inquiry](t, w)
	assert.Equal(t, inquiry.StatusBooked, updated.Status)
	assert.Equal(t, "local-admin", updated.HandledBy)

	w = env.do(t, http.MethodPatch, "/v1/admin/inquiries/"+submitted.ID, UpdateInquiryRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/v1/admin/inquiries?status=booked", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[responses.ListResponse[inquiry.Inquiry]](t, w).Total)
}

func TestMagicLinkOnlySendsToAdmins(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.admins.AddAdmin(context.Background(), "owner@salon.test", "Owner", "test")
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/v1/auth/magic-link", MagicLinkRequest{Email: "stranger@example.com"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Empty(t, env.sender.sent)

	w = env.do(t, http.MethodPost, "/v1/auth/magic-link", MagicLinkRequest{Email: "Owner@Salon.test"})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"owner@salon.test"}, env.sender.sent)

	w = env.do(t, http.MethodPost, "/v1/auth/magic-link", MagicLinkRequest{Email: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAllowListManagement(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/admin/admins", AddAdminRequest{Email: "owner@salon.test", DisplayName: "Owner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodDelete, "/v1/admin/admins/owner@salon.test", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/v1/admin/admins", AddAdminRequest{Email: "stylist@salon.test"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodDelete, "/v1/admin/admins/owner@salon.test", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[admin.User](t, w).IsActive)

	w = env.do(t, http.MethodGet, "/v1/admin/admins", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[responses.ListResponse[admin.User]](t, w)
	require.Len(t, users.Data, 1)
	assert.Equal(t, "stylist@salon.test", users.Data[0].Email)

	w = env.do(t, http.MethodGet, "/v1/admin/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), decode[responses.ListResponse[audit.Record]](t, w).Total)
}

func TestMeWithAuthDisabled(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/v1/admin/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[MeResponse](t, w)
	assert.Equal(t, "local-admin", me.Principal.Subject)
	assert.Nil(t, me.Admin)
}

func TestSiteHome(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/v1/admin/content", map[string]any{
		"title":     "Welcome",
		"category":  "salon",
		"url":       "https://cdn.example.com/hero.jpg",
		"placement": "hero",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/v1/site/home", nil)
	require.Equal(t, http.StatusOK, w.Code)
	home := decode[site.Home](t, w)
	require.Len(t, home.Hero, 1)
	assert.Equal(t, "Welcome", home.Hero[0].Title)
	assert.NotEmpty(t, home.Greeting)
}
