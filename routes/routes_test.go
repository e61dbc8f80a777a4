package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/payments"
	"github.com/gurukul/gurukul-backend/services"
	"github.com/gurukul/gurukul-backend/storage"
	"github.com/gurukul/gurukul-backend/testutil"
	"github.com/gurukul/gurukul-backend/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeGateway struct {
	amounts []decimal.Decimal
}

func (f *fakeGateway) CreateOrder(_ context.Context, amount decimal.Decimal) (*payments.RazorpayOrder, error) {
	f.amounts = append(f.amounts, amount)
	return &payments.RazorpayOrder{
		ID:       "order_test",
		Entity:   "order",
		Amount:   payments.ToSubunits(amount),
		Currency: "INR",
		Status:   "created",
	}, nil
}

type testServer struct {
	app     *fiber.App
	db      *gorm.DB
	hub     *websocket.Hub
	gateway *fakeGateway
	uploads string
	admin   *models.Guru
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)

	hash, err := services.HashPassword("admin-pass1")
	require.NoError(t, err)
	admin := models.Guru{
		Username: "admin",
		Email:    "admin@gurukul.test",
		Password: hash,
		Phone:    "+919999999999",
		Role:     models.RoleAdmin,
		Earnings: decimal.NewFromInt(1000),
	}
	require.NoError(t, db.Create(&admin).Error)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub(websocket.NewLocalBroker())
	go hub.Run(ctx)

	uploads := t.TempDir()
	gateway := &fakeGateway{}
	app := fiber.New()
	Setup(app, Deps{
		Treasury: services.NewTreasury(admin.ID),
		Hub:      hub,
		Store:    storage.NewDiskStore(uploads),
		Payments: gateway,
		Ratings:  services.RatingRunning,
	})

	return &testServer{app: app, db: db, hub: hub, gateway: gateway, uploads: uploads, admin: &admin}
}

func tokenFor(t *testing.T, id uuid.UUID, role string) string {
	t.Helper()
	token, err := services.GenerateToken(id, role)
	require.NoError(t, err)
	return token
}

func (s *testServer) send(t *testing.T, req *http.Request, token string) (int, map[string]interface{}) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	return resp.StatusCode, body
}

func (s *testServer) json(t *testing.T, method, path string, payload interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.send(t, req, token)
}

func (s *testServer) multipart(t *testing.T, method, path string, fields map[string]string, fileField, fileName, content, token string) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return s.send(t, req, token)
}

func (s *testServer) signupGuru(t *testing.T, username string) uuid.UUID {
	t.Helper()
	status, body := s.json(t, http.MethodPost, "/api/guru", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
		"phone":    "+911234567890",
		"address": map[string]string{
			"city": "Pune", "state": "MH", "country": "India", "zipCode": "411001",
		},
		"skills":         []string{"math"},
		"education":      "B.Sc Mathematics",
		"availableTimes": "Mon-Fri: 9AM - 5PM",
		"perHourRate":    500,
	}, "")
	require.Equal(t, http.StatusCreated, status, body)
	return uuid.MustParse(body["data"].(map[string]interface{})["_id"].(string))
}

func (s *testServer) signupStudent(t *testing.T, username, phone string) uuid.UUID {
	t.Helper()
	status, body := s.json(t, http.MethodPost, "/api/student", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
		"phone":    phone,
	}, "")
	require.Equal(t, http.StatusCreated, status, body)
	return uuid.MustParse(body["data"].(map[string]interface{})["_id"].(string))
}

func TestPublicRoutes(t *testing.T) {
	s := newServer(t)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	text, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Welcome to Gurukul API", string(text))

	status, body := s.json(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestGuruSignupLoginAndVerify(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")

	var stored models.Guru
	require.NoError(t, s.db.First(&stored, "id = ?", guruID).Error)
	assert.NotEqual(t, "secret1", stored.Password)
	assert.Len(t, stored.AvailableTimes, 5)
	require.Len(t, stored.Education, 1)
	assert.Equal(t, "B.Sc Mathematics", stored.Education[0].Degree)

	status, body := s.json(t, http.MethodPost, "/api/guru", map[string]interface{}{
		"username": "asha", "email": "asha@example.com", "password": "secret1", "phone": "+911234567890",
		"address": map[string]string{"city": "Pune", "state": "MH", "country": "India", "zipCode": "411001"},
	}, "")
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.json(t, http.MethodPost, "/api/guru", map[string]interface{}{
		"username": "bo", "email": "bo@example.com", "password": "secret1", "phone": "+911234567890",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username is required and must be at least 3 characters long.", body["message"])

	status, body = s.json(t, http.MethodPost, "/api/guru", map[string]interface{}{
		"username": "bodhi", "email": "bodhi@example.com", "password": "secret1", "phone": "12345",
		"address": map[string]string{"city": "Pune", "state": "MH", "country": "India", "zipCode": "411001"},
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Phone number is required and must include a country code, with a total length of 10 to 13 digits.", body["message"])

	status, body = s.json(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "asha@example.com", "password": "secret1", "role": "guru",
	}, "")
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]interface{})
	token := data["token"].(string)
	assert.NotContains(t, data["user"], "password")

	status, body = s.json(t, http.MethodGet, "/api/auth/verify", nil, token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "User data fetched successfully", body["message"])

	status, body = s.json(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "asha@example.com", "password": "wrong", "role": "guru",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid password", body["message"])

	status, body = s.json(t, http.MethodGet, "/api/auth/verify", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authorization token is required", body["message"])
}

func TestGuruUpdateIsSelfOrAdmin(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")
	otherID := s.signupGuru(t, "bela")

	status, _ := s.json(t, http.MethodPut, "/api/guru/"+guruID.String(), map[string]interface{}{"aboutMe": "hi"},
		tokenFor(t, otherID, models.RoleGuru))
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.json(t, http.MethodPut, "/api/guru/"+guruID.String(), map[string]interface{}{
		"aboutMe":    "I teach algebra",
		"experience": 4,
		"rating":     5,
	}, tokenFor(t, guruID, models.RoleGuru))
	require.Equal(t, http.StatusOK, status, body)

	var stored models.Guru
	require.NoError(t, s.db.First(&stored, "id = ?", guruID).Error)
	assert.Equal(t, "I teach algebra", stored.AboutMe)
	assert.Equal(t, 4, stored.Experience)
	assert.Zero(t, stored.Rating)
	assert.Equal(t, []string{"math"}, stored.Skills)
}

func TestStudentSignupWithProfileImage(t *testing.T) {
	s := newServer(t)

	status, body := s.multipart(t, http.MethodPost, "/api/student", map[string]string{
		"username": "ravi",
		"email":    "Ravi@Example.com",
		"password": "secret1",
		"phone":    "+911234567891",
	}, "profileImage", "me.png", "png-bytes", "")
	require.Equal(t, http.StatusCreated, status, body)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "ravi@example.com", data["email"])
	location := data["profileImage"].(string)
	assert.True(t, strings.HasPrefix(location, filepath.ToSlash(s.uploads)))
	_, err := os.Stat(filepath.FromSlash(location))
	assert.NoError(t, err)

	status, body = s.multipart(t, http.MethodPost, "/api/student", map[string]string{
		"username": "mira",
		"email":    "mira@example.com",
		"password": "secret1",
		"phone":    "+911234567892",
	}, "profileImage", "me.gif", "gif-bytes", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, storage.KindProfile.RejectionMessage(), body["message"])

	status, _ = s.json(t, http.MethodPost, "/api/student", map[string]interface{}{
		"username": "other", "email": "other@example.com", "password": "secret1", "phone": "+911234567891",
	}, "")
	assert.Equal(t, http.StatusConflict, status)
}

func TestBookingCompletionReviewAndSettlement(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")
	studentID := s.signupStudent(t, "ravi", "+911234567891")
	otherID := s.signupStudent(t, "mira", "+911234567892")
	guruToken := tokenFor(t, guruID, models.RoleGuru)
	studentToken := tokenFor(t, studentID, models.RoleStudent)
	adminToken := tokenFor(t, s.admin.ID, models.RoleAdmin)

	booking := map[string]interface{}{
		"guru": guruID, "student": studentID, "date": "2026-11-02", "time": "10:00 AM", "duration": 60, "price": 500,
	}

	status, _ := s.json(t, http.MethodPost, "/api/session", booking, tokenFor(t, otherID, models.RoleStudent))
	assert.Equal(t, http.StatusForbidden, status)

	status, body := s.json(t, http.MethodPost, "/api/session", map[string]interface{}{
		"guru": guruID, "student": uuid.New(), "date": "2026-11-02", "time": "10:00 AM", "duration": 60, "price": 500,
	}, adminToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Student not found", body["message"])

	status, body = s.json(t, http.MethodPost, "/api/session", booking, studentToken)
	require.Equal(t, http.StatusCreated, status, body)
	assert.EqualValues(t, 0, body["error"])
	assert.Equal(t, "Session created successfully", body["message"])
	sessionID := body["data"].(map[string]interface{})["_id"].(string)
	assert.Equal(t, "pending", body["data"].(map[string]interface{})["status"])

	status, body = s.json(t, http.MethodGet, "/api/student/booklesson?studentId="+studentID.String()+"&guruId="+guruID.String(), nil, studentToken)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.EqualValues(t, 2, body["error"])
	assert.Equal(t, "Student is already subscribed to this guru", body["message"])

	status, body = s.json(t, http.MethodGet, "/api/student/booklesson?studentId="+studentID.String()+"&guruId="+uuid.NewString(), nil, studentToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Guru not found", body["message"])

	status, body = s.json(t, http.MethodPost, "/api/review", map[string]interface{}{
		"student": studentID, "guru": guruID, "rating": 5,
	}, studentToken)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Review can only be submitted after completing a session with the guru", body["message"])

	status, body = s.json(t, http.MethodPut, "/api/session/"+sessionID+"/complete", nil, guruToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "session updated to 'completed'", body["message"])

	status, body = s.json(t, http.MethodPut, "/api/session/"+sessionID, map[string]string{"status": "pending"}, guruToken)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.json(t, http.MethodPost, "/api/review", map[string]interface{}{
		"student": studentID, "guru": guruID, "rating": 5, "comment": "great",
	}, studentToken)
	require.Equal(t, http.StatusCreated, status, body)

	var guru models.Guru
	require.NoError(t, s.db.First(&guru, "id = ?", guruID).Error)
	assert.InDelta(t, 2.5, guru.Rating, 1e-9)

	var txn models.Transaction
	require.NoError(t, s.db.First(&txn, "guru_id = ?", guruID).Error)
	transfer := map[string]interface{}{
		"senderId": s.admin.ID, "receiverId": guruID, "transactionId": txn.ID, "amount": 500,
	}

	status, _ = s.json(t, http.MethodPost, "/api/guru/transfer-payment", transfer, guruToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.json(t, http.MethodPost, "/api/guru/transfer-payment", transfer, adminToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Payment processed successfully", body["message"])
	receiver := body["data"].(map[string]interface{})["receiver"].(map[string]interface{})
	assert.EqualValues(t, 500, receiver["earnings"])

	status, _ = s.json(t, http.MethodPost, "/api/guru/transfer-payment", transfer, adminToken)
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.json(t, http.MethodGet, "/api/guru/stats/"+guruID.String(), nil, guruToken)
	require.Equal(t, http.StatusOK, status)
	stats := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["totalStudents"])
	assert.EqualValues(t, 1, stats["totalSessions"])
}

func TestInsufficientTreasuryBalance(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")

	txn := models.Transaction{GuruID: guruID, StudentID: uuid.New(), TransactionID: "TXN1", Date: time.Now(), Amount: decimal.NewFromInt(5000)}
	require.NoError(t, s.db.Create(&txn).Error)

	status, body := s.json(t, http.MethodPost, "/api/guru/transfer-payment", map[string]interface{}{
		"receiverId": guruID, "transactionId": txn.ID, "amount": 5000,
	}, tokenFor(t, s.admin.ID, models.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Insufficient balance", body["message"])
}

func TestSettlementUsesConfiguredTreasury(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")
	adminToken := tokenFor(t, s.admin.ID, models.RoleAdmin)

	txn := models.Transaction{GuruID: guruID, StudentID: uuid.New(), TransactionID: "TXN7", Date: time.Now(), Amount: decimal.NewFromInt(300)}
	require.NoError(t, s.db.Create(&txn).Error)

	status, body := s.json(t, http.MethodPost, "/api/guru/transfer-payment", map[string]interface{}{
		"receiverId": guruID, "transactionId": txn.ID, "amount": 300, "senderId": uuid.New(),
	}, adminToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Sender not found", body["message"])

	status, body = s.json(t, http.MethodPost, "/api/guru/transfer-payment", map[string]interface{}{
		"receiverId": guruID, "transactionId": txn.ID, "amount": 300,
	}, adminToken)
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 700, data["sender"].(map[string]interface{})["earnings"])
	assert.EqualValues(t, 300, data["receiver"].(map[string]interface{})["earnings"])

	var paid models.Transaction
	require.NoError(t, s.db.First(&paid, "id = ?", txn.ID).Error)
	assert.True(t, paid.PaidToTeacher)

	status, body = s.json(t, http.MethodPost, "/api/guru/add-payment", map[string]interface{}{"amount": 250}, adminToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 950, body["data"].(map[string]interface{})["earnings"])

	status, body = s.json(t, http.MethodPost, "/api/guru/add-payment", map[string]interface{}{
		"amount": 250, "adminId": guruID,
	}, adminToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Admin not found", body["message"])

	status, body = s.json(t, http.MethodPost, "/api/guru/add-payment", map[string]interface{}{}, adminToken)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "A valid amount is required", body["message"])

	var treasury models.Guru
	require.NoError(t, s.db.First(&treasury, "id = ?", s.admin.ID).Error)
	assert.True(t, treasury.Earnings.Equal(decimal.NewFromInt(950)))
}

func TestProfileImageReplacementRemovesPreviousFile(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")
	studentID := s.signupStudent(t, "ravi", "+911234567891")

	cases := []struct {
		name  string
		path  string
		token string
	}{
		{"student", "/api/student/" + studentID.String() + "/profile-image", tokenFor(t, studentID, models.RoleStudent)},
		{"guru", "/api/guru/" + guruID.String() + "/profile-image", tokenFor(t, guruID, models.RoleGuru)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := s.multipart(t, http.MethodPut, tc.path, nil, "profileImage", "first.png", "one", tc.token)
			require.Equal(t, http.StatusOK, status, body)
			first := body["data"].(map[string]interface{})["profileImage"].(string)
			require.True(t, strings.HasPrefix(first, filepath.ToSlash(s.uploads)))
			_, err := os.Stat(filepath.FromSlash(first))
			require.NoError(t, err)

			status, body = s.multipart(t, http.MethodPut, tc.path, nil, "profileImage", "second.png", "two", tc.token)
			require.Equal(t, http.StatusOK, status, body)
			second := body["data"].(map[string]interface{})["profileImage"].(string)
			assert.NotEqual(t, first, second)

			_, err = os.Stat(filepath.FromSlash(first))
			assert.True(t, os.IsNotExist(err))
			_, err = os.Stat(filepath.FromSlash(second))
			assert.NoError(t, err)
		})
	}
}

func TestChatPersistsThenBroadcasts(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")
	studentID := s.signupStudent(t, "ravi", "+911234567891")
	studentToken := tokenFor(t, studentID, models.RoleStudent)
	guruToken := tokenFor(t, guruID, models.RoleGuru)

	msg := map[string]string{
		"guruId": guruID.String(), "studentId": studentID.String(), "sender": "student", "message": "hello",
	}
	status, body := s.json(t, http.MethodPost, "/api/chat/message", msg, guruToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = s.json(t, http.MethodPost, "/api/chat/message", msg, studentToken)
	require.Equal(t, http.StatusCreated, status, body)
	chatID := body["data"].(map[string]interface{})["_id"].(string)

	listener := websocket.NewClient(guruID, models.RoleGuru)
	s.hub.Register(listener)
	s.hub.Join(listener, chatID)

	msg["message"] = "are you there?"
	status, _ = s.json(t, http.MethodPost, "/api/chat/message", msg, studentToken)
	require.Equal(t, http.StatusCreated, status)

	select {
	case raw := <-listener.Send():
		var frame websocket.Frame
		require.NoError(t, json.Unmarshal(raw, &frame))
		assert.Equal(t, websocket.EventReceiveMessage, frame.Event)
		var data websocket.ReceiveMessageData
		require.NoError(t, json.Unmarshal(frame.Data, &data))
		assert.Equal(t, "are you there?", data.Message)
		assert.Equal(t, studentID.String(), data.Sender)
		assert.Equal(t, models.RoleStudent, data.Role)
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
	}

	query := "/api/chat/getchat?guruId=" + guruID.String() + "&studentId=" + studentID.String()
	status, body = s.json(t, http.MethodGet, query, nil, guruToken)
	require.Equal(t, http.StatusOK, status)
	messages := body["data"].(map[string]interface{})["messages"].([]interface{})
	require.Len(t, messages, 2)
	firstID := messages[0].(map[string]interface{})["_id"].(string)

	status, _ = s.json(t, http.MethodDelete, "/api/chat/delete/"+chatID+"/"+firstID, nil, guruToken)
	require.Equal(t, http.StatusOK, status)
	status, body = s.json(t, http.MethodDelete, "/api/chat/delete/"+chatID+"/"+firstID, nil, guruToken)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Message not found.", body["message"])

	status, body = s.json(t, http.MethodGet, query, nil, studentToken)
	require.Equal(t, http.StatusOK, status)
	messages = body["data"].(map[string]interface{})["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, "are you there?", messages[0].(map[string]interface{})["message"])
}

func TestContentUpload(t *testing.T) {
	s := newServer(t)
	guruID := s.signupGuru(t, "asha")
	token := tokenFor(t, guruID, models.RoleGuru)

	status, body := s.multipart(t, http.MethodPost, "/api/content", map[string]string{
		"guru": guruID.String(), "title": "Algebra notes",
	}, "contentFile", "notes.pdf", string(make([]byte, 2048)), token)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["data"].(map[string]interface{})["size"])

	status, body = s.multipart(t, http.MethodPost, "/api/content", map[string]string{
		"guru": guruID.String(), "title": "Virus",
	}, "contentFile", "notes.js", "x", token)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.multipart(t, http.MethodPost, "/api/content", map[string]string{"title": "No guru"}, "", "", "", token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Guru, title, and file are required.", body["message"])

	status, body = s.json(t, http.MethodGet, "/api/content/guru/"+guruID.String(), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = s.json(t, http.MethodGet, "/api/content/guru/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "No content found for this guru.", body["message"])
}

func TestTransactionsAndPayments(t *testing.T) {
	s := newServer(t)
	adminToken := tokenFor(t, s.admin.ID, models.RoleAdmin)
	guruID := uuid.New()

	create := map[string]interface{}{
		"guruId": guruID, "studentId": uuid.New(), "transactionId": "TXN555", "amount": 250,
	}
	status, body := s.json(t, http.MethodPost, "/api/transaction", create, adminToken)
	require.Equal(t, http.StatusCreated, status, body)
	rowID := body["data"].(map[string]interface{})["_id"].(string)

	status, body = s.json(t, http.MethodPost, "/api/transaction", create, adminToken)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Transaction ID already exists", body["message"])

	status, body = s.json(t, http.MethodGet, "/api/transaction/"+rowID+"/pay-teacher", nil, adminToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Transaction order created successfully", body["message"])
	require.Len(t, s.gateway.amounts, 1)
	assert.True(t, s.gateway.amounts[0].Equal(decimal.NewFromInt(250)))

	status, body = s.json(t, http.MethodGet, "/api/transaction/"+uuid.NewString()+"/pay-teacher", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.json(t, http.MethodPost, "/api/payment/create-order", map[string]interface{}{"amount": 99.5}, adminToken)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 9950, body["data"].(map[string]interface{})["amount"])

	status, _ = s.json(t, http.MethodGet, "/api/transaction", nil, tokenFor(t, guruID, models.RoleGuru))
	assert.Equal(t, http.StatusForbidden, status)
}
