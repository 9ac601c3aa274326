package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boighor/bookshop/internal/config"
	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/server/storage"
	storerrors "github.com/boighor/bookshop/internal/server/storage/errors"
)

// fakeStorage keeps the OTP code deterministic so handler tests can
// walk the whole verify flow.
type fakeStorage struct {
	session  storage.Session
	attempts int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		session: storage.Session{
			SID:       "sid-1",
			Code:      "123456",
			ExpiresAt: time.Now().Add(5 * time.Minute),
			Attempts:  3,
		},
		attempts: 3,
	}
}

func (f *fakeStorage) GetBooks() ([]models.Book, error) {
	return []models.Book{{BID: "b-1", Title: "Himu", Price: 25000}}, nil
}

func (f *fakeStorage) GetBook(bid string) (models.Book, error) {
	if bid != "b-1" {
		return models.Book{}, storerrors.ErrBookNoExist
	}
	return models.Book{BID: "b-1", Title: "Himu", Price: 25000}, nil
}

func (f *fakeStorage) CreateSession(draft models.OrderDraft) (storage.Session, error) {
	f.session.Draft = draft
	return f.session, nil
}

func (f *fakeStorage) VerifySession(sid, code string) (models.Order, int, error) {
	if sid != f.session.SID {
		return models.Order{}, 0, storerrors.ErrSessionNotFound
	}
	if code != f.session.Code {
		f.attempts--
		if f.attempts <= 0 {
			return models.Order{}, 0, storerrors.ErrAttemptsExhausted
		}
		return models.Order{}, f.attempts, storerrors.ErrWrongCode
	}
	return models.Order{OID: "ord-1", Total: f.session.Draft.Total()}, 0, nil
}

func (f *fakeStorage) ResendSession(sid string) (storage.Session, error) {
	if sid != f.session.SID {
		return storage.Session{}, storerrors.ErrSessionNotFound
	}
	return f.session, nil
}

func (f *fakeStorage) TTLSeconds() int { return 300 }

func draftBody() []byte {
	body, _ := json.Marshal(models.OrderDraft{
		PhoneNumber:   "+8801712345678",
		Address:       "House 7, Road 3, Dhanmondi, Dhaka",
		PaymentMethod: models.PaymentNagad,
		Items: []models.OrderItem{
			{BID: "b-1", Title: "Himu", Price: 25000, Quantity: 2},
		},
	})
	return body
}

func setupRouter(stor Storage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := New(config.Config{Addr: ":8080"}, stor)
	return s.Router()
}

func postJSON(t *testing.T, router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestInitiateVerifyFlow(t *testing.T) {
	router := setupRouter(newFakeStorage())

	w := postJSON(t, router, "/orders/initiate", draftBody())
	require.Equal(t, http.StatusOK, w.Code)
	var initResp struct {
		SessionToken     string `json:"session_token"`
		ExpiresInSeconds int    `json:"expires_in_seconds"`
		OTPLength        int    `json:"otp_length"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))
	require.NotEmpty(t, initResp.SessionToken)
	assert.Equal(t, 300, initResp.ExpiresInSeconds)
	assert.Equal(t, 6, initResp.OTPLength)

	// wrong code decrements attempts
	body, _ := json.Marshal(gin.H{"session_token": initResp.SessionToken, "pin_code": "000000"})
	w = postJSON(t, router, "/orders/verify", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp struct {
		Detail            string `json:"detail"`
		AttemptsRemaining int    `json:"attempts_remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "wrong code", errResp.Detail)
	assert.Equal(t, 2, errResp.AttemptsRemaining)

	// right code confirms the order
	body, _ = json.Marshal(gin.H{"session_token": initResp.SessionToken, "pin_code": "123456"})
	w = postJSON(t, router, "/orders/verify", body)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "ord-1", order.OID)
	assert.Equal(t, models.Money(50000), order.Total)
}

func TestInitiateRejectsBadDraft(t *testing.T) {
	router := setupRouter(newFakeStorage())

	body, _ := json.Marshal(gin.H{
		"phone_number":   "0171234",
		"address":        "somewhere",
		"payment_method": "NAGAD",
		"books":          []gin.H{{"id": "b-1", "quantity": 1}},
	})
	w := postJSON(t, router, "/orders/initiate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestVerifyUnknownToken(t *testing.T) {
	router := setupRouter(newFakeStorage())

	body, _ := json.Marshal(gin.H{"session_token": "garbage", "pin_code": "123456"})
	w := postJSON(t, router, "/orders/verify", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "invalid session")
}

func TestResendCode(t *testing.T) {
	router := setupRouter(newFakeStorage())

	w := postJSON(t, router, "/orders/initiate", draftBody())
	require.Equal(t, http.StatusOK, w.Code)
	var initResp struct {
		SessionToken string `json:"session_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &initResp))

	body, _ := json.Marshal(gin.H{"session_token": initResp.SessionToken})
	w = postJSON(t, router, "/orders/resend-code", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "expires_in_seconds")
}

func TestBooksEndpoints(t *testing.T) {
	router := setupRouter(newFakeStorage())

	req := httptest.NewRequest(http.MethodGet, "/books/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var books []models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Himu", books[0].Title)

	req = httptest.NewRequest(http.MethodGet, "/books/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
