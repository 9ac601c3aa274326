package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boighor/bookshop/internal/domain/models"
	storerrors "github.com/boighor/bookshop/internal/server/storage/errors"
)

func testDraft() models.OrderDraft {
	return models.OrderDraft{
		PhoneNumber:   "+8801712345678",
		Address:       "House 7, Road 3, Dhanmondi, Dhaka",
		PaymentMethod: models.PaymentCash,
		Items: []models.OrderItem{
			{BID: "b-1", Title: "Shesher Kobita", Price: 30000, Quantity: 2},
		},
	}
}

func TestSeededBooks(t *testing.T) {
	ms := New(time.Minute, 3)

	books, err := ms.GetBooks()
	require.NoError(t, err)
	require.NotEmpty(t, books)

	got, err := ms.GetBook(books[0].BID)
	require.NoError(t, err)
	assert.Equal(t, books[0].Title, got.Title)

	_, err = ms.GetBook("nope")
	assert.ErrorIs(t, err, storerrors.ErrBookNoExist)
}

func TestVerifyHappyPath(t *testing.T) {
	ms := New(time.Minute, 3)

	ses, err := ms.CreateSession(testDraft())
	require.NoError(t, err)
	require.Len(t, ses.Code, 6)

	order, _, err := ms.VerifySession(ses.SID, ses.Code)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OID)
	assert.Equal(t, models.Money(60000), order.Total)
	assert.Equal(t, models.PaymentCash, order.PaymentMethod)

	// session is single-use
	_, _, err = ms.VerifySession(ses.SID, ses.Code)
	assert.ErrorIs(t, err, storerrors.ErrSessionNotFound)
}

func TestWrongCodeCountsDown(t *testing.T) {
	ms := New(time.Minute, 3)
	ses, err := ms.CreateSession(testDraft())
	require.NoError(t, err)

	wrong := "000000"
	if ses.Code == wrong {
		wrong = "000001"
	}

	_, left, err := ms.VerifySession(ses.SID, wrong)
	assert.ErrorIs(t, err, storerrors.ErrWrongCode)
	assert.Equal(t, 2, left)

	_, left, err = ms.VerifySession(ses.SID, wrong)
	assert.ErrorIs(t, err, storerrors.ErrWrongCode)
	assert.Equal(t, 1, left)

	_, _, err = ms.VerifySession(ses.SID, wrong)
	assert.ErrorIs(t, err, storerrors.ErrAttemptsExhausted)

	// the session is gone after exhaustion
	_, _, err = ms.VerifySession(ses.SID, ses.Code)
	assert.ErrorIs(t, err, storerrors.ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	ms := New(10*time.Millisecond, 3)
	ses, err := ms.CreateSession(testDraft())
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, _, err = ms.VerifySession(ses.SID, ses.Code)
	assert.ErrorIs(t, err, storerrors.ErrSessionExpired)
}

func TestResendRotatesCode(t *testing.T) {
	ms := New(time.Minute, 3)
	ses, err := ms.CreateSession(testDraft())
	require.NoError(t, err)

	refreshed, err := ms.ResendSession(ses.SID)
	require.NoError(t, err)
	assert.Equal(t, ses.SID, refreshed.SID)
	assert.False(t, refreshed.ExpiresAt.Before(ses.ExpiresAt))
	assert.Equal(t, ses.Attempts, refreshed.Attempts, "resend keeps the attempt counter")

	// old code no longer works unless the rotation happened to repeat it
	if refreshed.Code != ses.Code {
		_, _, err = ms.VerifySession(ses.SID, ses.Code)
		assert.ErrorIs(t, err, storerrors.ErrWrongCode)
	}

	_, err = ms.ResendSession("missing")
	assert.ErrorIs(t, err, storerrors.ErrSessionNotFound)
}
