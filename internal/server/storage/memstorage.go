package storage

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/logger"
	storerrors "github.com/boighor/bookshop/internal/server/storage/errors"
)

// Session is one pending phone verification held by the dev backend.
type Session struct {
	SID       string
	Draft     models.OrderDraft
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

type MemStorage struct {
	books    map[string]models.Book
	order    []string // book display order
	sessions map[string]*Session

	ttl         time.Duration
	maxAttempts int
	fixedCode   string
}

type Option func(*MemStorage)

// WithFixedCode pins the OTP instead of rolling a random one. Meant
// for local development and tests.
func WithFixedCode(code string) Option {
	return func(ms *MemStorage) { ms.fixedCode = code }
}

func New(ttl time.Duration, maxAttempts int, opts ...Option) *MemStorage {
	ms := &MemStorage{
		books:       make(map[string]models.Book),
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		maxAttempts: maxAttempts,
	}
	for _, opt := range opts {
		opt(ms)
	}
	ms.seedBooks()
	return ms
}

func (ms *MemStorage) newCode() string {
	if ms.fixedCode != "" {
		return ms.fixedCode
	}
	return fmt.Sprintf("%06d", rand.IntN(1000000))
}

func (ms *MemStorage) seedBooks() {
	seed := []models.Book{
		{Title: "Pather Panchali", Author: "Bibhutibhushan Bandyopadhyay", Genre: "Novel", Price: 45000},
		{Title: "Feluda Samagra", Author: "Satyajit Ray", Genre: "Detective", Price: 120000},
		{Title: "Shesher Kobita", Author: "Rabindranath Tagore", Genre: "Novel", Price: 30000},
		{Title: "Himu", Author: "Humayun Ahmed", Genre: "Novel", Price: 25000},
		{Title: "Aranyak", Author: "Bibhutibhushan Bandyopadhyay", Genre: "Novel", Price: 38000},
	}
	for _, b := range seed {
		b.BID = uuid.New().String()
		ms.books[b.BID] = b
		ms.order = append(ms.order, b.BID)
	}
}

func (ms *MemStorage) GetBooks() ([]models.Book, error) {
	if len(ms.books) == 0 {
		return nil, storerrors.ErrEmptyBooksList
	}
	books := make([]models.Book, 0, len(ms.books))
	for _, bid := range ms.order {
		books = append(books, ms.books[bid])
	}
	return books, nil
}

func (ms *MemStorage) GetBook(bid string) (models.Book, error) {
	book, ok := ms.books[bid]
	if !ok {
		return models.Book{}, storerrors.ErrBookNoExist
	}
	return book, nil
}

// CreateSession issues a fresh verification session. The OTP is only
// logged; this backend has no SMS provider behind it.
func (ms *MemStorage) CreateSession(draft models.OrderDraft) (Session, error) {
	log := logger.Get()
	ses := &Session{
		SID:       uuid.New().String(),
		Draft:     draft,
		Code:      ms.newCode(),
		ExpiresAt: time.Now().Add(ms.ttl),
		Attempts:  ms.maxAttempts,
	}
	ms.sessions[ses.SID] = ses
	log.Info().Str("sid", ses.SID).Str("otp", ses.Code).Str("phone", draft.PhoneNumber).Msg("verification code issued")
	return *ses, nil
}

// VerifySession checks the code and, on success, turns the draft into
// a confirmed order. The returned int is the attempts remaining and is
// meaningful only with ErrWrongCode.
func (ms *MemStorage) VerifySession(sid, code string) (models.Order, int, error) {
	ses, ok := ms.sessions[sid]
	if !ok {
		return models.Order{}, 0, storerrors.ErrSessionNotFound
	}
	if time.Now().After(ses.ExpiresAt) {
		delete(ms.sessions, sid)
		return models.Order{}, 0, storerrors.ErrSessionExpired
	}
	if ses.Attempts <= 0 {
		delete(ms.sessions, sid)
		return models.Order{}, 0, storerrors.ErrAttemptsExhausted
	}
	if code != ses.Code {
		ses.Attempts--
		if ses.Attempts <= 0 {
			delete(ms.sessions, sid)
			return models.Order{}, 0, storerrors.ErrAttemptsExhausted
		}
		return models.Order{}, ses.Attempts, storerrors.ErrWrongCode
	}
	delete(ms.sessions, sid)
	order := models.Order{
		OID:           uuid.New().String(),
		PhoneNumber:   ses.Draft.PhoneNumber,
		Address:       ses.Draft.Address,
		PaymentMethod: ses.Draft.PaymentMethod,
		Items:         ses.Draft.Items,
		Total:         ses.Draft.Total(),
		ConfirmedAt:   time.Now(),
	}
	return order, 0, nil
}

// ResendSession rotates the code and pushes the deadline out. The
// attempt counter is left alone.
func (ms *MemStorage) ResendSession(sid string) (Session, error) {
	log := logger.Get()
	ses, ok := ms.sessions[sid]
	if !ok {
		return Session{}, storerrors.ErrSessionNotFound
	}
	if time.Now().After(ses.ExpiresAt) {
		delete(ms.sessions, sid)
		return Session{}, storerrors.ErrSessionExpired
	}
	ses.Code = ms.newCode()
	ses.ExpiresAt = time.Now().Add(ms.ttl)
	log.Info().Str("sid", ses.SID).Str("otp", ses.Code).Msg("verification code resent")
	return *ses, nil
}

// TTLSeconds is what initiate/resend report as expires_in_seconds.
func (ms *MemStorage) TTLSeconds() int {
	return int(ms.ttl / time.Second)
}
