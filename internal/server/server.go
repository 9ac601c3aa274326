package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"

	"github.com/boighor/bookshop/internal/config"
	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/logger"
	"github.com/boighor/bookshop/internal/server/storage"
)

var SecretKey = "DevOnlyBoighorKey2024"

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.RegisteredClaims
	SID string
}

type Storage interface {
	GetBooks() ([]models.Book, error)
	GetBook(string) (models.Book, error)
	CreateSession(models.OrderDraft) (storage.Session, error)
	VerifySession(sid, code string) (models.Order, int, error)
	ResendSession(sid string) (storage.Session, error)
	TTLSeconds() int
}

type Server struct {
	serv    *http.Server
	valid   *validator.Validate
	storage Storage
}

func New(cfg config.Config, stor Storage) *Server {
	server := http.Server{ //nolint:gosec // dev backend
		Addr: cfg.Addr,
	}
	return &Server{
		serv:    &server,
		valid:   validator.New(),
		storage: stor,
	}
}

func (s *Server) Run(ctx context.Context) error {
	log := logger.Get()
	s.serv.Handler = s.Router()
	log.Info().Str("host", s.serv.Addr).Msg("mock orders API started")
	if err := s.serv.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

// Router is exposed separately so tests can mount it on httptest.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	books := router.Group("/books")
	{
		books.GET("/", s.allBooks)
		books.GET("/:id", s.bookInfo)
	}
	orders := router.Group("/orders")
	{
		orders.POST("/initiate", s.initiateOrder)
		orders.POST("/verify", s.verifyOrder)
		orders.POST("/resend-code", s.resendCode)
	}
	return router
}

func (s *Server) ShutdownServer() error {
	return s.serv.Shutdown(context.Background())
}

func createSessionToken(sid string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{SID: sid})
	return token.SignedString([]byte(SecretKey))
}

func parseSessionToken(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(SecretKey), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.SID, nil
}
