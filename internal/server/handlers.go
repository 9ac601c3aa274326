package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/logger"
	storerrors "github.com/boighor/bookshop/internal/server/storage/errors"
)

type verifyRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
	PinCode      string `json:"pin_code" validate:"required"`
}

type resendRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
}

func (s *Server) allBooks(ctx *gin.Context) {
	books, err := s.storage.GetBooks()
	if err != nil {
		if errors.Is(err, storerrors.ErrEmptyBooksList) {
			ctx.String(http.StatusNotFound, err.Error())
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, books)
}

func (s *Server) bookInfo(ctx *gin.Context) {
	book, err := s.storage.GetBook(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, storerrors.ErrBookNoExist) {
			ctx.String(http.StatusNotFound, err.Error())
			return
		}
		ctx.String(http.StatusInternalServerError, err.Error())
		return
	}
	ctx.JSON(http.StatusOK, book)
}

func (s *Server) initiateOrder(ctx *gin.Context) {
	log := logger.Get()

	var draft models.OrderDraft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		log.Error().Err(err).Msg("unmarshal draft failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "incorrectly entered data"})
		return
	}
	if err := s.valid.Struct(draft); err != nil {
		log.Error().Err(err).Msg("draft validation failed")
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	ses, err := s.storage.CreateSession(draft)
	if err != nil {
		log.Error().Err(err).Msg("failed to create session")
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	token, err := createSessionToken(ses.SID)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign session token")
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"session_token":      token,
		"expires_in_seconds": s.storage.TTLSeconds(),
		"otp_length":         len(ses.Code),
	})
}

func (s *Server) verifyOrder(ctx *gin.Context) {
	log := logger.Get()

	var req verifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "incorrectly entered data"})
		return
	}
	sid, err := parseSessionToken(req.SessionToken)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": storerrors.ErrSessionNotFound.Error()})
		return
	}

	order, attempts, err := s.storage.VerifySession(sid, req.PinCode)
	if err != nil {
		switch {
		case errors.Is(err, storerrors.ErrSessionNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		case errors.Is(err, storerrors.ErrSessionExpired):
			ctx.JSON(http.StatusGone, gin.H{"detail": err.Error()})
		case errors.Is(err, storerrors.ErrWrongCode):
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error(), "attempts_remaining": attempts})
		case errors.Is(err, storerrors.ErrAttemptsExhausted):
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			log.Error().Err(err).Msg("verify failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, order)
}

func (s *Server) resendCode(ctx *gin.Context) {
	log := logger.Get()

	var req resendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "incorrectly entered data"})
		return
	}
	sid, err := parseSessionToken(req.SessionToken)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"detail": storerrors.ErrSessionNotFound.Error()})
		return
	}

	if _, err := s.storage.ResendSession(sid); err != nil {
		switch {
		case errors.Is(err, storerrors.ErrSessionNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		case errors.Is(err, storerrors.ErrSessionExpired):
			ctx.JSON(http.StatusGone, gin.H{"detail": err.Error()})
		default:
			log.Error().Err(err).Msg("resend failed")
			ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"expires_in_seconds": s.storage.TTLSeconds()})
}
