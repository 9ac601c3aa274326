package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/logger"
)

const (
	defaultOTPLength  = 6
	defaultSessionTTL = 300 * time.Second
	requestTimeout    = 10 * time.Second
)

// HTTPGateway speaks the orders API JSON contract and maps every
// transport outcome into a closed fault kind.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewHTTP(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		now:     time.Now,
	}
}

type initiateResponse struct {
	SessionToken     string `json:"session_token"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
	OTPLength        int    `json:"otp_length"`
}

type verifyRequest struct {
	SessionToken string `json:"session_token"`
	PinCode      string `json:"pin_code"`
}

type resendRequest struct {
	SessionToken string `json:"session_token"`
}

type errorResponse struct {
	Detail            string `json:"detail"`
	AttemptsRemaining int    `json:"attempts_remaining"`
}

func (g *HTTPGateway) Initiate(ctx context.Context, draft models.OrderDraft) InitiateResult {
	var resp initiateResponse
	if fault := g.post(ctx, "/orders/initiate", draft, &resp); fault != nil {
		return InitiateResult{Fault: fault}
	}
	ttl := defaultSessionTTL
	if resp.ExpiresInSeconds > 0 {
		ttl = time.Duration(resp.ExpiresInSeconds) * time.Second
	}
	otpLen := resp.OTPLength
	if otpLen <= 0 {
		otpLen = defaultOTPLength
	}
	return InitiateResult{
		SessionToken: resp.SessionToken,
		ExpiresAt:    g.now().Add(ttl),
		OTPLength:    otpLen,
	}
}

func (g *HTTPGateway) Verify(ctx context.Context, sessionToken, code string) VerifyResult {
	var order models.Order
	if fault := g.post(ctx, "/orders/verify", verifyRequest{SessionToken: sessionToken, PinCode: code}, &order); fault != nil {
		return VerifyResult{Fault: fault}
	}
	return VerifyResult{Order: &order}
}

func (g *HTTPGateway) Resend(ctx context.Context, sessionToken string) ResendResult {
	var resp initiateResponse
	if fault := g.post(ctx, "/orders/resend-code", resendRequest{SessionToken: sessionToken}, &resp); fault != nil {
		return ResendResult{Fault: fault}
	}
	ttl := defaultSessionTTL
	if resp.ExpiresInSeconds > 0 {
		ttl = time.Duration(resp.ExpiresInSeconds) * time.Second
	}
	return ResendResult{ExpiresAt: g.now().Add(ttl)}
}

func (g *HTTPGateway) post(ctx context.Context, path string, body any, out any) *Fault {
	log := logger.Get()

	payload, err := json.Marshal(body)
	if err != nil {
		return &Fault{Kind: FaultServerError, Detail: err.Error()}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &Fault{Kind: FaultServerError, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("orders API unreachable")
		return &Fault{Kind: FaultNetworkUnavailable, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		fault := classifyDetail(errResp)
		log.Debug().Str("path", path).Int("status", resp.StatusCode).
			Str("detail", errResp.Detail).Str("kind", string(fault.Kind)).Msg("orders API fault")
		return fault
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Fault{Kind: FaultServerError, Detail: err.Error()}
	}
	return nil
}

// classifyDetail normalizes the backend's free-form detail strings
// into the closed fault set. Unrecognized text becomes SERVER_ERROR.
func classifyDetail(resp errorResponse) *Fault {
	detail := strings.ToLower(resp.Detail)
	fault := &Fault{Kind: FaultServerError, Detail: resp.Detail, AttemptsRemaining: resp.AttemptsRemaining}
	switch {
	case strings.Contains(detail, "attempts exhausted"), strings.Contains(detail, "too many attempts"):
		fault.Kind = FaultAttemptsExhausted
	case strings.Contains(detail, "wrong code"), strings.Contains(detail, "invalid code"):
		fault.Kind = FaultWrongCode
	case strings.Contains(detail, "session expired"), strings.Contains(detail, "code expired"):
		fault.Kind = FaultSessionExpired
	case strings.Contains(detail, "invalid session"), strings.Contains(detail, "session not found"):
		fault.Kind = FaultInvalidSession
	}
	return fault
}
