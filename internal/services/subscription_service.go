package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"

	"moaqeb-backend/internal/config"
	"moaqeb-backend/internal/models"
	"moaqeb-backend/internal/repositories"

	razorpay "github.com/razorpay/razorpay-go"
)

type SubscriptionService struct {
	Repo     *repositories.SubscriptionRepository
	Users    *repositories.UserRepository
	Settings *repositories.SettingRepository
	cfg      *config.Config
}

func NewSubscriptionService(repo *repositories.SubscriptionRepository, users *repositories.UserRepository, settings *repositories.SettingRepository, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{Repo: repo, Users: users, Settings: settings, cfg: cfg}
}

func (s *SubscriptionService) client() *razorpay.Client {
	if s.cfg.Razorpay.KeyID == "" || s.cfg.Razorpay.KeySecret == "" {
		return nil
	}
	return razorpay.NewClient(s.cfg.Razorpay.KeyID, s.cfg.Razorpay.KeySecret)
}

// PaymentOrder is returned to the frontend to open the checkout widget
type PaymentOrder struct {
	Request *models.SubscriptionRequest `json:"request"`
	OrderID string                      `json:"order_id,omitempty"`
	KeyID   string                      `json:"key_id,omitempty"`
}

// Request files a golden subscription request. With payment credentials
// configured an online order is created and the request auto-approves
// when the payment is captured; otherwise it waits for manual approval.
func (s *SubscriptionService) Request(ctx context.Context, user *models.User, req *models.CreateSubscriptionRequest) (*PaymentOrder, error) {
	if req.Months <= 0 || req.Months > 36 {
		return nil, errors.New("months must be between 1 and 36")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if user.Role == models.RoleEmployee {
		return nil, errors.New("only the office owner can subscribe")
	}

	sub := &models.SubscriptionRequest{
		UserID: user.ID,
		Months: req.Months,
		Amount: req.Amount,
	}

	client := s.client()
	if client != nil {
		order, err := client.Order.Create(map[string]interface{}{
			"amount":   int(req.Amount * 100), // paise
			"currency": "INR",
			"notes":    map[string]interface{}{"user_id": user.ID},
		}, nil)
		if err != nil {
			log.Printf("[Subscription] order creation failed, falling back to manual approval: %v", err)
		} else if id, ok := order["id"].(string); ok {
			sub.PaymentOrderID = id
		}
	}

	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return &PaymentOrder{Request: sub, OrderID: sub.PaymentOrderID, KeyID: s.cfg.Razorpay.KeyID}, nil
}

// VerifyWebhookSignature checks the HMAC the payment gateway signs the
// webhook body with.
func (s *SubscriptionService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.cfg.Razorpay.WebhookSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.cfg.Razorpay.WebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook auto-approves the request a captured payment belongs to
func (s *SubscriptionService) HandleWebhook(ctx context.Context, body []byte) error {
	var payload struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					OrderID string `json:"order_id"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return err
	}
	if payload.Event != "payment.captured" {
		return nil
	}

	sub, err := s.Repo.GetByOrderID(ctx, payload.Payload.Payment.Entity.OrderID)
	if err != nil {
		return errors.New("no request for captured order")
	}
	return s.approve(ctx, sub.ID)
}

func (s *SubscriptionService) approve(ctx context.Context, requestID int) error {
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return err
	}
	return s.Repo.Approve(ctx, requestID, settings.AffiliatePct)
}

// Approve is the manual path used by the platform operator
func (s *SubscriptionService) Approve(ctx context.Context, requestID int) error {
	return s.approve(ctx, requestID)
}

func (s *SubscriptionService) Reject(ctx context.Context, requestID int) error {
	return s.Repo.Reject(ctx, requestID)
}

func (s *SubscriptionService) List(ctx context.Context, status models.RequestStatus) ([]models.SubscriptionRequest, error) {
	return s.Repo.List(ctx, status)
}

// RequestWithdrawal asks to pay out accumulated affiliate balance
func (s *SubscriptionService) RequestWithdrawal(ctx context.Context, user *models.User, req *models.CreateWithdrawalRequest) (*models.WithdrawalRequest, error) {
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if req.Amount > user.AffiliateBalance {
		return nil, errors.New("amount exceeds affiliate balance")
	}
	w := &models.WithdrawalRequest{UserID: user.ID, Amount: req.Amount}
	if err := s.Repo.CreateWithdrawal(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *SubscriptionService) ListWithdrawals(ctx context.Context, status models.RequestStatus) ([]models.WithdrawalRequest, error) {
	return s.Repo.ListWithdrawals(ctx, status)
}

func (s *SubscriptionService) ApproveWithdrawal(ctx context.Context, requestID int) error {
	return s.Repo.ApproveWithdrawal(ctx, requestID)
}

func (s *SubscriptionService) RejectWithdrawal(ctx context.Context, requestID int) error {
	return s.Repo.RejectWithdrawal(ctx, requestID)
}
