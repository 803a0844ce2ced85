package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lumanotes/session-backend/internal/models"
	"github.com/mileusna/useragent"
)

// AuthAction discriminates what a form submission asks for.
type AuthAction string

const (
	ActionLogin AuthAction = "login"
	ActionJoin  AuthAction = "join"
)

// Credentials is one authentication request as extracted from a form
// submission. Structural validation (email shape, password length) happens at
// the controller before a strategy ever sees it.
type Credentials struct {
	Action    AuthAction
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// Identity is a successful authentication outcome.
type Identity struct {
	UserID uuid.UUID
	Device models.DeviceData
}

// Strategy is one pluggable way of turning credentials into an identity.
type Strategy interface {
	Authenticate(ctx context.Context, creds Credentials) (*Identity, error)
}

// StrategyRegistry dispatches to named strategies. It is injected into the
// request-handling context rather than living as process-wide state.
type StrategyRegistry struct {
	strategies map[string]Strategy
}

func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{strategies: make(map[string]Strategy)}
}

func (r *StrategyRegistry) Register(name string, strategy Strategy) {
	r.strategies[name] = strategy
}

func (r *StrategyRegistry) Authenticate(ctx context.Context, name string, creds Credentials) (*Identity, error) {
	strategy, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown auth strategy %q", name)
	}
	return strategy.Authenticate(ctx, creds)
}

// FormStrategy authenticates email/password form submissions. Login delegates
// to VerifyLogin; join delegates to CreateUser and assumes the caller already
// validated the fields.
type FormStrategy struct {
	creds *CredentialService
}

func NewFormStrategy(creds *CredentialService) *FormStrategy {
	return &FormStrategy{creds: creds}
}

func (s *FormStrategy) Authenticate(ctx context.Context, creds Credentials) (*Identity, error) {
	var user *models.User
	var err error

	switch creds.Action {
	case ActionLogin:
		user, err = s.creds.VerifyLogin(ctx, creds.Email, creds.Password, creds.IPAddress)
	case ActionJoin:
		user, err = s.creds.CreateUser(ctx, creds.Email, creds.Password)
	default:
		return nil, fmt.Errorf("unsupported auth action %q", creds.Action)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		UserID: user.ID,
		Device: parseDevice(creds.UserAgent, creds.IPAddress),
	}, nil
}

// parseDevice turns a raw User-Agent header plus the request IP into the
// fixed device schema stored on the session.
func parseDevice(rawUA, ip string) models.DeviceData {
	ua := useragent.Parse(rawUA)
	device := ua.Device
	if device == "" {
		switch {
		case ua.Mobile:
			device = "mobile"
		case ua.Tablet:
			device = "tablet"
		case ua.Desktop:
			device = "desktop"
		}
	}
	return models.DeviceData{
		Browser:        ua.Name,
		BrowserVersion: ua.Version,
		OS:             ua.OS,
		Device:         device,
		IPAddress:      ip,
	}
}
