package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ttvMolten/Egov-services-db/internal/config"
	"github.com/ttvMolten/Egov-services-db/internal/domain"
	"github.com/ttvMolten/Egov-services-db/internal/metrics"
	"github.com/ttvMolten/Egov-services-db/internal/ports"
	"github.com/ttvMolten/Egov-services-db/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Store  ports.Store
	Config config.Config
	Logger *slog.Logger
	Now    func() time.Time
	// HashCost overrides bcrypt.DefaultCost when non-zero.
	HashCost int
}

type LoginResult struct {
	Employee    domain.Employee
	Shift       domain.Shift
	ShiftOpened bool
	AccessToken string
	ExpiresAt   time.Time
}

type RegisterEmployeeInput struct {
	Name     string
	BranchID int64
	PIN      string
	Role     string
}

// Login finds the employee by PIN digest, confirms the bcrypt hash and opens
// (or reuses) the employee's shift in the same unit of work.
func (s AuthService) Login(ctx context.Context, pin string) (*LoginResult, error) {
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil, ErrInvalidCredentials
	}
	now := clock(s.Now)
	lookup := s.pinLookup(pin)

	var res LoginResult
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		emp, err := tx.EmployeeByPINLookup(ctx, lookup)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if !emp.Active || bcrypt.CompareHashAndPassword([]byte(emp.PinHash), []byte(pin)) != nil {
			return ErrInvalidCredentials
		}
		shift, created, err := tx.OpenShift(ctx, emp.ID, now)
		if err != nil {
			return fmt.Errorf("open shift: %w", err)
		}
		res.Employee = *emp
		res.Shift = *shift
		res.ShiftOpened = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.ShiftOpened {
		metrics.ShiftsOpened.Inc()
		s.Logger.Info("shift opened", "employee_id", res.Employee.ID, "shift_id", res.Shift.ID)
	}

	token, exp, err := s.issueToken(res.Employee, now)
	if err != nil {
		return nil, err
	}
	res.AccessToken = token
	res.ExpiresAt = exp
	return &res, nil
}

func (s AuthService) RegisterEmployee(ctx context.Context, in RegisterEmployeeInput) (*domain.Employee, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !validPIN(in.PIN) {
		return nil, ErrInvalidPIN
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.PIN), cost)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	var created *domain.Employee
	err = s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		var err error
		created, err = tx.InsertEmployee(ctx, domain.Employee{
			Name:      name,
			BranchID:  in.BranchID,
			Role:      role,
			Active:    true,
			PinHash:   string(hash),
			PinLookup: s.pinLookup(in.PIN),
			CreatedAt: clock(s.Now),
		})
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicatePIN
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.Logger.Info("employee created", "employee_id", created.ID, "role", created.Role)
	return created, nil
}

// EnsureAdmin creates the bootstrap admin when no active admin exists.
func (s AuthService) EnsureAdmin(ctx context.Context, name, pin string, branchID int64) error {
	var exists bool
	err := s.Store.InTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		employees, err := tx.Employees(ctx)
		if err != nil {
			return err
		}
		for _, e := range employees {
			if e.Active && e.IsAdmin() {
				exists = true
				break
			}
		}
		return nil
	})
	if err != nil || exists {
		return err
	}
	if pin == "" {
		s.Logger.Warn("no admin account and BOOTSTRAP_ADMIN_PIN is empty")
		return nil
	}
	_, err = s.RegisterEmployee(ctx, RegisterEmployeeInput{
		Name:     name,
		BranchID: branchID,
		PIN:      pin,
		Role:     string(domain.RoleAdmin),
	})
	return err
}

func (s AuthService) issueToken(emp domain.Employee, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.Config.AccessTokenTTL)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        fmt.Sprintf("%d", emp.ID),
		"name":       emp.Name,
		"role":       string(emp.Role),
		"branch":     emp.BranchID,
		"token_type": "access",
		"exp":        exp.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

// pinLookup is the HMAC-SHA256 of the PIN. It keys the unique index that
// finds an employee in one query; the bcrypt hash still has to match.
func (s AuthService) pinLookup(pin string) string {
	key := s.Config.PINLookupKey
	if key == "" {
		key = s.Config.JWTSecret
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(pin))
	return hex.EncodeToString(mac.Sum(nil))
}

func validPIN(pin string) bool {
	if len(pin) < 4 || len(pin) > 8 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
