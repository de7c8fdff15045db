package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrWorkerNotFound indicates no worker matched the lookup.
	ErrWorkerNotFound = errors.New("identity: worker not found")
	// ErrInvalidCredentials indicates a failed login. The same error covers an
	// unknown CPF and a wrong password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrCurrentPasswordRequired indicates a password change without the
	// current password.
	ErrCurrentPasswordRequired = errors.New("identity: current password required to set a new password")
	// ErrInvalidCPF indicates a malformed CPF.
	ErrInvalidCPF = errors.New("identity: cpf must have 11 digits")
	// ErrNoCooperative indicates the worker lacks a cooperative, a
	// precondition for recording weighings and querying the leaderboard.
	ErrNoCooperative = errors.New("identity: worker has no cooperative")
)

const cpfLength = 11

// Worker is an authenticated collector account.
type Worker struct {
	ID            int64
	Name          string
	Email         string
	CPF           string
	PasswordHash  []byte
	CooperativeID *int64
	UpdatedAt     time.Time
}

// HasCooperative reports whether the worker belongs to a cooperative.
// Workers without one cannot record weighings or query the leaderboard.
func (w *Worker) HasCooperative() bool {
	return w != nil && w.CooperativeID != nil
}

// WorkerProfile is a worker joined with its cooperative name, the shape most
// read paths and response payloads need.
type WorkerProfile struct {
	Worker
	CooperativeName *string
}

// Cooperative groups workers and devices.
type Cooperative struct {
	ID   int64
	Name string
}

// ProfileUpdate carries the optional fields of a profile change. Nil members
// are left untouched.
type ProfileUpdate struct {
	Name            *string
	Email           *string
	CurrentPassword *string
	NewPassword     *string
}

// Empty reports whether the update would change nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.NewPassword == nil
}

// NormalizeCPF strips non-digit characters and validates the length.
func NormalizeCPF(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	cpf := b.String()
	if len(cpf) != cpfLength {
		return "", ErrInvalidCPF
	}
	return cpf, nil
}
