package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"monsterforge/internal/app/ports"
)

func TestRegisterUseCase_MintsCredential(t *testing.T) {
	creds := &fakeCredentialRepo{}
	uc := RegisterUseCase{
		Credentials: creds,
		TxManager:   fakeTxManager{},
		Now:         func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}

	resp, err := uc.Execute(context.Background(), RegisterRequest{})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}
	if !strings.HasPrefix(resp.PlayerID, "plr_20231114_") {
		t.Fatalf("unexpected player id format: %s", resp.PlayerID)
	}
	if resp.PlayerKey == "" || resp.IssuedAt == "" {
		t.Fatalf("expected non-empty register response: %+v", resp)
	}
	if creds.last.PlayerID != resp.PlayerID {
		t.Fatalf("credential player mismatch: %s != %s", creds.last.PlayerID, resp.PlayerID)
	}
	if len(creds.last.KeySalt) == 0 || len(creds.last.KeyHash) == 0 {
		t.Fatalf("expected credential salt/hash stored")
	}
	if creds.last.Status != CredentialStatusActive {
		t.Fatalf("expected active credential, got %q", creds.last.Status)
	}
}

func TestRegisterUseCase_RetriesOnIDCollision(t *testing.T) {
	creds := &fakeCredentialRepo{createErrs: []error{ports.ErrConflict, ports.ErrConflict}}
	uc := RegisterUseCase{
		Credentials: creds,
		TxManager:   fakeTxManager{},
		Now:         func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}

	resp, err := uc.Execute(context.Background(), RegisterRequest{})
	if err != nil {
		t.Fatalf("register error after retries: %v", err)
	}
	if creds.createCalls != 3 {
		t.Fatalf("expected 3 create attempts, got %d", creds.createCalls)
	}
	if resp.PlayerID == "" {
		t.Fatalf("expected player id after retry")
	}
}

func TestRegisterUseCase_GivesUpAfterRepeatedCollisions(t *testing.T) {
	creds := &fakeCredentialRepo{createErrs: []error{ports.ErrConflict, ports.ErrConflict, ports.ErrConflict}}
	uc := RegisterUseCase{
		Credentials: creds,
		TxManager:   fakeTxManager{},
		Now:         func() time.Time { return time.Unix(1700000000, 0).UTC() },
	}

	_, err := uc.Execute(context.Background(), RegisterRequest{})
	if err != ports.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestVerifyUseCase_AcceptsValidCredentials(t *testing.T) {
	salt := []byte("salt")
	key := "player-secret"
	repo := &fakeCredentialRepo{
		getResult: ports.PlayerCredentialRecord{
			PlayerID: "plr_1",
			KeySalt:  salt,
			KeyHash:  credentialHash(salt, key),
			Status:   CredentialStatusActive,
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	if err := uc.Execute(context.Background(), VerifyRequest{PlayerID: "plr_1", PlayerKey: key}); err != nil {
		t.Fatalf("verify error: %v", err)
	}
}

func TestVerifyUseCase_RejectsInvalidCredentials(t *testing.T) {
	salt := []byte("salt")
	repo := &fakeCredentialRepo{
		getResult: ports.PlayerCredentialRecord{
			PlayerID: "plr_1",
			KeySalt:  salt,
			KeyHash:  credentialHash(salt, "correct"),
			Status:   CredentialStatusActive,
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	err := uc.Execute(context.Background(), VerifyRequest{PlayerID: "plr_1", PlayerKey: "wrong"})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyUseCase_RejectsUnknownPlayer(t *testing.T) {
	repo := &fakeCredentialRepo{getErr: ports.ErrNotFound}
	uc := VerifyUseCase{Credentials: repo}

	err := uc.Execute(context.Background(), VerifyRequest{PlayerID: "plr_missing", PlayerKey: "k"})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyUseCase_RejectsRevokedCredential(t *testing.T) {
	salt := []byte("salt")
	repo := &fakeCredentialRepo{
		getResult: ports.PlayerCredentialRecord{
			PlayerID: "plr_1",
			KeySalt:  salt,
			KeyHash:  credentialHash(salt, "k"),
			Status:   "revoked",
		},
	}
	uc := VerifyUseCase{Credentials: repo}

	err := uc.Execute(context.Background(), VerifyRequest{PlayerID: "plr_1", PlayerKey: "k"})
	if err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

type fakeCredentialRepo struct {
	last        ports.PlayerCredentialRecord
	createErrs  []error
	createCalls int
	getResult   ports.PlayerCredentialRecord
	getErr      error
}

func (f *fakeCredentialRepo) Create(_ context.Context, credential ports.PlayerCredentialRecord) error {
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	f.last = credential
	return nil
}

func (f *fakeCredentialRepo) GetByPlayerID(_ context.Context, _ string) (ports.PlayerCredentialRecord, error) {
	if f.getErr != nil {
		return ports.PlayerCredentialRecord{}, f.getErr
	}
	return f.getResult, nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
