package memory

import (
	"context"

	"monsterforge/internal/app/ports"
)

type PlayerCredentialRepo struct {
	store *Store
}

func NewPlayerCredentialRepo(store *Store) PlayerCredentialRepo {
	return PlayerCredentialRepo{store: store}
}

func (r PlayerCredentialRepo) Create(ctx context.Context, credential ports.PlayerCredentialRecord) error {
	defer r.store.writing(ctx)()
	if _, exists := r.store.credentials[credential.PlayerID]; exists {
		return ports.ErrConflict
	}
	r.store.credentials[credential.PlayerID] = credential
	return nil
}

func (r PlayerCredentialRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerCredentialRecord, error) {
	defer r.store.reading(ctx)()
	rec, ok := r.store.credentials[playerID]
	if !ok {
		return ports.PlayerCredentialRecord{}, ports.ErrNotFound
	}
	return rec, nil
}
