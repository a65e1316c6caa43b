package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/creditmonitor/internal/client/identity"
	"github.com/dmitrijs2005/creditmonitor/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/creditmonitor/internal/common"
	"github.com/dmitrijs2005/creditmonitor/internal/dbx"
)

// Persister is the durable credential slot. The Store is its only writer.
type Persister interface {
	Load(ctx context.Context) (Credential, *identity.Identity, error)
	Save(ctx context.Context, cred Credential, id *identity.Identity) error
	Clear(ctx context.Context) error
}

// SQLitePersister keeps the credential in the metadata table of the local
// database. The cached identity is written in the same transaction so the two
// never disagree.
type SQLitePersister struct {
	db   *sql.DB
	repo *metadata.SQLiteRepository
}

func NewSQLitePersister(db *sql.DB) *SQLitePersister {
	return &SQLitePersister{db: db, repo: metadata.NewSQLiteRepository(db)}
}

func (p *SQLitePersister) Load(ctx context.Context) (Credential, *identity.Identity, error) {
	raw, err := p.repo.Get(ctx, common.CredentialKey)
	if err != nil {
		return "", nil, err
	}
	if len(raw) == 0 {
		return "", nil, nil
	}

	rawID, err := p.repo.Get(ctx, common.IdentityKey)
	if err != nil {
		return "", nil, err
	}
	var id *identity.Identity
	if len(rawID) > 0 {
		var decoded identity.Identity
		// a corrupt identity cache only costs the display name
		if json.Unmarshal(rawID, &decoded) == nil {
			id = &decoded
		}
	}

	return Credential(raw), id, nil
}

func (p *SQLitePersister) Save(ctx context.Context, cred Credential, id *identity.Identity) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := p.repo.WithTx(tx)
		if err := repo.Set(ctx, common.CredentialKey, []byte(cred)); err != nil {
			return err
		}
		if id == nil {
			return repo.Delete(ctx, common.IdentityKey)
		}
		data, err := json.Marshal(id)
		if err != nil {
			return fmt.Errorf("encode identity: %w", err)
		}
		return repo.Set(ctx, common.IdentityKey, data)
	})
}

func (p *SQLitePersister) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := p.repo.WithTx(tx)
		if err := repo.Delete(ctx, common.CredentialKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.IdentityKey)
	})
}
