package postgre

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	repo "unified-calendar/internal/credential/repository"
	"unified-calendar/internal/model"
)

// GetOneAccount returns a zero-value account when nothing matches.
func (r *implRepository) GetOneAccount(ctx context.Context, opt repo.GetOneAccountOptions) (model.ConnectedAccount, error) {
	var row accountRow
	err := r.buildGetOneQuery(r.db.WithContext(ctx), opt).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ConnectedAccount{}, nil
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetOneAccount"), err)
		return model.ConnectedAccount{}, repo.ErrFailedToGet
	}
	return row.toModel(), nil
}

func (r *implRepository) ListAccounts(ctx context.Context, opt repo.ListAccountsOptions) ([]model.ConnectedAccount, error) {
	var rows []accountRow
	if err := r.buildListQuery(r.db.WithContext(ctx), opt).Find(&rows).Error; err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListAccounts"), err)
		return nil, repo.ErrFailedToList
	}

	accounts := make([]model.ConnectedAccount, len(rows))
	for i, row := range rows {
		accounts[i] = row.toModel()
	}
	return accounts, nil
}

func (r *implRepository) ReplaceAccount(ctx context.Context, opt repo.CreateAccountOptions) (model.ConnectedAccount, error) {
	now := time.Now().UTC()
	row := accountRow{
		ID:                    uuid.NewString(),
		UserID:                opt.UserID,
		Provider:              string(opt.Provider),
		AccountEmail:          opt.AccountEmail,
		AccessTokenEncrypted:  opt.AccessTokenEncrypted,
		RefreshTokenEncrypted: opt.RefreshTokenEncrypted,
		TokenExpiry:           opt.TokenExpiry,
		Scopes:                strings.Join(opt.Scopes, " "),
		Status:                string(model.AccountStatusActive),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND provider = ?", opt.UserID, string(opt.Provider)).
			Delete(&accountRow{}).Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ReplaceAccount"), err)
		return model.ConnectedAccount{}, repo.ErrFailedToInsert
	}
	return row.toModel(), nil
}

func (r *implRepository) UpdateTokens(ctx context.Context, opt repo.UpdateTokensOptions) error {
	updates := map[string]any{
		"access_token_encrypted": opt.AccessTokenEncrypted,
		"token_expiry":           opt.TokenExpiry,
		"updated_at":             time.Now().UTC(),
	}
	if opt.RefreshTokenEncrypted != "" {
		updates["refresh_token_encrypted"] = opt.RefreshTokenEncrypted
	}

	res := r.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", opt.ID).Updates(updates)
	if res.Error != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateTokens"), res.Error)
		return repo.ErrFailedToUpdate
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *implRepository) UpdateStatus(ctx context.Context, id string, status model.AccountStatus) error {
	res := r.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", id).Updates(map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("UpdateStatus"), res.Error)
		return repo.ErrFailedToUpdate
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *implRepository) DeleteAccounts(ctx context.Context, opt repo.DeleteAccountsOptions) (int64, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", opt.UserID)
	if opt.Provider != "" {
		q = q.Where("provider = ?", string(opt.Provider))
	}
	res := q.Delete(&accountRow{})
	if res.Error != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteAccounts"), res.Error)
		return 0, repo.ErrFailedToDelete
	}
	return res.RowsAffected, nil
}
