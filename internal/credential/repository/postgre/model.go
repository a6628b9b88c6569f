package postgre

import (
	"strings"
	"time"

	"unified-calendar/internal/model"
)

// accountRow maps the connected_accounts table.
type accountRow struct {
	ID                    string    `gorm:"column:id;primaryKey"`
	UserID                string    `gorm:"column:user_id"`
	Provider              string    `gorm:"column:provider"`
	AccountEmail          string    `gorm:"column:account_email"`
	AccessTokenEncrypted  string    `gorm:"column:access_token_encrypted"`
	RefreshTokenEncrypted string    `gorm:"column:refresh_token_encrypted"`
	TokenExpiry           time.Time `gorm:"column:token_expiry"`
	Scopes                string    `gorm:"column:scopes"`
	Status                string    `gorm:"column:status"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (accountRow) TableName() string {
	return "connected_accounts"
}

func (r accountRow) toModel() model.ConnectedAccount {
	var scopes []string
	if r.Scopes != "" {
		scopes = strings.Fields(r.Scopes)
	}
	return model.ConnectedAccount{
		ID:                    r.ID,
		UserID:                r.UserID,
		Provider:              model.Provider(r.Provider),
		AccountEmail:          r.AccountEmail,
		AccessTokenEncrypted:  r.AccessTokenEncrypted,
		RefreshTokenEncrypted: r.RefreshTokenEncrypted,
		TokenExpiry:           r.TokenExpiry,
		Scopes:                scopes,
		Status:                model.AccountStatus(r.Status),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}
