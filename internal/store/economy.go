package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned by SpendBalance when the wallet
// cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient balance")

// AddBalance credits amount to a user's wallet, creating it at that
// amount if absent.
func (s *SQLiteStore) AddBalance(ctx context.Context, guildID, userID, amount int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (guild_id, user_id, balance) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET balance = balance + excluded.balance
	`, guildID, userID, amount)
	return storageErr(fmt.Sprintf("add balance %d/%d", guildID, userID), err)
}

// SpendBalance debits amount, failing with ErrInsufficientFunds rather
// than letting the balance go negative.
func (s *SQLiteStore) SpendBalance(ctx context.Context, guildID, userID, amount int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE wallets SET balance = balance - ?
		WHERE guild_id = ? AND user_id = ? AND balance >= ?
	`, amount, guildID, userID, amount)
	if err != nil {
		return storageErr(fmt.Sprintf("spend balance %d/%d", guildID, userID), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(fmt.Sprintf("spend balance %d/%d", guildID, userID), err)
	}
	if n == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

// GetWallet returns a user's wallet; an absent wallet reads as zero.
func (s *SQLiteStore) GetWallet(ctx context.Context, guildID, userID int64) (*Wallet, error) {
	var w Wallet
	err := s.db.GetContext(ctx, &w,
		"SELECT * FROM wallets WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return &Wallet{GuildID: guildID, UserID: userID}, nil
	}
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get wallet %d/%d", guildID, userID), err)
	}
	return &w, nil
}

// AddItem adds quantity of an item to a user's inventory.
func (s *SQLiteStore) AddItem(ctx context.Context, guildID, userID int64, item string, quantity int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (guild_id, user_id, item, quantity) VALUES (?, ?, ?, ?)
		ON CONFLICT(guild_id, user_id, item) DO UPDATE SET quantity = quantity + excluded.quantity
	`, guildID, userID, item, quantity)
	return storageErr(fmt.Sprintf("add item %d/%d %s", guildID, userID, item), err)
}

// GetInventory returns a user's items with positive quantity.
func (s *SQLiteStore) GetInventory(ctx context.Context, guildID, userID int64) ([]InventoryItem, error) {
	var rows []InventoryItem
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM inventory WHERE guild_id = ? AND user_id = ? AND quantity > 0 ORDER BY item",
		guildID, userID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("get inventory %d/%d", guildID, userID), err)
	}
	return rows, nil
}

// GrantAchievement awards a named badge, idempotently: granting the
// same badge twice keeps the original timestamp.
func (s *SQLiteStore) GrantAchievement(ctx context.Context, guildID, userID int64, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO achievements (guild_id, user_id, name, earned_ts)
		VALUES (?, ?, ?, ?)
	`, guildID, userID, name, nowUnix())
	return storageErr(fmt.Sprintf("grant achievement %d/%d %s", guildID, userID, name), err)
}

// Achievements returns a user's badges, earliest first.
func (s *SQLiteStore) Achievements(ctx context.Context, guildID, userID int64) ([]Achievement, error) {
	var rows []Achievement
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM achievements WHERE guild_id = ? AND user_id = ? ORDER BY earned_ts, name",
		guildID, userID)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("achievements %d/%d", guildID, userID), err)
	}
	return rows, nil
}
