package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"serv00_keepalive/internal/model"
)

func (s *Store) RecordResult(ctx context.Context, rec model.CheckRecord) (model.CheckRecord, error) {
	if rec.PanelURL == "" || rec.Username == "" {
		return model.CheckRecord{}, errors.New("panel_url and username are required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO check_history (id, run_id, panel_url, username, status, message, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.PanelURL, rec.Username, string(rec.Status), rec.Message, rec.Details, rec.CreatedAt.UnixMilli())
	if err != nil {
		return model.CheckRecord{}, err
	}
	return rec, nil
}

// RecentResults 按时间倒序返回某个账号最近的检查记录。
func (s *Store) RecentResults(ctx context.Context, panelURL, username string, limit int) ([]model.CheckRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, panel_url, username, status, message, details, created_at
		FROM check_history
		WHERE panel_url = ? AND username = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, panelURL, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CheckRecord
	for rows.Next() {
		var rec model.CheckRecord
		var status string
		var createdAt int64
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.PanelURL, &rec.Username, &status, &rec.Message, &rec.Details, &createdAt); err != nil {
			return nil, err
		}
		rec.Status = model.AccountStatus(status)
		rec.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}
