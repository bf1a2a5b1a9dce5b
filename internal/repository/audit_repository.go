package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hiredronepilots/api/internal/model"
)

// AuditRepo appends to the `audit_events` log.  Rows are only ever
// inserted; there is no update or delete path.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// InsertTx appends an event inside the transaction of the state change
// it describes, so rolled-back transitions leave no trace in the log.
// A missing id is assigned a fresh UUID.
func (r *AuditRepo) InsertTx(ctx context.Context, tx *sql.Tx, ev model.AuditEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	var actor any
	if ev.ActorID != nil {
		actor = *ev.ActorID
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO audit_events (id, actor_id, entity_type, entity_id, action, detail) VALUES (?,?,?,?,?,?)",
		ev.ID, actor, ev.EntityType, ev.EntityID, ev.Action, ev.Detail)
	return err
}
