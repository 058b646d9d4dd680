package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/deploydash/internal/domain/entity"
	"github.com/oksasatya/deploydash/internal/domain/repository"
)

type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

func (r *TeamRepository) Create(ctx context.Context, t *entity.Team) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO teams (id, name, owner_id)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`, t.ID, t.Name, t.OwnerID).Scan(&t.CreatedAt); err != nil {
			return err
		}
		if err := claimTeam(ctx, tx, t.OwnerID, t.ID); err != nil {
			return err
		}
		if err := insertInvitations(ctx, tx, t.ID, t.Invitations); err != nil {
			return err
		}
		t.MemberIDs = []string{t.OwnerID}
		return nil
	})
}

// claimTeam points the user at teamID only while they hold no team and records the membership.
func claimTeam(ctx context.Context, tx pgx.Tx, userID, teamID string) error {
	tag, err := tx.Exec(ctx, `UPDATE users SET team_id = $1 WHERE id = $2 AND team_id IS NULL`, teamID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrAlreadyInTeam
	}
	if _, err := tx.Exec(ctx, `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, teamID, userID); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrAlreadyInTeam
		}
		return err
	}
	return nil
}

func insertInvitations(ctx context.Context, tx pgx.Tx, teamID string, invs []entity.Invitation) error {
	if len(invs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, inv := range invs {
		batch.Queue(`
			INSERT INTO team_invitations (team_id, email, token, status, invited_at)
			VALUES ($1, $2, $3, $4, $5)
		`, teamID, inv.Email, inv.Token, string(inv.Status), inv.InvitedAt)
	}
	return tx.SendBatch(ctx, batch).Close()
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	t := &entity.Team{}
	err := r.pool.QueryRow(ctx, `SELECT id, name, owner_id, created_at FROM teams WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.OwnerID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	// Owner first, then members in join order.
	rows, err := r.pool.Query(ctx, `
		SELECT m.user_id
		FROM team_members m
		WHERE m.team_id = $1
		ORDER BY (m.user_id = $2) DESC, m.joined_at
	`, id, t.OwnerID)
	if err != nil {
		return nil, err
	}
	t.MemberIDs, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `
		SELECT email, token, status, invited_at
		FROM team_invitations
		WHERE team_id = $1
		ORDER BY seq
	`, id)
	if err != nil {
		return nil, err
	}
	t.Invitations, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Invitation, error) {
		var inv entity.Invitation
		var status string
		err := row.Scan(&inv.Email, &inv.Token, &status, &inv.InvitedAt)
		inv.Status = entity.InvitationStatus(status)
		return inv, err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TeamRepository) UpdateName(ctx context.Context, id, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE teams SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) AddInvitations(ctx context.Context, teamID string, invs []entity.Invitation) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		return insertInvitations(ctx, tx, teamID, invs)
	})
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE users SET team_id = NULL WHERE team_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE users SET team_id = NULL WHERE id = $1 AND team_id = $2`, userID, teamID)
		return err
	})
}

func (r *TeamRepository) ListPendingInvitations(ctx context.Context, email string) ([]entity.PendingInvitation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (t.id)
			t.id, t.name, o.id, o.email, o.username, o.profile_picture, i.token, i.invited_at
		FROM team_invitations i
		JOIN teams t ON t.id = i.team_id
		JOIN users o ON o.id = t.owner_id
		WHERE i.email = $1 AND i.status = 'pending'
		ORDER BY t.id, i.seq
	`, email)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.PendingInvitation, error) {
		var p entity.PendingInvitation
		err := row.Scan(&p.TeamID, &p.TeamName, &p.Owner.ID, &p.Owner.Email, &p.Owner.Username,
			&p.Owner.ProfilePicture, &p.Token, &p.InvitedAt)
		return p, err
	})
}

func (r *TeamRepository) AcceptInvitation(ctx context.Context, token, email, userID string) (*entity.Team, error) {
	var teamID string
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var seq int64
		err := tx.QueryRow(ctx, `
			SELECT seq, team_id
			FROM team_invitations
			WHERE token = $1 AND email = $2 AND status = 'pending'
			FOR UPDATE
		`, token, email).Scan(&seq, &teamID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrInvitationNotPending
			}
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE team_invitations SET status = 'accepted' WHERE seq = $1`, seq); err != nil {
			return err
		}
		return claimTeam(ctx, tx, userID, teamID)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, teamID)
}

func (r *TeamRepository) RejectInvitation(ctx context.Context, token, email string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE team_invitations
		SET status = 'rejected'
		WHERE token = $1 AND email = $2 AND status = 'pending'
	`, token, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrInvitationNotPending
	}
	return nil
}

var _ repository.TeamRepository = (*TeamRepository)(nil)
