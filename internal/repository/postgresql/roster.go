package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldvolt/workforce-backend-go/internal/domain/roster"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type rosterRepository struct {
	db *database.DB
}

func NewRosterRepository(db *database.DB) roster.RosterRepository {
	return &rosterRepository{db: db}
}

// ListPlannedSlots implements roster.RosterRepository.
func (r *rosterRepository) ListPlannedSlots(ctx context.Context, start, end time.Time, teamID *int64) ([]roster.PlannedSlot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.data, s.eletricista_id, s.escala_equipe_periodo_id,
			   p.equipe_id, p.status, s.folga,
			   s.hora_inicio_prevista, s.hora_fim_prevista,
			   e.nome, e.status
		FROM slots_escala s
		JOIN escala_equipe_periodos p ON p.id = s.escala_equipe_periodo_id
		JOIN eletricistas e ON e.id = s.eletricista_id
		WHERE s.data BETWEEN $1 AND $2
	`
	args := []interface{}{start, end}

	// With a team filter the caller sees every slot of that team, drafts
	// included; the global run only trusts published periods.
	if teamID != nil {
		query += " AND p.equipe_id = $3"
		args = append(args, *teamID)
	} else {
		query += fmt.Sprintf(" AND p.status = '%s'", roster.PeriodStatusPublished)
	}
	query += " ORDER BY s.data, s.id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned slots: %w", err)
	}
	defer rows.Close()

	var slots []roster.PlannedSlot
	for rows.Next() {
		var s roster.PlannedSlot
		if err := rows.Scan(
			&s.ID, &s.Date, &s.ElectricianID, &s.TeamPeriodID,
			&s.TeamID, &s.PeriodStatus, &s.DayOff,
			&s.ExpectedStart, &s.ExpectedEnd,
			&s.ElectricianName, &s.ElectricianStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan planned slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate planned slots: %w", err)
	}

	return slots, nil
}

// ListPlannedElectricianIDs implements roster.RosterRepository.
func (r *rosterRepository) ListPlannedElectricianIDs(ctx context.Context, start, end time.Time) (map[int64]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT s.eletricista_id
		FROM slots_escala s
		JOIN escala_equipe_periodos p ON p.id = s.escala_equipe_periodo_id
		WHERE s.data BETWEEN $1 AND $2
		  AND p.status = $3
	`

	rows, err := q.Query(ctx, query, start, end, roster.PeriodStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list planned electrician ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan electrician id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate electrician ids: %w", err)
	}

	return ids, nil
}

// ListShiftOpenings implements roster.RosterRepository.
func (r *rosterRepository) ListShiftOpenings(ctx context.Context, start, end time.Time) ([]roster.ShiftOpening, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT o.id, o.turno_realizado_id, t.equipe_id, o.eletricista_id,
			   t.data_referencia, o.aberto_em, o.fechado_em
		FROM turno_realizado_eletricistas o
		JOIN turnos_realizados t ON t.id = o.turno_realizado_id
		WHERE t.data_referencia BETWEEN $1 AND $2
		ORDER BY o.aberto_em, o.id
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift openings: %w", err)
	}
	defer rows.Close()

	var openings []roster.ShiftOpening
	for rows.Next() {
		var o roster.ShiftOpening
		if err := rows.Scan(
			&o.ID, &o.ShiftID, &o.TeamID, &o.ElectricianID,
			&o.ReferenceDate, &o.OpenedAt, &o.ClosedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift opening: %w", err)
		}
		openings = append(openings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shift openings: %w", err)
	}

	return openings, nil
}

// GetApprovedTeamJustification implements roster.RosterRepository.
func (r *rosterRepository) GetApprovedTeamJustification(ctx context.Context, start, end time.Time, teamID int64) (*roster.TeamJustification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT j.id, j.data, j.equipe_id, j.tipo_id, j.status, jt.forca_falta
		FROM justificativas_equipe j
		JOIN justificativa_tipos jt ON jt.id = j.tipo_id
		WHERE j.data BETWEEN $1 AND $2
		  AND j.equipe_id = $3
		  AND j.status = $4
		LIMIT 1
	`

	var j roster.TeamJustification
	err := q.QueryRow(ctx, query, start, end, teamID, roster.JustificationStatusApproved).Scan(
		&j.ID, &j.Date, &j.TeamID, &j.TypeID, &j.Status, &j.ForcesAbsence,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get team justification: %w", err)
	}

	return &j, nil
}
