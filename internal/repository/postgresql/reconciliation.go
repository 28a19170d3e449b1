package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldvolt/workforce-backend-go/internal/domain/reconciliation"
	"github.com/fieldvolt/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type reconciliationRepository struct {
	db *database.DB
}

func NewReconciliationRepository(db *database.DB) reconciliation.ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

// UpsertAbsence implements reconciliation.ReconciliationRepository. The
// composite key (data, equipe_id, eletricista_id, motivo_sistema) carries a
// unique constraint; the existing row always wins.
func (r *reconciliationRepository) UpsertAbsence(ctx context.Context, a reconciliation.Absence) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO faltas (data, equipe_id, eletricista_id, slot_escala_id, motivo_sistema, status, criado_por)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (data, equipe_id, eletricista_id, motivo_sistema) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		a.Date, a.TeamID, a.ElectricianID, a.PlannedSlotID,
		a.SystemReason, a.Status, a.CreatedBy,
	)
	if err != nil {
		// A concurrent insert can still race past ON CONFLICT under some
		// isolation setups; a unique violation means the row exists.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("failed to upsert absence: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// UpsertDivergence implements reconciliation.ReconciliationRepository.
func (r *reconciliationRepository) UpsertDivergence(ctx context.Context, d reconciliation.ScheduleDivergence) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO divergencias_escala (data, equipe_esperada_id, equipe_real_id, eletricista_id, tipo, criado_por)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (data, eletricista_id, equipe_esperada_id, equipe_real_id) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		d.Date, d.ExpectedTeamID, d.ActualTeamID, d.ElectricianID,
		d.Kind, d.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("failed to upsert divergence: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// OvertimeExists implements reconciliation.ReconciliationRepository. The
// schema has no unique constraint on (opening, kind), so dedup is a
// read-then-write pair protected only by the job lock.
func (r *reconciliationRepository) OvertimeExists(ctx context.Context, shiftOpeningID int64, kind string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM horas_extras
			WHERE turno_realizado_eletricista_id = $1 AND tipo = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, shiftOpeningID, kind).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overtime existence: %w", err)
	}
	return exists, nil
}

// CreateOvertime implements reconciliation.ReconciliationRepository.
func (r *reconciliationRepository) CreateOvertime(ctx context.Context, o reconciliation.Overtime) (reconciliation.Overtime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO horas_extras (
			data, eletricista_id, turno_realizado_eletricista_id, slot_escala_id,
			tipo, horas_previstas, horas_reais, horas_delta, status, criado_por
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, criado_em
	`

	err := q.QueryRow(ctx, query,
		o.Date, o.ElectricianID, o.ShiftOpeningID, o.PlannedSlotID,
		o.Kind, o.ExpectedHours, o.ActualHours, o.DeltaHours, o.Status, o.CreatedBy,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return reconciliation.Overtime{}, fmt.Errorf("failed to create overtime: %w", err)
	}

	return o, nil
}

// ListAbsences implements reconciliation.ReconciliationRepository.
func (r *reconciliationRepository) ListAbsences(ctx context.Context, filter reconciliation.AbsenceFilter) ([]reconciliation.Absence, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND f.data::date = $%d::date", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.TeamID != nil {
		baseWhere += fmt.Sprintf(" AND f.equipe_id = $%d", argIdx)
		args = append(args, *filter.TeamID)
		argIdx++
	}
	if filter.ElectricianID != nil {
		baseWhere += fmt.Sprintf(" AND f.eletricista_id = $%d", argIdx)
		args = append(args, *filter.ElectricianID)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM faltas f WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count absences: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT f.id, f.data, f.equipe_id, f.eletricista_id, f.slot_escala_id,
			   f.motivo_sistema, f.status, f.criado_por, f.criado_em,
			   e.nome AS eletricista_nome
		FROM faltas f
		LEFT JOIN eletricistas e ON e.id = f.eletricista_id
		WHERE %s
		ORDER BY f.data DESC, f.id DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	var absences []reconciliation.Absence
	for rows.Next() {
		var a reconciliation.Absence
		if err := rows.Scan(
			&a.ID, &a.Date, &a.TeamID, &a.ElectricianID, &a.PlannedSlotID,
			&a.SystemReason, &a.Status, &a.CreatedBy, &a.CreatedAt,
			&a.ElectricianName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan absence: %w", err)
		}
		absences = append(absences, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate absences: %w", err)
	}

	return absences, total, nil
}

// ListDivergences implements reconciliation.ReconciliationRepository.
func (r *reconciliationRepository) ListDivergences(ctx context.Context, filter reconciliation.DivergenceFilter) ([]reconciliation.ScheduleDivergence, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND d.data::date = $%d::date", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.ExpectedTeamID != nil {
		baseWhere += fmt.Sprintf(" AND d.equipe_esperada_id = $%d", argIdx)
		args = append(args, *filter.ExpectedTeamID)
		argIdx++
	}
	if filter.ElectricianID != nil {
		baseWhere += fmt.Sprintf(" AND d.eletricista_id = $%d", argIdx)
		args = append(args, *filter.ElectricianID)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM divergencias_escala d WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count divergences: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT d.id, d.data, d.equipe_esperada_id, d.equipe_real_id, d.eletricista_id,
			   d.tipo, d.criado_por, d.criado_em,
			   e.nome AS eletricista_nome
		FROM divergencias_escala d
		LEFT JOIN eletricistas e ON e.id = d.eletricista_id
		WHERE %s
		ORDER BY d.data DESC, d.id DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list divergences: %w", err)
	}
	defer rows.Close()

	var divergences []reconciliation.ScheduleDivergence
	for rows.Next() {
		var d reconciliation.ScheduleDivergence
		if err := rows.Scan(
			&d.ID, &d.Date, &d.ExpectedTeamID, &d.ActualTeamID, &d.ElectricianID,
			&d.Kind, &d.CreatedBy, &d.CreatedAt,
			&d.ElectricianName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan divergence: %w", err)
		}
		divergences = append(divergences, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate divergences: %w", err)
	}

	return divergences, total, nil
}

// ListOvertime implements reconciliation.ReconciliationRepository.
func (r *reconciliationRepository) ListOvertime(ctx context.Context, filter reconciliation.OvertimeFilter) ([]reconciliation.Overtime, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND h.data::date = $%d::date", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.Kind != nil && *filter.Kind != "" {
		baseWhere += fmt.Sprintf(" AND h.tipo = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.ElectricianID != nil {
		baseWhere += fmt.Sprintf(" AND h.eletricista_id = $%d", argIdx)
		args = append(args, *filter.ElectricianID)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM horas_extras h WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT h.id, h.data, h.eletricista_id, h.turno_realizado_eletricista_id, h.slot_escala_id,
			   h.tipo, h.horas_previstas, h.horas_reais, h.horas_delta, h.status, h.criado_por, h.criado_em,
			   e.nome AS eletricista_nome
		FROM horas_extras h
		LEFT JOIN eletricistas e ON e.id = h.eletricista_id
		WHERE %s
		ORDER BY h.data DESC, h.id DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime: %w", err)
	}
	defer rows.Close()

	var entries []reconciliation.Overtime
	for rows.Next() {
		var o reconciliation.Overtime
		if err := rows.Scan(
			&o.ID, &o.Date, &o.ElectricianID, &o.ShiftOpeningID, &o.PlannedSlotID,
			&o.Kind, &o.ExpectedHours, &o.ActualHours, &o.DeltaHours, &o.Status, &o.CreatedBy, &o.CreatedAt,
			&o.ElectricianName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime: %w", err)
		}
		entries = append(entries, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate overtime: %w", err)
	}

	return entries, total, nil
}
