package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/edutrack/backend/core/institution"
)

type institutionRepository struct {
	db *sqlx.DB
}

var _ institution.Repository = (*institutionRepository)(nil) // interface compliance check

func NewInstitutionRepository(db *sqlx.DB) *institutionRepository {
	return &institutionRepository{db: db}
}

type institutionRow struct {
	ID      int    `db:"id"`
	Name    string `db:"name"`
	Address string `db:"address"`
	Phone   string `db:"phone"`
}

func (r institutionRow) toInstitution() institution.Institution {
	return institution.Institution{ID: r.ID, Name: r.Name, Address: r.Address, Phone: r.Phone}
}

func (repo *institutionRepository) CreateInstitution(ctx context.Context, inst institution.Institution) (institution.Institution, error) {
	const q = `INSERT INTO institution (name, address, phone) VALUES ($1, $2, $3) RETURNING id`
	if err := repo.db.GetContext(ctx, &inst.ID, q, inst.Name, inst.Address, inst.Phone); err != nil {
		return institution.Institution{}, err
	}
	return inst, nil
}

func (repo *institutionRepository) QueryAllInstitutions(ctx context.Context) ([]institution.Institution, error) {
	var rows []institutionRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT id, name, address, phone FROM institution ORDER BY id`); err != nil {
		return nil, err
	}
	insts := make([]institution.Institution, 0, len(rows))
	for _, row := range rows {
		insts = append(insts, row.toInstitution())
	}
	return insts, nil
}

func (repo *institutionRepository) GetInstitutionByID(ctx context.Context, id int) (institution.Institution, error) {
	var row institutionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT id, name, address, phone FROM institution WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return institution.Institution{}, institution.ErrNotFound
		}
		return institution.Institution{}, err
	}
	return row.toInstitution(), nil
}

func (repo *institutionRepository) UpdateInstitution(ctx context.Context, inst institution.Institution) (institution.Institution, error) {
	const q = `UPDATE institution SET name = $1, address = $2, phone = $3 WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, q, inst.Name, inst.Address, inst.Phone, inst.ID)
	if err != nil {
		return institution.Institution{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return institution.Institution{}, institution.ErrNotFound
	}
	return inst, nil
}

func (repo *institutionRepository) DeleteInstitutionByID(ctx context.Context, id int) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM institution WHERE id = $1`, id)
	return err
}

func (repo *institutionRepository) CountInstitutions(ctx context.Context) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM institution`)
	return count, err
}
