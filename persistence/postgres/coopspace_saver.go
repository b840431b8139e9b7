// Copyright 2024 go-dataspace
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-dataspace/agri-admin/model"
)

const selectMembers = `SELECT id, coop_space_id, name, company, email, role, username
	FROM members ORDER BY coop_space_id, position`

// ListCoopSpaces returns all cooperation spaces with their members.
func (p *Provider) ListCoopSpaces(ctx context.Context) ([]*model.CoopSpace, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, company, mandant FROM coop_spaces ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list coop spaces: %w", err)
	}
	defer rows.Close()

	spaces := make([]*model.CoopSpace, 0)
	byID := make(map[int64]*model.CoopSpace)
	for rows.Next() {
		cs := &model.CoopSpace{Members: []model.Member{}}
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.Company, &cs.Mandant); err != nil {
			return nil, fmt.Errorf("failed to scan coop space: %w", err)
		}
		spaces = append(spaces, cs)
		byID[cs.ID] = cs
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mRows, err := p.db.QueryContext(ctx, selectMembers)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer mRows.Close()
	for mRows.Next() {
		var csID int64
		var m model.Member
		if err := mRows.Scan(&m.ID, &csID, &m.Name, &m.Company, &m.Email, &m.Role, &m.Username); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if cs, ok := byID[csID]; ok {
			cs.Members = append(cs.Members, m)
		}
	}
	return spaces, mRows.Err()
}

// GetCoopSpace gets a cooperation space by ID.
func (p *Provider) GetCoopSpace(ctx context.Context, id int64) (*model.CoopSpace, error) {
	cs := &model.CoopSpace{Members: []model.Member{}}
	err := p.db.QueryRowContext(ctx,
		`SELECT id, name, company, mandant FROM coop_spaces WHERE id = $1`, id,
	).Scan(&cs.ID, &cs.Name, &cs.Company, &cs.Mandant)
	if err != nil {
		return nil, notFound(err)
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, company, email, role, username
		 FROM members WHERE coop_space_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Company, &m.Email, &m.Role, &m.Username); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		cs.Members = append(cs.Members, m)
	}
	return cs, rows.Err()
}

// PutCoopSpace inserts or updates a cooperation space and replaces its members in a single
// transaction.
func (p *Provider) PutCoopSpace(ctx context.Context, cs *model.CoopSpace) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if cs.ID == 0 {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO coop_spaces (name, company, mandant) VALUES ($1, $2, $3) RETURNING id`,
			cs.Name, cs.Company, cs.Mandant,
		).Scan(&cs.ID)
		if err != nil {
			return fmt.Errorf("failed to insert coop space: %w", err)
		}
	} else {
		res, err := tx.ExecContext(ctx,
			`UPDATE coop_spaces SET name = $2, company = $3, mandant = $4 WHERE id = $1`,
			cs.ID, cs.Name, cs.Company, cs.Mandant)
		if err != nil {
			return fmt.Errorf("failed to update coop space: %w", err)
		}
		if err := expectOne(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE coop_space_id = $1`, cs.ID); err != nil {
			return fmt.Errorf("failed to clear members: %w", err)
		}
	}

	for i := range cs.Members {
		if err := insertMember(ctx, tx, cs.ID, i, &cs.Members[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, csID int64, pos int, m *model.Member) error {
	if m.ID == 0 {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO members (coop_space_id, position, name, company, email, role, username)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			csID, pos, m.Name, m.Company, m.Email, m.Role, m.Username,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO members (id, coop_space_id, position, name, company, email, role, username)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, csID, pos, m.Name, m.Company, m.Email, m.Role, m.Username)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// DelCoopSpace deletes a cooperation space, members are removed by the foreign key cascade.
func (p *Provider) DelCoopSpace(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM coop_spaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete coop space: %w", err)
	}
	return expectOne(res)
}

// DelMember removes a member from a cooperation space.
func (p *Provider) DelMember(ctx context.Context, coopSpaceID, memberID int64) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM members WHERE coop_space_id = $1 AND id = $2`, coopSpaceID, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return expectOne(res)
}
