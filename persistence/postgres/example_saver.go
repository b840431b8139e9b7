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
	"fmt"

	"github.com/go-dataspace/agri-admin/model"
)

func (p *Provider) ListExamples(ctx context.Context) ([]*model.Example, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, field1, field2 FROM examples ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list examples: %w", err)
	}
	defer rows.Close()
	examples := make([]*model.Example, 0)
	for rows.Next() {
		e := &model.Example{}
		if err := rows.Scan(&e.ID, &e.Field1, &e.Field2); err != nil {
			return nil, fmt.Errorf("failed to scan example: %w", err)
		}
		examples = append(examples, e)
	}
	return examples, rows.Err()
}

func (p *Provider) GetExample(ctx context.Context, id int64) (*model.Example, error) {
	e := &model.Example{}
	err := p.db.QueryRowContext(ctx,
		`SELECT id, field1, field2 FROM examples WHERE id = $1`, id,
	).Scan(&e.ID, &e.Field1, &e.Field2)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (p *Provider) PutExample(ctx context.Context, e *model.Example) error {
	if e.ID == 0 {
		err := p.db.QueryRowContext(ctx,
			`INSERT INTO examples (field1, field2) VALUES ($1, $2) RETURNING id`,
			e.Field1, e.Field2,
		).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("failed to insert example: %w", err)
		}
		return nil
	}
	res, err := p.db.ExecContext(ctx,
		`UPDATE examples SET field1 = $2, field2 = $3 WHERE id = $1`, e.ID, e.Field1, e.Field2)
	if err != nil {
		return fmt.Errorf("failed to update example: %w", err)
	}
	return expectOne(res)
}

func (p *Provider) DelExample(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM examples WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete example: %w", err)
	}
	return expectOne(res)
}
