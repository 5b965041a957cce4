package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// association описывает таблицу связи "родитель -> id связанной сущности".
// Имена таблиц и колонок фиксированы в коде, поэтому их можно подставлять в SQL.
type association struct {
	table     string
	parentCol string
	childCol  string
}

var (
	filmGenres  = association{table: "film_genres", parentCol: "film_id", childCol: "genre_id"}
	filmLikes   = association{table: "film_likes", parentCol: "film_id", childCol: "user_id"}
	friendships = association{table: "friendships", parentCol: "user_id", childCol: "friend_id"}
)

type associationRow struct {
	ParentID int64 `db:"parent_id"`
	ChildID  int64 `db:"child_id"`
}

// replace делает набор строк связи родителя равным childIDs:
// удаляет все текущие строки и вставляет новые одним пакетом.
// Вызывается только внутри транзакции.
func (a association) replace(ctx context.Context, tx *sqlx.Tx, parentID int64, childIDs []int64) error {
	del := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, a.table, a.parentCol)
	if _, err := tx.ExecContext(ctx, del, parentID); err != nil {
		return fmt.Errorf("очистка %s для %d: %w", a.table, parentID, err)
	}

	ids := domain.UniqueIDs(childIDs)
	if len(ids) == 0 {
		return nil
	}

	rows := make([]associationRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, associationRow{ParentID: parentID, ChildID: id})
	}
	ins := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (:parent_id, :child_id)`, a.table, a.parentCol, a.childCol)
	if _, err := tx.NamedExecContext(ctx, ins, rows); err != nil {
		return fmt.Errorf("вставка %s для %d: %w", a.table, parentID, err)
	}
	return nil
}

// add вставляет одно ребро. Повторная вставка ничего не меняет.
func (a association) add(ctx context.Context, db sqlx.ExecerContext, parentID, childID int64) error {
	q := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, a.table, a.parentCol, a.childCol)
	_, err := db.ExecContext(ctx, q, parentID, childID)
	return err
}

// remove удаляет одно ребро и сообщает, было ли оно. Отсутствие ребра не ошибка.
func (a association) remove(ctx context.Context, db sqlx.ExecerContext, parentID, childID int64) (bool, error) {
	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, a.table, a.parentCol, a.childCol)
	res, err := db.ExecContext(ctx, q, parentID, childID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// removeChild удаляет все рёбра, ведущие к childID
func (a association) removeChild(ctx context.Context, db sqlx.ExecerContext, childID int64) (int64, error) {
	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, a.table, a.childCol)
	res, err := db.ExecContext(ctx, q, childID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// loadByParents одним запросом загружает связи для всех родителей.
// Результат: parent id -> id связанных сущностей по возрастанию.
func (a association) loadByParents(ctx context.Context, db sqlx.QueryerContext, parentIDs []int64) (map[int64][]int64, error) {
	result := make(map[int64][]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	q := fmt.Sprintf(`SELECT %s AS parent_id, %s AS child_id FROM %s WHERE %s IN (?) ORDER BY %s, %s`,
		a.parentCol, a.childCol, a.table, a.parentCol, a.parentCol, a.childCol)
	q, args, err := sqlx.In(q, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("построение запроса %s: %w", a.table, err)
	}

	var rows []associationRow
	if err := sqlx.SelectContext(ctx, db, &rows, sqlx.Rebind(sqlx.DOLLAR, q), args...); err != nil {
		return nil, fmt.Errorf("загрузка %s: %w", a.table, err)
	}
	for _, r := range rows {
		result[r.ParentID] = append(result[r.ParentID], r.ChildID)
	}
	return result, nil
}
