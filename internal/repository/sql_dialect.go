package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dialect 报表与搜索里需要区分方言的少数 SQL 片段
type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func dialectOf(db *gorm.DB) dialect {
	if db == nil || db.Dialector == nil {
		return dialectSQLite
	}
	return parseDialect(db.Dialector.Name())
}

func parseDialect(name string) dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return dialectPostgres
	default:
		return dialectSQLite
	}
}

// day 把时间列格式化为 YYYY-MM-DD 文本，用于按天分组
func (d dialect) day(column string) string {
	if d == dialectPostgres {
		return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
	}
	// sqlite 时间存为文本，前 10 位即日期
	return fmt.Sprintf("substr(%s, 1, 10)", column)
}

// anyLike 多列 OR 模糊匹配，postgres 不区分大小写；返回占位符个数
func (d dialect) anyLike(columns ...string) (string, int) {
	op := "LIKE"
	if d == dialectPostgres {
		op = "ILIKE"
	}
	var parts []string
	for _, column := range columns {
		if column = strings.TrimSpace(column); column != "" {
			parts = append(parts, fmt.Sprintf(`%s %s ? ESCAPE '\'`, column, op))
		}
	}
	if len(parts) == 0 {
		return "", 0
	}
	return "(" + strings.Join(parts, " OR ") + ")", len(parts)
}

func dayExpr(db *gorm.DB, column string) string {
	return dialectOf(db).day(column)
}

// applySearch 关键字为空时不加条件；% 与 _ 按字面匹配
func applySearch(query *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return query
	}
	condition, n := dialectOf(query).anyLike(columns...)
	if n == 0 {
		return query
	}
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pattern
	}
	return query.Where(condition, args...)
}
