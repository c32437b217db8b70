// Package sqlplan parses the engine's SQL subset (SELECT with an optional
// WHERE, aggregate functions, ORDER BY + LIMIT) into a plan.Plan, using the
// same Vitess SQL parser the teacher repo uses for its own DDL/DML
// classification (internal/parser/sql.go).
package sqlplan

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"vitess.io/vitess/go/vt/sqlparser"

	"github.com/truenodb/trueno/internal/aggop"
	"github.com/truenodb/trueno/internal/plan"
)

var (
	parserOnce      sync.Once
	globalParser    *sqlparser.Parser
	globalParserErr error
)

func getParser() (*sqlparser.Parser, error) {
	parserOnce.Do(func() {
		globalParser, globalParserErr = sqlparser.New(sqlparser.Options{})
	})
	return globalParser, globalParserErr
}

// aggFuncs maps the SQL aggregate function names this engine recognizes to
// their Op (spec.md §3.6: "SUM | AVG | COUNT | MIN | MAX").
var aggFuncs = map[string]aggop.Op{
	"sum":   aggop.Sum,
	"avg":   aggop.Avg,
	"count": aggop.Count,
	"min":   aggop.Min,
	"max":   aggop.Max,
}

var compareOps = map[string]aggop.CompareOp{
	"<":  aggop.LT,
	"<=": aggop.LE,
	"=":  aggop.EQ,
	"!=": aggop.NE,
	"<>": aggop.NE,
	">=": aggop.GE,
	">":  aggop.GT,
}

// Parse parses a single SELECT statement into a plan.Plan. Anything outside
// the engine's SQL subset (joins, subqueries, GROUP BY, HAVING, multiple
// WHERE predicates) fails with a wrapped parse error.
func Parse(sql string) (*plan.Plan, error) {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimRight(sql, ";")

	p, err := getParser()
	if err != nil {
		return nil, fmt.Errorf("sqlplan: creating parser: %w", err)
	}
	stmt, err := p.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("sqlplan: parsing SQL: %w", err)
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, fmt.Errorf("sqlplan: only SELECT statements are supported")
	}
	if len(sel.From) != 1 {
		return nil, fmt.Errorf("sqlplan: FROM must name exactly one table")
	}
	ate, ok := sel.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, fmt.Errorf("sqlplan: joins are not supported")
	}
	if _, ok := ate.Expr.(sqlparser.TableName); !ok {
		return nil, fmt.Errorf("sqlplan: FROM must name a table, not a subquery")
	}
	if sel.GroupBy != nil || sel.Having != nil {
		return nil, fmt.Errorf("sqlplan: GROUP BY and HAVING are not supported")
	}

	out := &plan.Plan{}

	projection, aggregates, err := classifySelectExprs(sel.SelectExprs)
	if err != nil {
		return nil, err
	}
	out.Projection = projection
	out.Aggregates = aggregates

	if sel.Where != nil {
		f, err := parseFilter(sel.Where.Expr)
		if err != nil {
			return nil, err
		}
		out.Filter = f
	}

	if len(sel.OrderBy) > 0 {
		tk, err := parseTopK(sel.OrderBy, sel.Limit)
		if err != nil {
			return nil, err
		}
		out.TopK = tk
	}

	return out, nil
}

// classifySelectExprs splits the select list into plain projected columns
// and aggregate function calls — the engine has no expression evaluator
// beyond these two shapes.
func classifySelectExprs(exprs sqlparser.SelectExprs) ([]string, []plan.Aggregate, error) {
	var projection []string
	var aggregates []plan.Aggregate

	for _, se := range exprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			projection = append(projection, "*")
		case *sqlparser.AliasedExpr:
			switch inner := e.Expr.(type) {
			case *sqlparser.ColName:
				projection = append(projection, inner.Name.String())
			case *sqlparser.FuncExpr:
				op, ok := aggFuncs[strings.ToLower(inner.Name.String())]
				if !ok {
					return nil, nil, fmt.Errorf("sqlplan: unsupported function %q", inner.Name.String())
				}
				col, err := singleColumnArg(inner)
				if err != nil {
					return nil, nil, err
				}
				aggregates = append(aggregates, plan.Aggregate{Op: op, Column: col})
			default:
				return nil, nil, fmt.Errorf("sqlplan: unsupported select expression %T", inner)
			}
		default:
			return nil, nil, fmt.Errorf("sqlplan: unsupported select list entry %T", se)
		}
	}
	if len(projection) == 0 && len(aggregates) == 0 {
		projection = []string{"*"}
	}
	return projection, aggregates, nil
}

func singleColumnArg(f *sqlparser.FuncExpr) (string, error) {
	if len(f.Exprs) != 1 {
		return "", fmt.Errorf("sqlplan: %s takes exactly one column argument", f.Name.String())
	}
	ae, ok := f.Exprs[0].(*sqlparser.AliasedExpr)
	if !ok {
		return "", fmt.Errorf("sqlplan: %s argument must be a column", f.Name.String())
	}
	col, ok := ae.Expr.(*sqlparser.ColName)
	if !ok {
		return "", fmt.Errorf("sqlplan: %s argument must be a column", f.Name.String())
	}
	return col.Name.String(), nil
}

// parseFilter extracts the single (column, comparison_op, constant)
// predicate spec.md §3.6 allows — compound WHERE clauses (AND/OR) are
// outside the engine's SQL subset.
func parseFilter(expr sqlparser.Expr) (*plan.Filter, error) {
	cmp, ok := expr.(*sqlparser.ComparisonExpr)
	if !ok {
		return nil, fmt.Errorf("sqlplan: WHERE must be a single comparison, got %T", expr)
	}
	op, ok := compareOps[cmp.Operator.ToString()]
	if !ok {
		return nil, fmt.Errorf("sqlplan: unsupported comparison operator %q", cmp.Operator.ToString())
	}
	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return nil, fmt.Errorf("sqlplan: WHERE left-hand side must be a column")
	}
	lit, ok := cmp.Right.(*sqlparser.Literal)
	if !ok {
		return nil, fmt.Errorf("sqlplan: WHERE right-hand side must be a constant")
	}

	f := &plan.Filter{Column: col.Name.String(), Op: op}
	switch lit.Type {
	case sqlparser.IntVal:
		v, err := strconv.ParseInt(string(lit.Val), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("sqlplan: invalid integer literal %q: %w", lit.Val, err)
		}
		f.IntVal = v
		f.FltVal = float64(v)
	case sqlparser.FloatVal:
		v, err := strconv.ParseFloat(string(lit.Val), 64)
		if err != nil {
			return nil, fmt.Errorf("sqlplan: invalid float literal %q: %w", lit.Val, err)
		}
		f.FltVal = v
	default:
		return nil, fmt.Errorf("sqlplan: unsupported WHERE constant type %v", lit.Type)
	}
	return f, nil
}

// parseTopK translates a single-column ORDER BY plus LIMIT into a
// plan.TopK (spec.md §3.6, §4.6). ORDER BY with no LIMIT selects every row
// in sorted order (k = row count, resolved by the executor at run time).
func parseTopK(orderBy sqlparser.OrderBy, limit *sqlparser.Limit) (*plan.TopK, error) {
	if len(orderBy) != 1 {
		return nil, fmt.Errorf("sqlplan: ORDER BY must name exactly one column")
	}
	col, ok := orderBy[0].Expr.(*sqlparser.ColName)
	if !ok {
		return nil, fmt.Errorf("sqlplan: ORDER BY must sort by a column")
	}
	dir := aggop.Asc
	if strings.EqualFold(orderBy[0].Direction.ToString(), "desc") {
		dir = aggop.Desc
	}

	if limit == nil || limit.Rowcount == nil {
		return &plan.TopK{Column: col.Name.String(), Direction: dir, Unbounded: true}, nil
	}
	lit, ok := limit.Rowcount.(*sqlparser.Literal)
	if !ok || lit.Type != sqlparser.IntVal {
		return nil, fmt.Errorf("sqlplan: LIMIT must be an integer constant")
	}
	k, err := strconv.Atoi(string(lit.Val))
	if err != nil {
		return nil, fmt.Errorf("sqlplan: invalid LIMIT %q: %w", lit.Val, err)
	}
	return &plan.TopK{Column: col.Name.String(), Direction: dir, K: k}, nil
}
