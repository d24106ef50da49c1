package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the positional placeholder syntax of a driver
type Dialect int

const (
	// DialectSQLite uses "?" placeholders
	DialectSQLite Dialect = iota
	// DialectPostgres uses "$1", "$2", ... placeholders
	DialectPostgres
)

// DialectForDriver maps a registered driver name ("sqlite" for modernc,
// "postgres" for lib/pq) to its dialect
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return DialectSQLite, nil
	case "postgres":
		return DialectPostgres, nil
	default:
		return 0, fmt.Errorf("unsupported driver %q", driver)
	}
}

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// compile rewrites @name placeholders to positional ones and returns the
// arguments in placeholder order. Text inside quotes is left alone.
func compile(statement string, params map[string]any, d Dialect) (string, []any, error) {
	var (
		out     strings.Builder
		args    []any
		unbound []string
		indexes = make(map[string]int)
		quote   byte
	)
	out.Grow(len(statement))

	for i := 0; i < len(statement); i++ {
		c := statement[i]

		if quote != 0 {
			if c == quote {
				quote = 0
			}
			out.WriteByte(c)
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			out.WriteByte(c)
			continue
		}
		if c != '@' || i+1 >= len(statement) || !isNameStart(statement[i+1]) {
			out.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(statement) && isNamePart(statement[j]) {
			j++
		}
		name := statement[i+1 : j]
		i = j - 1

		value, ok := params[name]
		if !ok {
			unbound = append(unbound, name)
			continue
		}

		switch d {
		case DialectPostgres:
			n, seen := indexes[name]
			if !seen {
				args = append(args, value)
				n = len(args)
				indexes[name] = n
			}
			out.WriteString("$" + strconv.Itoa(n))
		default:
			args = append(args, value)
			out.WriteByte('?')
		}
	}

	if len(unbound) > 0 {
		return "", nil, fmt.Errorf("%w: %s", ErrUnboundParameter, strings.Join(unbound, ", "))
	}
	return out.String(), args, nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNamePart(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}
