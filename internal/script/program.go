package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/runscript/internal/ir"
)

// EntryPoint is the function every script body must define.
const EntryPoint = "run"

// wrapperTemplate embeds the body and calls its entry point. The second
// verb receives the argument list, already rendered as source literals.
const wrapperTemplate = `%s

%s(%s).getAll()
`

// Program builds the source executed for body, passing args to run as
// positional arguments.
func Program(body string, args []any) (string, error) {
	literals := make([]string, len(args))
	for i, arg := range args {
		lit, err := Literal(arg)
		if err != nil {
			return "", fmt.Errorf("argument %d: %w", i, err)
		}
		literals[i] = lit
	}
	return fmt.Sprintf(wrapperTemplate, body, EntryPoint, strings.Join(literals, ", ")), nil
}

// Literal renders a decoded input as Risor source.
// Map keys are emitted in canonical order so equal inputs always produce
// identical programs.
func Literal(v any) (string, error) {
	var b strings.Builder
	if err := writeLiteral(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeLiteral(b *strings.Builder, v any) error {
	switch val := v.(type) {
	case nil:
		b.WriteString("nil")
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case string:
		b.WriteString(strconv.Quote(val))
	case int:
		b.WriteString(strconv.Itoa(val))
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("cannot render %v as a literal", val)
		}
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			// keep the float kind: 3 would read back as an int
			s += ".0"
		}
		b.WriteString(s)
	case []any:
		b.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := writeLiteral(b, item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		b.WriteByte(']')
	case map[string]any:
		b.WriteByte('{')
		for i, k := range ir.SortedKeys(val) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			if err := writeLiteral(b, val[k]); err != nil {
				return fmt.Errorf("[%q]: %w", k, err)
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("cannot render %T as a literal", v)
	}
	return nil
}
