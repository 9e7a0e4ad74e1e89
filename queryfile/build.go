package queryfile

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/shibukawa/structquery"
)

// guardEvaluator compiles and runs CEL guard expressions against the
// merged parameter map, exposed to guards as the `params` variable.
type guardEvaluator struct {
	env    *cel.Env
	params map[string]any
}

func newGuardEvaluator(params map[string]any) (*guardEvaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("params", cel.MapType(cel.StringType, cel.AnyType)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGuard, err)
	}
	return &guardEvaluator{env: env, params: params}, nil
}

func (g *guardEvaluator) eval(guard string) (bool, error) {
	ast, issues := g.env.Compile(guard)
	if issues.Err() != nil {
		return false, fmt.Errorf("%w: compile %q: %v", ErrGuard, guard, issues.Err())
	}

	program, err := g.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrGuard, guard, err)
	}

	result, _, err := program.Eval(map[string]any{"params": g.params})
	if err != nil {
		return false, fmt.Errorf("%w: eval %q: %v", ErrGuard, guard, err)
	}

	value, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q did not produce a boolean", ErrGuard, guard)
	}
	return value, nil
}

// Build evaluates the descriptor against params (merged over the
// descriptor's parameter defaults, call-site wins) and constructs the
// expression. Guards excluding every field of a clause surface the
// construction protocol's validation errors; a false root guard is
// ErrNoQuery.
func (d *Document) Build(params map[string]any) (*structquery.Expression, error) {
	if d.Query == nil {
		return nil, ErrNoQuery
	}

	merged := make(map[string]any, len(d.Parameters)+len(params))
	for k, v := range d.Parameters {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}

	guards, err := newGuardEvaluator(merged)
	if err != nil {
		return nil, err
	}

	expr, err := buildClause(d.Query, guards)
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, fmt.Errorf("%w: root clause guard is false", ErrNoQuery)
	}
	return expr, nil
}

// buildClause returns (nil, nil) when the clause's guard is false. Options
// are added in sorted name order so builds are deterministic; fields keep
// descriptor order.
func buildClause(c *ClauseDef, guards *guardEvaluator) (*structquery.Expression, error) {
	if c.If != "" {
		keep, err := guards.eval(c.If)
		if err != nil {
			return nil, err
		}
		if !keep {
			return nil, nil
		}
	}

	conds := make([]structquery.Condition, 0, len(c.Options)+len(c.Fields))

	names := make([]string, 0, len(c.Options))
	for name := range c.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		conds = append(conds, structquery.Opt(name, c.Options[name]))
	}

	for _, f := range c.Fields {
		cond, err := buildField(f, guards)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}

	return structquery.New(c.Operator, conds...)
}

// buildField returns the zero Condition when the field's guard, or a
// nested clause's guard, is false; the construction protocol drops it.
func buildField(f *FieldDef, guards *guardEvaluator) (structquery.Condition, error) {
	if f.If != "" {
		keep, err := guards.eval(f.If)
		if err != nil {
			return structquery.Condition{}, err
		}
		if !keep {
			return structquery.Condition{}, nil
		}
	}

	switch {
	case f.Clause != nil:
		expr, err := buildClause(f.Clause, guards)
		if err != nil {
			return structquery.Condition{}, err
		}
		if expr == nil {
			return structquery.Condition{}, nil
		}
		return fieldCondition(f.Name, expr), nil
	case f.Range != nil:
		lower, err := hintedScalar(f.Range.Lower, f.Range.Type)
		if err != nil {
			return structquery.Condition{}, err
		}
		upper, err := hintedScalar(f.Range.Upper, f.Range.Type)
		if err != nil {
			return structquery.Condition{}, err
		}
		desc := structquery.RangeDescriptor{
			Lower:          lower,
			LowerExclusive: f.Range.LowerExclusive,
			Upper:          upper,
			UpperExclusive: f.Range.UpperExclusive,
		}
		return fieldCondition(f.Name, desc), nil
	default:
		value, err := hintedScalar(f.Value, f.Type)
		if err != nil {
			return structquery.Condition{}, err
		}
		return fieldCondition(f.Name, value), nil
	}
}

func fieldCondition(name string, value any) structquery.Condition {
	if name != "" {
		return structquery.Named(name, value)
	}
	return structquery.Value(value)
}

// hintedScalar applies the descriptor's type hint to string values. Values
// already carrying a native type pass through untouched.
func hintedScalar(v any, hint string) (any, error) {
	if hint == "" || v == nil {
		return v, nil
	}
	s, ok := v.(string)
	if !ok {
		return v, nil
	}

	switch hint {
	case "string":
		return s, nil
	case "int":
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrDescriptor, s)
		}
		return n, nil
	case "float":
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a float", ErrDescriptor, s)
		}
		return f, nil
	case "time":
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an RFC 3339 timestamp", ErrDescriptor, s)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unknown type hint %q", ErrDescriptor, hint)
	}
}
