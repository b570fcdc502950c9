package cel

import (
	"encoding/json"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// Filter is a compiled expression that decides whether a status entry is the
// one being waited for.
//
// The entry is available to the expression as "status", e.g.
//
//	status.creator.login == "travis-ci"
type Filter struct {
	expr string
	prg  cel.Program
}

// NewFilter parses and checks the expression.
func NewFilter(expr string) (*Filter, error) {
	env, err := makeCelEnv()
	if err != nil {
		return nil, err
	}
	prg, err := compile(expr, env)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter %#v: %w", expr, err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// Match evaluates the filter against the entry, which is converted to its
// JSON form first.
func (f *Filter) Match(status interface{}) (bool, error) {
	ectx, err := makeEvalContext(status)
	if err != nil {
		return false, err
	}
	out, _, err := f.prg.Eval(ectx)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter %#v: %w", f.expr, err)
	}
	return valToBool(out)
}

func evaluate(expr string, env *cel.Env, data map[string]interface{}) (ref.Val, error) {
	prg, err := compile(expr, env)
	if err != nil {
		return nil, err
	}
	out, _, err := prg.Eval(data)
	return out, err
}

func compile(expr string, env *cel.Env) (cel.Program, error) {
	parsed, issues := env.Parse(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}

	checked, issues := env.Check(parsed)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}

	return env.Program(checked)
}

func makeCelEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Declarations(
			decls.NewIdent("status", decls.Dyn, nil)))
}

func makeEvalContext(status interface{}) (map[string]interface{}, error) {
	m, err := statusToMap(status)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"status": m}, nil
}

func statusToMap(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	err = json.Unmarshal(b, &m)
	return m, err
}

func valToBool(v ref.Val) (bool, error) {
	if b, ok := v.(types.Bool); ok {
		return bool(b), nil
	}
	return false, fmt.Errorf("unknown result type %T, expression must evaluate to a bool", v)
}
