// Package engine evaluates Lisp CSG scripts into polygonal meshes.
// It wraps zygomys in a sandboxed environment; scripts compose solids
// on the unit integer lattice with (box ...), (translate ...), and the
// boolean operators, and the engine lowers the resulting CSG tree onto
// the boolean kernel.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/heartwood/pkg/mesh"
)

// EvalError represents a non-fatal error encountered during
// evaluation, such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the output of a successful evaluation.
type Result struct {
	// Mesh is the polygonal mesh produced by the script's final
	// expression, empty for an empty program.
	Mesh mesh.Mesh
}

// evalTimeout bounds a single evaluation; runaway scripts (infinite
// loops in user code) are cut off rather than hanging the caller.
const evalTimeout = 10 * time.Second

// Engine evaluates CSG scripts. Each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu sync.Mutex
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

type evalOutcome struct {
	result   *Result
	evalErrs []EvalError
	err      error
}

// Evaluate runs a CSG script and produces its mesh.
//
// Return semantics:
//   - On success: result + nil eval errors + nil error
//   - On parse/eval failure: nil result + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*Result, []EvalError, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan evalOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()
		res, evalErrs, err := e.evaluate(source)
		ch <- evalOutcome{result: res, evalErrs: evalErrs, err: err}
	}()

	select {
	case out := <-ch:
		return out.result, out.evalErrs, out.err
	case <-time.After(evalTimeout):
		return nil, nil, fmt.Errorf("evaluation timed out after %v", evalTimeout)
	}
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	// Empty source is a valid program that produces an empty mesh.
	if strings.TrimSpace(source) == "" {
		return &Result{Mesh: mesh.New(nil)}, nil, nil
	}

	// Sandbox mode prevents user code from touching the filesystem or
	// syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	last, err := env.Run()
	if err != nil {
		return nil, parseZygomysError(err), nil
	}

	node, ok := last.(*sexpSolid)
	if !ok {
		if last == zygo.SexpNull {
			return &Result{Mesh: mesh.New(nil)}, nil, nil
		}
		return nil, []EvalError{{
			Message: fmt.Sprintf("program must end with a solid expression, got %s", last.SexpString(nil)),
		}}, nil
	}

	m, err := lower(node.node)
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	return &Result{Mesh: m}, nil, nil
}

// preprocessSource converts traditional Lisp ; line comments into the
// // form zygomys expects, respecting string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source))
	b := []byte(source)
	i := 0
	for i < len(b) {
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

// linePattern matches zygomys error messages that include line info.
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting line numbers when the message carries them.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
