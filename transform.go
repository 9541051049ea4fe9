/*
Copyright © 2018 the PrecipAttractor authors.
This file is part of PrecipAttractor.

PrecipAttractor is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PrecipAttractor is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PrecipAttractor.  If not, see <http://www.gnu.org/licenses/>.
*/

package precipattractor

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/sparse"
	"github.com/ringsaturn/precipattractor/radar"
)

// TransformVar is the name of the variable that holds the value of the
// current grid cell in a Transform expression.
const TransformVar = "x"

// Transform applies a user-specified expression to every element of a
// field, e.g. to convert rain rates to reflectivity before advection and
// back afterwards.
type Transform struct {
	expression string
	expr       *govaluate.EvaluableExpression
}

// NewTransform parses expression, which refers to the value being
// transformed as x. Functions in addition to the defaults can be given
// in functions. Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log10(x)' which calculates the base-10 logarithm of x.
//
// 'pow(x, y)' which raises x to the power y.
//
// 'dB(x, offset)' which converts x to decibels, 10*log10(x+offset).
// An offset of -1 means that no offset is added.
//
// 'fromdB(x)' which converts x from decibels, 10^(x/10).
//
// 'zr(x, A, b)' which converts rain rate x [mm/h] to reflectivity [dBZ]
// with the Z-R relationship 10*log10(A*x^b).
//
// 'rz(x, A, b)' which converts reflectivity x [dBZ] to rain rate [mm/h],
// the inverse of zr.
//
// 'max(x, y)' and 'min(x, y)'.
func NewTransform(expression string, functions map[string]govaluate.ExpressionFunction) (*Transform, error) {
	defaultFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return math.Exp(arg[0].(float64)), nil
		},
		"log10": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'log10', but needs 1", len(arg))
			}
			return math.Log10(arg[0].(float64)), nil
		},
		"pow": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'pow', but needs 2", len(arg))
			}
			return math.Pow(arg[0].(float64), arg[1].(float64)), nil
		},
		"dB": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'dB', but needs 2", len(arg))
			}
			return radar.DBValue(arg[0].(float64), arg[1].(float64)), nil
		},
		"fromdB": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'fromdB', but needs 1", len(arg))
			}
			return math.Pow(10, arg[0].(float64)/10), nil
		},
		"zr": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 3 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'zr', but needs 3", len(arg))
			}
			return radar.ZR(arg[0].(float64), arg[1].(float64), arg[2].(float64)), nil
		},
		"rz": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 3 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'rz', but needs 3", len(arg))
			}
			return radar.RZ(arg[0].(float64), arg[1].(float64), arg[2].(float64)), nil
		},
		"max": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'max', but needs 2", len(arg))
			}
			return math.Max(arg[0].(float64), arg[1].(float64)), nil
		},
		"min": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 2 {
				return nil, fmt.Errorf("precipattractor: got %d arguments for function 'min', but needs 2", len(arg))
			}
			return math.Min(arg[0].(float64), arg[1].(float64)), nil
		},
	}
	for key, val := range functions {
		defaultFuncs[key] = val
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, defaultFuncs)
	if err != nil {
		return nil, fmt.Errorf("precipattractor: parsing transform %q: %v", expression, err)
	}
	for _, v := range expr.Vars() {
		if v != TransformVar {
			return nil, fmt.Errorf("precipattractor: transform %q uses undefined variable '%s'; "+
				"the only allowed variable is '%s'", expression, v, TransformVar)
		}
	}
	return &Transform{expression: expression, expr: expr}, nil
}

func (t *Transform) String() string { return t.expression }

// Eval evaluates the transform for a single value.
func (t *Transform) Eval(x float64) (float64, error) {
	params := map[string]interface{}{TransformVar: x}
	r, err := t.expr.Evaluate(params)
	if err != nil {
		return math.NaN(), fmt.Errorf("precipattractor: evaluating transform %q at x=%g: %v", t.expression, x, err)
	}
	switch v := r.(type) {
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return math.NaN(), fmt.Errorf("precipattractor: transform %q returned %T, not a number", t.expression, r)
	}
}

// Apply returns a new array holding the transform of every element of a.
func (t *Transform) Apply(a *sparse.DenseArray) (*sparse.DenseArray, error) {
	o := sparse.ZerosDense(a.Shape...)
	for i, v := range a.Elements {
		r, err := t.Eval(v)
		if err != nil {
			return nil, err
		}
		o.Elements[i] = r
	}
	return o, nil
}
