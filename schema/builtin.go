package schema

import (
	"fmt"
	"math"
	"strconv"
)

// Int is the builtin Int scalar. Internal representation is int.
var Int = &Scalar{
	Name:            "Int",
	Description:     "The `Int` scalar type represents non-fractional signed whole numeric values.",
	CoerceOutput:    coerceInt,
	CoerceInput:     coerceInt,
	CoerceUserInput: coerceInt,
}

// Float is the builtin Float scalar. Internal representation is float64.
var Float = &Scalar{
	Name:            "Float",
	Description:     "The `Float` scalar type represents signed double-precision fractional values.",
	CoerceOutput:    coerceFloat,
	CoerceInput:     coerceFloat,
	CoerceUserInput: coerceFloat,
}

// String is the builtin String scalar.
var String = &Scalar{
	Name:            "String",
	Description:     "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
	CoerceOutput:    coerceString,
	CoerceInput:     coerceString,
	CoerceUserInput: coerceString,
}

// Boolean is the builtin Boolean scalar.
var Boolean = &Scalar{
	Name:            "Boolean",
	Description:     "The `Boolean` scalar type represents `true` or `false`.",
	CoerceOutput:    coerceBoolean,
	CoerceInput:     coerceBoolean,
	CoerceUserInput: coerceBoolean,
}

// ID is the builtin ID scalar. Internal representation is string; whole
// numbers are accepted on input and converted.
var ID = &Scalar{
	Name:            "ID",
	Description:     "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
	CoerceOutput:    coerceID,
	CoerceInput:     coerceID,
	CoerceUserInput: coerceID,
}

// IncludeDirective is the builtin @include directive.
var IncludeDirective = &Directive{
	Name:        "include",
	Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
	Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
	Args: []*InputValue{
		{Name: "if", Description: "Included when true.", Type: NewNonNull(Boolean)},
	},
}

// SkipDirective is the builtin @skip directive.
var SkipDirective = &Directive{
	Name:        "skip",
	Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
	Locations:   []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
	Args: []*InputValue{
		{Name: "if", Description: "Skipped when true.", Type: NewNonNull(Boolean)},
	},
}

// DeprecatedDirective is the builtin @deprecated directive.
var DeprecatedDirective = &Directive{
	Name:        "deprecated",
	Description: "Marks an element of a GraphQL schema as no longer supported.",
	Locations:   []string{"FIELD_DEFINITION", "ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION", "ENUM_VALUE"},
	Args: []*InputValue{
		{Name: "reason", Description: "Explains why this element was deprecated.", Type: String, Default: "No longer supported"},
	},
}

func coerceInt(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return nil, fmt.Errorf("Int cannot represent %d", v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return nil, fmt.Errorf("Int cannot represent %v", v)
		}
		return int(v), nil
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Int", value, value)
}

func coerceFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Float", value, value)
}

func coerceString(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to String", value, value)
}

func coerceBoolean(value any) (any, error) {
	if v, ok := value.(bool); ok {
		return v, nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to Boolean", value, value)
}

func coerceID(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return nil, fmt.Errorf("cannot coerce %v (%T) to ID", value, value)
}
