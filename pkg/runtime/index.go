package runtime

import (
	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/source"
)

// normaliseIndex maps a possibly negative index onto [0, length). A negative
// index counts back from the end, so -1 is the last element.
func normaliseIndex(index, length int64, span source.TextSpan) (int, error) {
	i := index
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, diag.NewRuntimeError(diag.IndexOutOfRange, span,
			"index %d is out of range for length %d", index, length)
	}
	return int(i), nil
}

// normaliseEnd is normaliseIndex for an exclusive upper bound, so the
// length itself is in range.
func normaliseEnd(index, length int64, span source.TextSpan) (int, error) {
	i := index
	if i < 0 {
		i += length
	}
	if i < 0 || i > length {
		return 0, diag.NewRuntimeError(diag.IndexOutOfRange, span,
			"index %d is out of range for length %d", index, length)
	}
	return int(i), nil
}

func notIndexable(target, key Value, span source.TextSpan) error {
	return diag.NewRuntimeError(diag.NotIndexable, span,
		"%s cannot be indexed with %s", target.Kind(), key.Kind())
}

// badIndexKey reports an indexable container given the wrong kind of key,
// which is a type error rather than a not indexable one.
func badIndexKey(target, key Value, span source.TextSpan) error {
	return diag.NewRuntimeError(diag.TypeError, span,
		"%s cannot be indexed with %s", target.Kind(), key.Kind())
}

// IndexGet reads target[key]. Strings and lists take an int index or a
// range slice, objects take a string key, and a range exposes only its
// "start" and "end" parts.
func IndexGet(target, key Value, span source.TextSpan) (Value, error) {
	switch t := target.(type) {
	case *StringValue:
		chars := []rune(t.Val)
		switch k := key.(type) {
		case IntValue:
			i, err := normaliseIndex(k.Val, int64(len(chars)), span)
			if err != nil {
				return nil, err
			}
			return NewString(string(chars[i])), nil
		case RangeValue:
			start, end, err := sliceBounds(k, int64(len(chars)), span)
			if err != nil {
				return nil, err
			}
			return NewString(string(chars[start:end])), nil
		}
		return nil, badIndexKey(target, key, span)
	case *ListValue:
		switch k := key.(type) {
		case IntValue:
			i, err := normaliseIndex(k.Val, int64(len(t.Elements)), span)
			if err != nil {
				return nil, err
			}
			return t.Elements[i], nil
		case RangeValue:
			start, end, err := sliceBounds(k, int64(len(t.Elements)), span)
			if err != nil {
				return nil, err
			}
			return NewList(append([]Value(nil), t.Elements[start:end]...)...), nil
		}
		return nil, badIndexKey(target, key, span)
	case *ObjectValue:
		k, ok := key.(*StringValue)
		if !ok {
			return nil, badIndexKey(target, key, span)
		}
		v, ok := t.Entries[k.Val]
		if !ok {
			return nil, diag.NewRuntimeError(diag.KeyNotFound, span,
				"object has no key %q", k.Val)
		}
		return v, nil
	case RangeValue:
		k, ok := key.(*StringValue)
		if !ok {
			return nil, badIndexKey(target, key, span)
		}
		switch k.Val {
		case "start":
			return IntValue{Val: t.Start}, nil
		case "end":
			return IntValue{Val: t.End}, nil
		}
		return nil, diag.NewRuntimeError(diag.TypeError, span,
			"a range has no part %q, only \"start\" and \"end\"", k.Val)
	}
	return nil, notIndexable(target, key, span)
}

// IndexSet writes target[key] = value in place, so the change is visible
// through every alias of the container. Returns the assigned value.
func IndexSet(target, key, value Value, span source.TextSpan) (Value, error) {
	switch t := target.(type) {
	case *StringValue:
		r, ok := value.(*StringValue)
		if !ok {
			return nil, diag.NewRuntimeError(diag.TypeError, span,
				"cannot assign %s into a string, want a string", value.Kind())
		}
		chars := []rune(t.Val)
		var start, end int
		switch k := key.(type) {
		case IntValue:
			i, err := normaliseIndex(k.Val, int64(len(chars)), span)
			if err != nil {
				return nil, err
			}
			// A one character value replaces the character, anything
			// else splices in and changes the length.
			start, end = i, i+1
		case RangeValue:
			var err error
			start, end, err = sliceBounds(k, int64(len(chars)), span)
			if err != nil {
				return nil, err
			}
		default:
			return nil, badIndexKey(target, key, span)
		}
		t.Val = string(chars[:start]) + r.Val + string(chars[end:])
		return value, nil
	case *ListValue:
		switch k := key.(type) {
		case IntValue:
			i, err := normaliseIndex(k.Val, int64(len(t.Elements)), span)
			if err != nil {
				return nil, err
			}
			t.Elements[i] = value
			return value, nil
		case RangeValue:
			r, ok := value.(*ListValue)
			if !ok {
				return nil, diag.NewRuntimeError(diag.TypeError, span,
					"cannot splice %s into a list, want a list", value.Kind())
			}
			start, end, err := sliceBounds(k, int64(len(t.Elements)), span)
			if err != nil {
				return nil, err
			}
			spliced := make([]Value, 0, len(t.Elements)-(end-start)+len(r.Elements))
			spliced = append(spliced, t.Elements[:start]...)
			spliced = append(spliced, r.Elements...)
			spliced = append(spliced, t.Elements[end:]...)
			t.Elements = spliced
			return value, nil
		}
		return nil, badIndexKey(target, key, span)
	case *ObjectValue:
		k, ok := key.(*StringValue)
		if !ok {
			return nil, badIndexKey(target, key, span)
		}
		t.Entries[k.Val] = value
		return value, nil
	}
	return nil, notIndexable(target, key, span)
}

// sliceBounds resolves a range key against a container length, with the
// same negative wrap rule as single indexes. The start must address an
// element while the end may equal the length.
func sliceBounds(r RangeValue, length int64, span source.TextSpan) (int, int, error) {
	start, err := normaliseIndex(r.Start, length, span)
	if err != nil {
		return 0, 0, err
	}
	end, err := normaliseEnd(r.End, length, span)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		end = start
	}
	return start, end, nil
}
