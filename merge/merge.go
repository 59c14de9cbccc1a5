// Package jsonmerge recombines the two partial JSON responses produced by a
// partitioned GraphQL operation into a single response indistinguishable in
// shape from what the origin would have produced for the whole query.
//
// Merging is purely structural: it knows nothing about GraphQL types, only
// about the dynamic map[string]interface{} / []interface{} / scalar shape
// that encoding/json produces. If, for a given path, both sides hold an
// array of objects, each object on the right is merged into its positional
// counterpart on the left:
//
//	left:  {"data": {"stooges": [{"name": "Moe"}, {"name": "Larry"}]}}
//	right: {"data": {"stooges": [{"job": "Stooge 1"}, {"job": "Stooge 2"}]}}
//	merged: {"data": {"stooges": [{"name": "Moe", "job": "Stooge 1"}, {"name": "Larry", "job": "Stooge 2"}]}}
//
// Correctness depends on the two responses having been produced by
// operations with disjoint object keys and positionally aligned arrays (see
// package gqlpartition), not on anything this package itself verifies
// beyond the array-length check below.
package jsonmerge

import "fmt"

// ShapeMismatchError reports that the accumulator and the new value could
// not be reconciled: either an array was merged against an object, or two
// arrays merged had different lengths. Both indicate that the two responses
// being merged did not actually originate from a matched partition, which
// is a configuration or implementation bug rather than a recoverable
// runtime condition.
type ShapeMismatchError struct {
	Path string
	Want string
	Got  string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("jsonmerge: shape mismatch at %s: %s vs %s", e.Path, e.Want, e.Got)
}

// Merge merges new into accumulator and returns the result. accumulator and
// new are both left untouched; the returned value shares no memory with
// either. Object keys present only in accumulator are kept as-is; keys
// present in both are merged recursively; keys present only in new are
// added. Arrays are merged positionally and must be the same length.
// Anything else (scalar, nil, or a type mismatch other than array/object)
// is resolved by taking new wholesale.
func Merge(accumulator, new interface{}) (interface{}, error) {
	return merge(accumulator, new, "$")
}

func merge(accumulator, new interface{}, path string) (interface{}, error) {
	switch acc := accumulator.(type) {
	case map[string]interface{}:
		newObj, ok := new.(map[string]interface{})
		if !ok {
			return cloneValue(new), nil
		}
		out := make(map[string]interface{}, len(acc)+len(newObj))
		for k, v := range acc {
			out[k] = cloneValue(v)
		}
		for k, v := range newObj {
			existing, present := out[k]
			if !present {
				existing = nil
			}
			merged, err := merge(existing, v, path+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = merged
		}
		return out, nil

	case []interface{}:
		newArr, ok := new.([]interface{})
		if !ok {
			if _, isObj := new.(map[string]interface{}); isObj {
				return nil, &ShapeMismatchError{Path: path, Want: "array", Got: "object"}
			}
			return cloneValue(new), nil
		}
		if len(acc) != len(newArr) {
			return nil, &ShapeMismatchError{
				Path: path,
				Want: fmt.Sprintf("array of length %d", len(acc)),
				Got:  fmt.Sprintf("array of length %d", len(newArr)),
			}
		}
		out := make([]interface{}, len(acc))
		for i := range acc {
			merged, err := merge(acc[i], newArr[i], fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = merged
		}
		return out, nil

	default:
		// accumulator is a scalar or nil: new wins outright, cloned so the
		// merged tree never aliases the caller's new value.
		return cloneValue(new), nil
	}
}

// cloneValue deep-copies a JSON value produced by encoding/json.Unmarshal.
func cloneValue(v interface{}) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, vv := range v {
			out[k] = cloneValue(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, vv := range v {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}
