package config

// replaceValue marks a value that overwrites lists instead of extending them
type replaceValue struct{ v interface{} }

func mergeMaps(dest, src map[string]interface{}) {
	for key, srcVal := range src {
		destVal, destOk := dest[key]
		if !destOk {
			dest[key] = srcVal
			continue
		}

		if srcMap, srcOk := srcVal.(map[string]interface{}); srcOk {
			if destMap, destOk := destVal.(map[string]interface{}); destOk {
				mergeMaps(destMap, srcMap)
				continue
			}
		}

		if isSlice(srcVal) && isSlice(destVal) {
			dest[key] = appendSlices(destVal, srcVal)
			continue
		}

		dest[key] = srcVal
	}
}

// markReplace wraps every leaf of m so mergeMaps overwrites with it
func markReplace(m map[string]interface{}) {
	for k, v := range m {
		if sub, ok := v.(map[string]interface{}); ok {
			markReplace(sub)
			continue
		}
		m[k] = replaceValue{v}
	}
}

func unwrapReplace(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case map[string]interface{}:
			out[k] = unwrapReplace(t)
		case replaceValue:
			out[k] = t.v
		default:
			out[k] = v
		}
	}
	return out
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if sub, ok := v.(map[string]interface{}); ok {
			out[k] = copyMap(sub)
			continue
		}
		out[k] = v
	}
	return out
}

func lookup(m map[string]interface{}, keys ...string) interface{} {
	var cur interface{} = m
	for _, k := range keys {
		mm, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = mm[k]
	}
	if r, ok := cur.(replaceValue); ok {
		return r.v
	}
	return cur
}

func isSlice(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}

func appendSlices(dest, src interface{}) interface{} {
	return append(toInterfaceSlice(dest), toInterfaceSlice(src)...)
}

func toInterfaceSlice(v interface{}) []interface{} {
	switch s := v.(type) {
	case []interface{}:
		return append([]interface{}(nil), s...)
	case []string:
		result := make([]interface{}, len(s))
		for i, v := range s {
			result[i] = v
		}
		return result
	default:
		return []interface{}{}
	}
}
