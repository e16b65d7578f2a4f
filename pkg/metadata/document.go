// SPDX-License-Identifier: MPL-2.0

package metadata

// Lookup returns the top-level property key of doc. It reports false when doc
// is not an object or the property is absent.
func Lookup(doc any, key string) (any, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// LookupString is like Lookup but also requires the property to be a string.
func LookupString(doc any, key string) (string, bool) {
	v, ok := Lookup(doc, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
