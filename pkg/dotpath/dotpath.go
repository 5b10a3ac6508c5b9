// Package dotpath navigates and mutates a decoded JSON object tree using dotted keys
// such as "guild.member.money". Every segment is an object key; arrays are values and
// are never addressed through the path.
package dotpath

import "strings"

// Tree is a decoded JSON object.
type Tree = map[string]interface{}

// Split returns the segments of the path. The empty path denotes the root and has no segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get returns the value stored at the path. The second return value is false if any
// segment along the way is missing or is not an object.
func Get(tree Tree, path string) (interface{}, bool) {
	segments := Split(path)
	if len(segments) == 0 {
		return tree, tree != nil
	}

	var current interface{} = tree
	for _, segment := range segments {
		obj, ok := current.(map[string]interface{})
		if !ok || obj == nil {
			return nil, false
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Set assigns value at the path, creating an empty object for every intermediate segment
// that is missing or holds a non-object value. A nil tree is replaced with a new one, which
// is returned.
func Set(tree Tree, path string, value interface{}) Tree {
	if tree == nil {
		tree = make(Tree)
	}
	segments := Split(path)
	if len(segments) == 0 {
		if obj, ok := value.(map[string]interface{}); ok {
			return obj
		}
		return tree
	}

	current := tree
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]interface{})
		if !ok || next == nil {
			next = make(map[string]interface{})
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
	return tree
}

// Remove deletes the final segment of the path from its parent object. Nothing happens if
// an intermediate segment is missing. The return value reports whether a key was deleted.
func Remove(tree Tree, path string) bool {
	segments := Split(path)
	if len(segments) == 0 || tree == nil {
		return false
	}

	current := tree
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]interface{})
		if !ok || next == nil {
			return false
		}
		current = next
	}
	last := segments[len(segments)-1]
	if _, ok := current[last]; !ok {
		return false
	}
	delete(current, last)
	return true
}

// Join builds a dotted path from its segments, skipping empty ones.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, ".")
}
