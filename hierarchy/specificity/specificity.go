// Package specificity encodes inheritance paths as dot-joined label strings,
// root first: "Thing.CreativeWork.Article".
package specificity

import "strings"

// Separator joins the labels of a path.
const Separator = "."

// Join encodes labels as a path string.
func Join(labels []string) string {
	return strings.Join(labels, Separator)
}

// Split decodes a path string into its labels. The empty path has no labels.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Append extends path with one more label.
func Append(path, label string) string {
	if path == "" {
		return label
	}
	return path + Separator + label
}

// Last returns the final label of path, which is the class the path leads to.
func Last(path string) string {
	if i := strings.LastIndex(path, Separator); i >= 0 {
		return path[i+len(Separator):]
	}
	return path
}
