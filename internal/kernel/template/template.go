// Package template renders `{key}` interpolation templates against a
// request context.
//
// Rendering has two explicit policies. Render fails on the first key missing
// from the context. RenderLenient returns the template text unmodified when
// any key is missing, which is the narrative-rendering policy: a broken
// template never blocks an otherwise successful action.
package template

import (
	"fmt"
	"strings"

	"github.com/louisbranch/hollowmere/internal/platform/errors"
)

// Render interpolates every `{key}` placeholder from ctx. It returns an
// error carrying CodeTemplateMissingKey naming the first absent key.
func Render(template string, ctx map[string]any) (string, error) {
	var out strings.Builder
	remaining := template
	for {
		open := strings.IndexByte(remaining, '{')
		if open < 0 {
			out.WriteString(remaining)
			return out.String(), nil
		}
		close := strings.IndexByte(remaining[open:], '}')
		if close < 0 {
			out.WriteString(remaining)
			return out.String(), nil
		}
		close += open

		key := remaining[open+1 : close]
		if key == "" || strings.ContainsAny(key, " \t\n{") {
			// Not a placeholder; emit the brace literally and keep scanning.
			out.WriteString(remaining[:open+1])
			remaining = remaining[open+1:]
			continue
		}

		value, ok := ctx[key]
		if !ok {
			return "", errors.WithMetadata(errors.CodeTemplateMissingKey,
				fmt.Sprintf("template key %q is not in context", key),
				map[string]string{"key": key})
		}
		out.WriteString(remaining[:open])
		out.WriteString(formatValue(value))
		remaining = remaining[close+1:]
	}
}

// RenderLenient interpolates the template, returning the template text
// unmodified when any referenced key is absent.
func RenderLenient(template string, ctx map[string]any) string {
	rendered, err := Render(template, ctx)
	if err != nil {
		return template
	}
	return rendered
}

// VariableNames returns the placeholder names in the template, in order of
// first appearance.
func VariableNames(template string) []string {
	var names []string
	seen := make(map[string]bool)
	remaining := template
	for {
		open := strings.IndexByte(remaining, '{')
		if open < 0 {
			return names
		}
		close := strings.IndexByte(remaining[open:], '}')
		if close < 0 {
			return names
		}
		close += open
		key := remaining[open+1 : close]
		if key != "" && !strings.ContainsAny(key, " \t\n{") {
			if !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
			remaining = remaining[close+1:]
			continue
		}
		remaining = remaining[open+1:]
	}
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		// JSON numbers decode as float64; render whole values without the
		// trailing ".0" so templates read naturally.
		if typed == float64(int64(typed)) {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprintf("%v", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}
