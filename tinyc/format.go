package tinyc

import (
	"strconv"
	"strings"
)

// formatValues expands the printf directives %%, %s and %d. Surplus
// arguments are ignored.
func formatValues(name string, format string, args []Value) (string, error) {
	var b strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", errorf(ErrInvalidDirective, "%s: format ends with a lone %%", name)
		}
		i++
		directive := format[i]
		if directive == '%' {
			b.WriteByte('%')
			continue
		}
		if directive != 's' && directive != 'd' {
			return "", errorf(ErrInvalidDirective, "%s: unknown directive %%%c", name, directive)
		}
		if next >= len(args) {
			return "", errorf(ErrArityMismatch, "%s: missing argument for %%%c", name, directive)
		}
		arg := args[next]
		next++
		switch directive {
		case 's':
			b.WriteString(arg.String())
		case 'd':
			if arg.Kind() != KindInt {
				return "", errorf(ErrTypeMismatch, "%s: %%d expects int, got %s", name, arg.Kind())
			}
			b.WriteString(strconv.FormatInt(arg.Int(), 10))
		}
	}
	return b.String(), nil
}
