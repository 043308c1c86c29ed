package params

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

// validate checks numericOptions bounds. Field names in errors come from
// the flag tag so messages name the option the user typed.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("flag")
	})
	return v
}()

func validateNumeric(opts numericOptions) []string {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("--%s=%v must be %s %s", fe.Field(), fe.Value(), boundWord(fe.Tag()), fe.Param()))
	}
	return out
}

func boundWord(tag string) string {
	switch tag {
	case "gt":
		return ">"
	case "gte":
		return ">="
	case "lt":
		return "<"
	case "lte":
		return "<="
	default:
		return tag
	}
}

// numberValue is a pflag.Value that never fails Set. A malformed value is
// recorded as a diagnostic and parsing carries on, so later selector tokens
// are still collected.
type numberValue[T int | float64] struct {
	dst   *T
	name  string
	typ   string
	parse func(string) (T, error)
	errs  *[]string
}

func (n *numberValue[T]) Set(s string) error {
	v, err := n.parse(s)
	if err != nil {
		*n.errs = append(*n.errs, fmt.Sprintf("--%s: %q is not a valid %s", n.name, s, n.typ))
		return nil
	}
	*n.dst = v
	return nil
}

func (n *numberValue[T]) String() string { return fmt.Sprint(*n.dst) }
func (n *numberValue[T]) Type() string   { return n.typ }

func (rp *RunParams) intValue(dst *int, name string) pflag.Value {
	return &numberValue[int]{dst: dst, name: name, typ: "int", parse: strconv.Atoi, errs: &rp.errs}
}

func (rp *RunParams) floatValue(dst *float64, name string) pflag.Value {
	return &numberValue[float64]{
		dst:  dst,
		name: name,
		typ:  "float",
		parse: func(s string) (float64, error) {
			return strconv.ParseFloat(s, 64)
		},
		errs: &rp.errs,
	}
}

// legacyAliases maps the suite's historical multi-letter single-dash
// options onto their long forms.
var legacyAliases = map[string]string{
	"-pk":  "--print-kernels",
	"-pfk": "--print-full-kernels",
	"-pv":  "--print-variants",
	"-pg":  "--print-groups",
	"-od":  "--outdir",
	"-of":  "--outfile",
	"-rv":  "--refvar",
}

// selectorFlags consume every bare token that follows them, so
// "-k Stream_DOT Basic" selects both.
var selectorFlags = map[string]bool{
	"kernels":  true,
	"variants": true,
}

// expandArgs rewrites args into a form pflag parses directly: aliases are
// canonicalized, selector token runs become repeated --flag=token pairs,
// value options are joined with their argument, and options fs does not
// know are returned separately instead of being passed on.
func expandArgs(fs *pflag.FlagSet, args []string) (out, unknown []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			out = append(out, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if alias, ok := legacyAliases[name]; ok {
			name = alias
		}
		f, attached := lookupFlag(fs, name)
		if f == nil {
			unknown = append(unknown, arg)
			continue
		}
		if attached != "" {
			if hasValue {
				value = attached + "=" + value
			} else {
				value = attached
			}
			hasValue = true
		}

		canonical := "--" + f.Name
		switch {
		case selectorFlags[f.Name]:
			if hasValue {
				out = append(out, canonical+"="+value)
			}
			j := i + 1
			for ; j < len(args) && !strings.HasPrefix(args[j], "-"); j++ {
				out = append(out, canonical+"="+args[j])
			}
			if j == i+1 && !hasValue {
				out = append(out, canonical) // pflag reports the missing argument
			}
			i = j - 1
		case hasValue:
			out = append(out, canonical+"="+value)
		case takesValue(f) && i+1 < len(args):
			// the next token is the value even when it starts with a dash,
			// so "--npasses -1" fails the range check
			out = append(out, canonical+"="+args[i+1])
			i++
		default:
			out = append(out, canonical)
		}
	}
	return out, unknown
}

// lookupFlag resolves an option name. A single-dash name longer than one
// letter is a value shorthand with its argument attached, as in
// "-kStream_DOT"; attached is that argument.
func lookupFlag(fs *pflag.FlagSet, name string) (f *pflag.Flag, attached string) {
	switch {
	case strings.HasPrefix(name, "--"):
		return fs.Lookup(name[2:]), ""
	case len(name) == 2:
		return fs.ShorthandLookup(name[1:]), ""
	case len(name) > 2:
		f = fs.ShorthandLookup(name[1:2])
		if f == nil || !takesValue(f) {
			return nil, ""
		}
		return f, name[2:]
	default:
		return nil, ""
	}
}

// takesValue reports whether f needs an argument. Boolean flags carry a
// no-option default and do not.
func takesValue(f *pflag.Flag) bool { return f.NoOptDefVal == "" }
