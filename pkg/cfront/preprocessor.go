package cfront

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Macro represents a defined macro, either object-like or function-like.
type Macro struct {
	Args []string // nil for object-like macros
	Body string
}

// PreprocessOptions configure a preprocessing run.
type PreprocessOptions struct {
	// Defines seeds the macro table; entries are NAME or NAME=VALUE.
	Defines []string
	// IncludeDirs are searched, in order, for both quoted and angle includes.
	IncludeDirs []string
}

// predefined macros visible to every translation unit.
var predefined = map[string]Macro{
	"NULL":     {Body: "((void*)0)"},
	"__STDC__": {Body: "1"},
	"__C2CS__": {Body: "1"},
}

// condFrame tracks one level of #if nesting.
type condFrame struct {
	active    bool // lines in this branch are emitted
	taken     bool // some branch of this group has already been active
	parentOff bool // the enclosing group is inactive
}

type preprocessor struct {
	opts      PreprocessOptions
	defines   map[string]Macro
	processed map[string]bool
	// Included lists every file pulled in by #include, in first-seen order.
	included []string
}

// Preprocess expands includes, macros and conditional blocks in src.
// baseDir is the directory of the file src was read from. The returned
// dependency list names every included file.
func Preprocess(src string, baseDir string, opts PreprocessOptions) (string, []string, error) {
	pp := &preprocessor{
		opts:      opts,
		defines:   make(map[string]Macro, len(predefined)+len(opts.Defines)),
		processed: make(map[string]bool),
	}
	for name, m := range predefined {
		pp.defines[name] = m
	}
	for _, def := range opts.Defines {
		name, value, found := strings.Cut(def, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !found {
			value = "1"
		}
		pp.defines[name] = Macro{Body: strings.TrimSpace(value)}
	}
	out, err := pp.run(src, baseDir, map[string]bool{})
	return out, pp.included, err
}

// DefinedNames lists the macros a Preprocess run would start with, sorted.
func DefinedNames(opts PreprocessOptions) []string {
	var names []string
	for name := range predefined {
		names = append(names, name)
	}
	for _, def := range opts.Defines {
		name, _, _ := strings.Cut(def, "=")
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// spliceLines joins backslash-continued lines while keeping the line count,
// so later diagnostics still point at the right place.
func spliceLines(src string) []string {
	raw := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	pending := ""
	padding := 0
	for _, line := range raw {
		if strings.HasSuffix(line, "\\") {
			pending += strings.TrimSuffix(line, "\\")
			padding++
			continue
		}
		lines = append(lines, pending+line)
		for ; padding > 0; padding-- {
			lines = append(lines, "")
		}
		pending = ""
	}
	if pending != "" {
		lines = append(lines, pending)
	}
	return lines
}

func (pp *preprocessor) run(src string, baseDir string, stack map[string]bool) (string, error) {
	var result strings.Builder
	var conds []condFrame
	active := func() bool {
		return len(conds) == 0 || conds[len(conds)-1].active
	}

	for lineNo, line := range spliceLines(src) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if active() {
				result.WriteString(pp.expand(line, nil))
			}
			result.WriteString("\n")
			continue
		}

		directive, rest := splitDirective(trimmed)
		switch directive {
		case "ifdef", "ifndef":
			on := false
			if active() {
				_, defined := pp.defines[firstWord(rest)]
				on = defined == (directive == "ifdef")
			}
			conds = append(conds, condFrame{active: on, taken: on, parentOff: !active()})
		case "if":
			on := false
			if active() {
				v, err := pp.evalCondition(rest)
				if err != nil {
					return "", errors.Wrapf(err, "line %d", lineNo+1)
				}
				on = v
			}
			conds = append(conds, condFrame{active: on, taken: on, parentOff: !active()})
		case "elif":
			if len(conds) == 0 {
				return "", errors.Newf("line %d: #elif without #if", lineNo+1)
			}
			top := &conds[len(conds)-1]
			if top.parentOff || top.taken {
				top.active = false
				break
			}
			v, err := pp.evalCondition(rest)
			if err != nil {
				return "", errors.Wrapf(err, "line %d", lineNo+1)
			}
			top.active, top.taken = v, v
		case "else":
			if len(conds) == 0 {
				return "", errors.Newf("line %d: #else without #if", lineNo+1)
			}
			top := &conds[len(conds)-1]
			top.active = !top.parentOff && !top.taken
			top.taken = true
		case "endif":
			if len(conds) == 0 {
				return "", errors.Newf("line %d: #endif without #if", lineNo+1)
			}
			conds = conds[:len(conds)-1]
		default:
			if !active() {
				break
			}
			text, err := pp.directive(directive, rest, baseDir, stack)
			if err != nil {
				return "", errors.Wrapf(err, "line %d", lineNo+1)
			}
			result.WriteString(text)
		}
		result.WriteString("\n")
	}
	if len(conds) > 0 {
		return "", errors.New("unterminated conditional directive")
	}
	return result.String(), nil
}

// directive handles the non-conditional directives in an active region.
func (pp *preprocessor) directive(name, rest, baseDir string, stack map[string]bool) (string, error) {
	switch name {
	case "define":
		return "", pp.define(rest)
	case "undef":
		delete(pp.defines, firstWord(rest))
	case "include":
		return pp.include(rest, baseDir, stack)
	case "error":
		return "", errors.Newf("#error %s", rest)
	case "pragma", "line", "warning", "":
	default:
		return "", errors.Newf("unknown directive #%s", name)
	}
	return "", nil
}

func splitDirective(trimmed string) (string, string) {
	body := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
	end := 0
	for end < len(body) && isIdentPart(rune(body[end])) {
		end++
	}
	return body[:end], strings.TrimSpace(stripLineComment(body[end:]))
}

func stripLineComment(s string) string {
	if i := strings.Index(s, "//"); i >= 0 {
		return s[:i]
	}
	if i := strings.Index(s, "/*"); i >= 0 {
		if j := strings.Index(s[i:], "*/"); j >= 0 {
			return s[:i] + " " + s[i+j+2:]
		}
	}
	return s
}

func firstWord(s string) string {
	end := 0
	for end < len(s) && isIdentPart(rune(s[end])) {
		end++
	}
	return s[:end]
}

// define parses `NAME VALUE` or `NAME(ARGS) VALUE`.
func (pp *preprocessor) define(rest string) error {
	if rest == "" {
		return errors.New("#define without a name")
	}
	nameEnd := 0
	for nameEnd < len(rest) && isIdentPart(rune(rest[nameEnd])) {
		nameEnd++
	}
	name := rest[:nameEnd]
	if name == "" {
		return errors.Newf("invalid macro name in %q", rest)
	}
	rest = rest[nameEnd:]

	var args []string
	// a function-like macro has '(' immediately after the name
	if len(rest) > 0 && rest[0] == '(' {
		closeParen := strings.Index(rest, ")")
		if closeParen == -1 {
			return errors.New("unterminated macro parameter list")
		}
		args = []string{}
		if argStr := strings.TrimSpace(rest[1:closeParen]); argStr != "" {
			for _, arg := range strings.Split(argStr, ",") {
				args = append(args, strings.TrimSpace(arg))
			}
		}
		rest = rest[closeParen+1:]
	}

	pp.defines[name] = Macro{Args: args, Body: strings.TrimSpace(rest)}
	return nil
}

// include resolves and splices an included file. Angle includes that are not
// found in the include directories are treated as system headers and dropped.
func (pp *preprocessor) include(rest, baseDir string, stack map[string]bool) (string, error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", errors.New("empty #include")
	}
	var filename string
	system := false
	switch rest[0] {
	case '"':
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return "", errors.Newf("invalid include directive: %s", rest)
		}
		filename = rest[1 : end+1]
	case '<':
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return "", errors.Newf("invalid include directive: %s", rest)
		}
		filename = rest[1:end]
		system = true
	default:
		return "", errors.Newf("invalid include directive: %s", rest)
	}

	fullPath, ok := pp.resolveInclude(filename, baseDir, system)
	if !ok {
		if system {
			return "", nil
		}
		return "", errors.WithHint(
			errors.Newf("include file %q not found", filename),
			"add its directory to include_directories")
	}

	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", errors.Wrap(err, "resolving include path")
	}
	if stack[absPath] {
		return "", errors.Newf("circular include detected: %s", filename)
	}
	// a file reached twice through different branches is only spliced once
	if pp.processed[absPath] {
		return "", nil
	}
	pp.processed[absPath] = true
	pp.included = append(pp.included, absPath)

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read included file %s", filename)
	}

	newStack := make(map[string]bool, len(stack)+1)
	for k, v := range stack {
		newStack[k] = v
	}
	newStack[absPath] = true

	text, err := pp.run(string(content), filepath.Dir(fullPath), newStack)
	if err != nil {
		return "", errors.Wrapf(err, "in %s", filename)
	}
	// the spliced text occupies the directive's line
	return strings.TrimRight(text, "\n"), nil
}

func (pp *preprocessor) resolveInclude(filename, baseDir string, system bool) (string, bool) {
	var candidates []string
	if !system {
		candidates = append(candidates, filepath.Join(baseDir, filename))
	}
	for _, dir := range pp.opts.IncludeDirs {
		candidates = append(candidates, filepath.Join(dir, filename))
	}
	if !system {
		candidates = append(candidates, filename)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, true
		}
	}
	return "", false
}

// expand replaces macro occurrences in input on identifier boundaries,
// leaving string and character literals alone. Names in hidden are not
// expanded again, which stops self-referential macros from looping.
func (pp *preprocessor) expand(input string, hidden map[string]bool) string {
	return expandWith(input, pp.defines, hidden)
}

func expandWith(input string, defines map[string]Macro, hidden map[string]bool) string {
	if len(defines) == 0 {
		return input
	}

	var sb strings.Builder
	n := len(input)
	i := 0

	for i < n {
		c := input[i]
		if c == '"' || c == '\'' {
			j := skipLiteral(input, i)
			sb.WriteString(input[i:j])
			i = j
			continue
		}
		if c == '/' && i+1 < n && input[i+1] == '/' {
			// a line comment never contains macros worth expanding
			sb.WriteString(input[i:])
			break
		}
		if !isIdentStart(rune(c)) {
			if isDigit(c) {
				// skip the whole number so suffixes are not read as identifiers
				j := i
				for j < n && isIdentPart(rune(input[j])) {
					j++
				}
				sb.WriteString(input[i:j])
				i = j
				continue
			}
			sb.WriteByte(c)
			i++
			continue
		}

		start := i
		for i < n && isIdentPart(rune(input[i])) {
			i++
		}
		word := input[start:i]
		macro, ok := defines[word]
		if !ok || hidden[word] {
			sb.WriteString(word)
			continue
		}

		inner := make(map[string]bool, len(hidden)+1)
		for k := range hidden {
			inner[k] = true
		}
		inner[word] = true

		if macro.Args == nil {
			sb.WriteString(expandWith(macro.Body, defines, inner))
			continue
		}

		args, end, ok := macroArguments(input, i)
		if !ok || len(args) != len(macro.Args) && !(len(macro.Args) == 0 && len(args) == 1 && args[0] == "") {
			// not an invocation: leave the name as written
			sb.WriteString(word)
			continue
		}
		argMap := make(map[string]Macro, len(macro.Args))
		for k, argName := range macro.Args {
			argMap[argName] = Macro{Body: args[k]}
		}
		// one substitution pass so argument values are not re-substituted
		body := expandWith(macro.Body, argMap, nil)
		sb.WriteString(expandWith(body, defines, inner))
		i = end
	}
	return sb.String()
}

// macroArguments parses a parenthesised argument list starting at or after
// whitespace from position i. It returns the trimmed arguments and the index
// just past the closing parenthesis.
func macroArguments(input string, i int) ([]string, int, bool) {
	n := len(input)
	j := i
	for j < n && (input[j] == ' ' || input[j] == '\t') {
		j++
	}
	if j >= n || input[j] != '(' {
		return nil, i, false
	}
	j++
	var args []string
	var current strings.Builder
	depth := 1
	for j < n && depth > 0 {
		c := input[j]
		switch {
		case c == '"' || c == '\'':
			k := skipLiteral(input, j)
			current.WriteString(input[j:k])
			j = k
			continue
		case c == '(':
			depth++
			current.WriteByte(c)
		case c == ')':
			depth--
			if depth > 0 {
				current.WriteByte(c)
			}
		case c == ',' && depth == 1:
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
		j++
	}
	if depth != 0 {
		return nil, i, false
	}
	args = append(args, strings.TrimSpace(current.String()))
	return args, j, true
}

// skipLiteral returns the index just past the quoted literal starting at i.
func skipLiteral(input string, i int) int {
	quote := input[i]
	j := i + 1
	for j < len(input) {
		switch input[j] {
		case '\\':
			j += 2
			continue
		case quote:
			return j + 1
		}
		j++
	}
	return len(input)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
