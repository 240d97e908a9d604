// Package writer assembles a generated C# source file: the header comment,
// the using directives, the namespace and class wrapper, and the declaration
// groups of one converted translation unit.
package writer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"c2cs/pkg/convert"
)

// Generator is the name written on the first line of every output file.
const Generator = "c2cs"

// TimeLayout formats the conversion time in the header.
const TimeLayout = "2006-01-02 15:04:05"

// Header describes one output file.
type Header struct {
	Source    string
	Time      time.Time
	Namespace string
}

// indent is the prefix of every declaration line inside the class body.
const indent = "\t\t"

// Write renders out into w. A nil out still produces the header and an empty
// class, matching a file whose parse failed.
func Write(w io.Writer, log *zap.SugaredLogger, h Header, out *convert.Output) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if h.Namespace == "" {
		return errors.New("writer: empty namespace")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "// Generated by %s\n", Generator)
	fmt.Fprintf(&sb, "// From: %s @ %s\n\n", h.Source, h.Time.Format(TimeLayout))
	sb.WriteString("using System;\n")
	sb.WriteString("using System.Runtime.InteropServices;\n")
	sb.WriteString("using static C2CS.CRuntime;\n\n")
	fmt.Fprintf(&sb, "namespace %s\n{\n", h.Namespace)
	fmt.Fprintf(&sb, "\tpublic unsafe partial class %sClass\n\t{\n", h.Namespace)

	if out != nil {
		log.Debugf("Writing %d constants", len(out.GlobalConstants))
		for _, d := range out.GlobalConstants {
			writeDecl(&sb, d)
		}
		if len(out.GlobalConstants) > 0 {
			sb.WriteByte('\n')
		}
		writeGroup(&sb, log, "function types", out.FunctionTypes)
		writeGroup(&sb, log, "enums", out.Enums)
		writeGroup(&sb, log, "structs", out.Structs)
		writeGroup(&sb, log, "functions", out.Functions)
	}

	sb.WriteString("\t}\n}\n")

	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "writing output")
}

// writeGroup writes blank-line separated declarations followed by one blank
// line when the group is not empty.
func writeGroup(sb *strings.Builder, log *zap.SugaredLogger, what string, decls []string) {
	log.Debugf("Writing %d %s", len(decls), what)
	for i, d := range decls {
		writeDecl(sb, d)
		if i != len(decls)-1 {
			sb.WriteByte('\n')
		}
	}
	if len(decls) > 0 {
		sb.WriteByte('\n')
	}
}

func writeDecl(sb *strings.Builder, decl string) {
	for _, line := range Format(decl) {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}
