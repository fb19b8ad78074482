package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/damap/model"
)

// LineEncoder writes one tab-separated record per line: the declaration,
// then its annotations, interfaces, enum values and methods. Empty columns
// are written as "-".
type LineEncoder struct {
	w    io.Writer
	decl model.Declaration
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(decl model.Declaration) error {
	e.decl = decl
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	d := e.decl

	fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", d.Kind(), d.Name(), modifiersStr(d.Modifiers()), orDash(strings.Join(d.GeneratedNames(), ",")))

	for _, a := range d.Annotations() {
		fmt.Fprintf(&sb, "annotation\t%s\n", annotationStr(a))
	}

	for _, t := range d.Interfaces() {
		fmt.Fprintf(&sb, "implements\t%s\n", t)
	}

	for _, v := range d.EnumValues() {
		fmt.Fprintf(&sb, "value\t%s\n", v.Name)
	}

	for _, m := range d.Methods() {
		ret := "-"
		if rt, ok := m.ReturnType(); ok {
			ret = rt.String()
		}
		fmt.Fprintf(&sb, "method\t%s\t%s\t%s\t%s\t%s\n",
			m.Name(),
			ret,
			parametersStr(m.Parameters()),
			modifiersStr(m.Modifiers()),
			m.Role(),
		)
	}

	return []byte(sb.String()), nil
}

func modifiersStr(mods model.Modifiers) string {
	return orDash(strings.ToLower(mods.String()))
}

func parametersStr(params []model.Parameter) string {
	var parts []string
	for _, p := range params {
		s := p.Type().String()
		if p.IsVarArgs() {
			s = strings.TrimSuffix(s, "[]") + "..."
		}
		parts = append(parts, s)
	}
	return orDash(strings.Join(parts, ","))
}

func annotationStr(a model.Annotation) string {
	s := "@" + a.Type().Name()
	values := a.Values()
	if len(values) == 0 {
		return s
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.Name + "=" + v.Value.String()
	}
	return s + "(" + strings.Join(parts, ", ") + ")"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
